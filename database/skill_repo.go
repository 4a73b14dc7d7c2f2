package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// FindAll returns skills sorted by category then order. An empty category returns all.
func (r *SkillRepo) FindAll(ctx context.Context, category string) ([]*models.Skill, error) {
	skills := []*models.Skill{}
	q := r.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Order("category ASC").Order("sort_order ASC").Find(&skills).Error; err != nil {
		return nil, notFound(err, "list", "skills")
	}
	return skills, nil
}

func (r *SkillRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find", "skill")
	}
	return &skill, nil
}

func (r *SkillRepo) Add(ctx context.Context, skill *models.Skill) error {
	return notFound(r.db.WithContext(ctx).Create(skill).Error, "create", "skill")
}

func (r *SkillRepo) Update(ctx context.Context, skill *models.Skill) error {
	return notFound(r.db.WithContext(ctx).Save(skill).Error, "update", "skill")
}

func (r *SkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Skill{}, "id = ?", id)
	if res.Error != nil {
		return notFound(res.Error, "delete", "skill")
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "delete", "skill")
	}
	return nil
}
