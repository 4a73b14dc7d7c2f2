package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db}
}

// FindAll returns experiences, most recent start date first. An empty kind returns all.
func (r *ExperienceRepo) FindAll(ctx context.Context, kind string) ([]*models.Experience, error) {
	experiences := []*models.Experience{}
	q := r.db.WithContext(ctx)
	if kind != "" {
		q = q.Where("type = ?", kind)
	}
	if err := q.Order("start_date DESC").Order("sort_order ASC").Find(&experiences).Error; err != nil {
		return nil, notFound(err, "list", "experiences")
	}
	return experiences, nil
}

func (r *ExperienceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	var experience models.Experience
	if err := r.db.WithContext(ctx).First(&experience, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find", "experience")
	}
	return &experience, nil
}

func (r *ExperienceRepo) Add(ctx context.Context, experience *models.Experience) error {
	return notFound(r.db.WithContext(ctx).Create(experience).Error, "create", "experience")
}

func (r *ExperienceRepo) Update(ctx context.Context, experience *models.Experience) error {
	return notFound(r.db.WithContext(ctx).Save(experience).Error, "update", "experience")
}

func (r *ExperienceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Experience{}, "id = ?", id)
	if res.Error != nil {
		return notFound(res.Error, "delete", "experience")
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "delete", "experience")
	}
	return nil
}
