package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectFilter narrows project listings. Zero values mean no restriction.
type ProjectFilter struct {
	Status       string
	FeaturedOnly bool
}

// ProjectOrder assigns a display order to one project.
type ProjectOrder struct {
	ID    uuid.UUID
	Order int
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func preloadTechnologies(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindAll returns projects by display order, newest first within equal order.
func (r *ProjectRepo) FindAll(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	projects := []*models.Project{}
	q := r.db.WithContext(ctx).Preload("Technologies", preloadTechnologies)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.FeaturedOnly {
		q = q.Where("featured = ?", true)
	}
	if err := q.Order("sort_order ASC").Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, notFound(err, "list", "projects")
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Technologies", preloadTechnologies).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "find", "project")
	}
	return &project, nil
}

// Add inserts a new project with its technologies
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return notFound(r.db.WithContext(ctx).Create(project).Error, "create", "project")
}

// Update saves the project's columns and replaces its technology list
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(project).Omit(clause.Associations).
			Select("title", "description", "image", "live_url", "github_url", "featured", "sort_order", "status", "updated_at").
			Updates(project)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}
		for i := range project.Technologies {
			project.Technologies[i].ID = uuid.Nil
			project.Technologies[i].ProjectID = project.ID
		}
		if len(project.Technologies) > 0 {
			return tx.Create(&project.Technologies).Error
		}
		return nil
	})
	return notFound(err, "update", "project")
}

// Delete removes a project and its technologies
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return txError(err, "delete", "project")
}

// Reorder applies every order assignment in one transaction. Unknown ids are skipped.
func (r *ProjectRepo) Reorder(ctx context.Context, orders []ProjectOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			if err := tx.Model(&models.Project{}).Where("id = ?", o.ID).Update("sort_order", o.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return txError(err, "reorder", "projects")
}
