package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// SettingsRepo stores the site settings singleton. At most one row is expected; the oldest
// row wins if more exist.
type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

// Find returns the singleton, or a not-found error when none is stored.
func (r *SettingsRepo) Find(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Order("created_at ASC").First(&settings).Error
	if err != nil {
		return nil, notFound(err, "find", "settings")
	}
	return &settings, nil
}

func (r *SettingsRepo) Add(ctx context.Context, settings *models.Settings) error {
	return notFound(r.db.WithContext(ctx).Create(settings).Error, "create", "settings")
}

// Save writes the whole document. Concurrent saves are last-write-wins.
func (r *SettingsRepo) Save(ctx context.Context, settings *models.Settings) error {
	return notFound(r.db.WithContext(ctx).Save(settings).Error, "update", "settings")
}
