package database

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns a user without the password hash.
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Omit("password").First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find", "user")
	}
	return &user, nil
}

// FindByEmailWithPassword returns a user including the password hash. Only credential checks
// should call this.
func (r *UserRepo) FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error
	if err != nil {
		return nil, notFound(err, "find", "user")
	}
	return &user, nil
}

// FindByIDWithPassword returns a user including the password hash.
func (r *UserRepo) FindByIDWithPassword(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find", "user")
	}
	return &user, nil
}

// ExistsByEmail reports whether a user with email is stored.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", normalizeEmail(email)).Count(&n).Error
	if err != nil {
		return false, notFound(err, "find", "user")
	}
	return n > 0, nil
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	return notFound(r.db.WithContext(ctx).Create(user).Error, "create", "user")
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return notFound(res.Error, "update", "user")
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "update", "user")
	}
	return nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
	return notFound(err, "update", "user")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
