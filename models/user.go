package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RoleAdmin = "admin"

// User is an administrator account. Password holds a bcrypt hash and is never serialized.
type User struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Email     string     `json:"email" gorm:"type:text;not null;uniqueIndex:idx_user_email"`
	Password  string     `json:"-" gorm:"type:text;not null"`
	Name      string     `json:"name" gorm:"type:text;not null;default:''"`
	Role      string     `json:"role" gorm:"type:text;not null"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleAdmin
	}
	return nil
}
