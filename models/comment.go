package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reader comment on an article. Only approved comments are public.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	ArticleID uuid.UUID `json:"article" gorm:"type:uuid;not null;index:idx_comment_article_id"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null"`
	Email     string    `json:"email,omitempty" gorm:"type:text;not null;default:''"`
	Content   string    `json:"content" gorm:"type:varchar(1000);not null"`
	Approved  bool      `json:"approved" gorm:"not null;default:false;index:idx_comment_approved"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
