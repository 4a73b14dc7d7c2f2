package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SkillCategoryFrontend = "frontend"
	SkillCategoryBackend  = "backend"
	SkillCategoryMobile   = "mobile"
	SkillCategoryDatabase = "database"
	SkillCategoryDevops   = "devops"
	SkillCategoryTools    = "tools"
	SkillCategoryOther    = "other"

	DefaultSkillLevel = 80
)

// SkillCategories lists the accepted categories.
var SkillCategories = []string{
	SkillCategoryFrontend,
	SkillCategoryBackend,
	SkillCategoryMobile,
	SkillCategoryDatabase,
	SkillCategoryDevops,
	SkillCategoryTools,
	SkillCategoryOther,
}

// NormalizeSkillCategory lowercases and trims a category. Empty input means "other".
func NormalizeSkillCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return SkillCategoryOther
	}
	return c
}

// Skill is a single entry in the skills section. Level is the only stored proficiency value;
// it is also exposed as "proficiency".
type Skill struct {
	ID        uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      datatypes.JSONType[I18n] `json:"name" gorm:"not null"`
	Icon      string                   `json:"icon" gorm:"type:text;not null;default:''"`
	Category  string                   `json:"category" gorm:"type:text;not null;index:idx_skill_category"`
	Level     int                      `json:"level" gorm:"not null"`
	Order     int                      `json:"order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Category == "" {
		s.Category = SkillCategoryOther
	}
	return nil
}

func (s Skill) MarshalJSON() ([]byte, error) {
	type skill Skill
	return json.Marshal(struct {
		skill
		Proficiency int `json:"proficiency"`
	}{skill(s), s.Level})
}
