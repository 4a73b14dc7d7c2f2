package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents a portfolio project with localized title and description
type Project struct {
	ID          uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       datatypes.JSONType[I18n] `json:"title" gorm:"not null"`
	Description datatypes.JSONType[I18n] `json:"description" gorm:"not null"`
	Image       string                   `json:"image" gorm:"type:text;not null;default:''"`
	LiveURL     string                   `json:"liveUrl" gorm:"type:text;not null;default:''"`
	GithubURL   string                   `json:"githubUrl" gorm:"type:text;not null;default:''"`
	Featured    bool                     `json:"featured" gorm:"not null;default:false;index:idx_project_featured"`
	Order       int                      `json:"order" gorm:"column:sort_order;not null;default:0"`
	Status      string                   `json:"status" gorm:"type:text;not null;index:idx_project_status"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`

	Technologies []ProjectTechnology `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusPublished
	}
	return nil
}

// TechnologyNames returns the technologies in their stored order.
func (p *Project) TechnologyNames() []string {
	names := make([]string, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		names = append(names, t.Value)
	}
	return names
}

// SetTechnologies replaces the technology list, keeping the given order.
func (p *Project) SetTechnologies(values []string) {
	p.Technologies = make([]ProjectTechnology, 0, len(values))
	for i, v := range values {
		p.Technologies = append(p.Technologies, ProjectTechnology{ProjectID: p.ID, Value: v, Position: i})
	}
}

func (p Project) MarshalJSON() ([]byte, error) {
	type project Project
	return json.Marshal(struct {
		project
		Technologies []string `json:"technologies"`
	}{project(p), p.TechnologyNames()})
}

// ProjectTechnology is one entry of a project's ordered technology list
type ProjectTechnology struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index:idx_project_technology_project_id"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	Position  int       `json:"position" gorm:"not null;default:0"`
}

func (t *ProjectTechnology) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
