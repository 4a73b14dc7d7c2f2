package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ExperienceTypeWork      = "work"
	ExperienceTypeEducation = "education"
	ExperienceTypeFreelance = "freelance"
	ExperienceTypeOther     = "other"
)

var ExperienceTypes = []string{
	ExperienceTypeWork,
	ExperienceTypeEducation,
	ExperienceTypeFreelance,
	ExperienceTypeOther,
}

const dateRangeLayout = "Jan 2006"

// Experience is a work, education or freelance entry. Role is stored once and exposed under
// both "role" and "title".
type Experience struct {
	ID          uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Role        datatypes.JSONType[I18n] `json:"role" gorm:"not null"`
	Company     datatypes.JSONType[I18n] `json:"company" gorm:"not null"`
	Description datatypes.JSONType[I18n] `json:"description" gorm:"not null"`
	Type        string                   `json:"type" gorm:"type:text;not null;index:idx_experience_type"`
	Location    string                   `json:"location" gorm:"type:text;not null;default:''"`
	StartDate   time.Time                `json:"startDate" gorm:"not null;index:idx_experience_start_date,sort:desc"`
	EndDate     *time.Time               `json:"endDate"`
	Current     bool                     `json:"current" gorm:"not null;default:false"`
	Order       int                      `json:"order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

func (e *Experience) BeforeSave(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Type == "" {
		e.Type = ExperienceTypeWork
	}
	if e.Current {
		e.EndDate = nil
	}
	return nil
}

// DateRange formats the period as "Jan 2021 - Present".
func (e *Experience) DateRange() string {
	start := ""
	if !e.StartDate.IsZero() {
		start = e.StartDate.Format(dateRangeLayout)
	}
	end := ""
	switch {
	case e.Current:
		end = "Present"
	case e.EndDate != nil:
		end = e.EndDate.Format(dateRangeLayout)
	}
	return start + " - " + end
}

func (e Experience) MarshalJSON() ([]byte, error) {
	type experience Experience
	return json.Marshal(struct {
		experience
		Title     I18n   `json:"title"`
		DateRange string `json:"dateRange"`
	}{experience(e), e.Role.Data(), e.DateRange()})
}
