package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// dateValue records whether a date was present in the body, so an explicit null can clear it.
type dateValue struct {
	Set   bool
	Value *time.Time
}

// dateFormatError is reported as a type mismatch so the decoder names the offending field.
func dateFormatError() error {
	return &json.UnmarshalTypeError{Value: "date", Type: reflect.TypeOf(time.Time{})}
}

func (d *dateValue) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return dateFormatError()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			d.Value = &t
			return nil
		}
	}
	return dateFormatError()
}

type experienceHandler struct {
	responder      Responder
	logger         zerolog.Logger
	experienceRepo *database.ExperienceRepo
}

func newExperienceHandler(experienceRepo *database.ExperienceRepo) experienceHandler {
	logger := log.With().Str("handlerName", "experienceHandler").Logger()

	return experienceHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		experienceRepo: experienceRepo,
	}
}

type experienceRequest struct {
	Title       *models.I18n         `json:"title"`
	Role        *models.I18n         `json:"role"`
	Company     models.LocalizedText `json:"company"`
	Description *models.I18n         `json:"description"`
	Type        *string              `json:"type"`
	Location    *string              `json:"location"`
	StartDate   dateValue            `json:"startDate"`
	EndDate     dateValue            `json:"endDate"`
	Current     *bool                `json:"current"`
	Order       *int                 `json:"order"`
}

// normalize folds title into role, the stored name.
func (req *experienceRequest) normalize() {
	if req.Role == nil {
		req.Role = req.Title
	}
}

func (req experienceRequest) validate(create bool) error {
	kinds := make([]any, len(models.ExperienceTypes))
	for i, k := range models.ExperienceTypes {
		kinds[i] = k
	}

	startDate := validation.By(func(any) error {
		if req.StartDate.Set && req.StartDate.Value == nil {
			return errors.New("cannot be blank")
		}
		if create && !req.StartDate.Set {
			return errors.New("cannot be blank")
		}
		return nil
	})

	err := validation.ValidateStruct(&req,
		validation.Field(&req.Role, validation.When(create, validation.NotNil.Error("title or role is required")), completeI18n),
		validation.Field(&req.Company, validation.When(create, requiredLocalized), completeI18n),
		validation.Field(&req.Type, validation.In(kinds...).Error("must be work, education, freelance or other")),
		validation.Field(&req.StartDate, startDate),
		validation.Field(&req.Order, validation.Min(0)),
	)
	return errs.FromValidation("", err)
}

func (req experienceRequest) apply(e *models.Experience) {
	if req.Role != nil {
		e.Role = datatypes.NewJSONType(req.Role.Trimmed())
	}
	if req.Company.IsSet() {
		e.Company = datatypes.NewJSONType(req.Company.Normalize())
	}
	if req.Description != nil {
		e.Description = datatypes.NewJSONType(req.Description.Trimmed())
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.StartDate.Value != nil {
		e.StartDate = *req.StartDate.Value
	}
	if req.EndDate.Set {
		e.EndDate = req.EndDate.Value
	}
	if req.Current != nil {
		e.Current = *req.Current
	}
	if req.Order != nil {
		e.Order = *req.Order
	}
	if e.Current {
		e.EndDate = nil
	}
}

// getAllExperiences lists entries by start date, most recent first
// @Summary List experiences
// @Tags Experiences
// @Param type query string false "work, education, freelance or other"
// @Router /api/experiences [get]
func (h experienceHandler) getAllExperiences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		experiences, err := h.experienceRepo.FindAll(r.Context(), r.URL.Query().Get("type"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(experiences).withCount(len(experiences)))
	}
}

func (h experienceHandler) getExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("experience"))
			return
		}

		experience, err := h.experienceRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(experience))
	}
}

func (h experienceHandler) createExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req experienceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.normalize()
		if err := req.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		experience := &models.Experience{
			Type:        models.ExperienceTypeWork,
			Description: datatypes.NewJSONType(models.I18n{}),
		}
		req.apply(experience)

		if err := h.experienceRepo.Add(r.Context(), experience); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, ok(experience))
	}
}

func (h experienceHandler) updateExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("experience"))
			return
		}

		var req experienceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.normalize()
		if err := req.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		experience, err := h.experienceRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.apply(experience)

		if err := h.experienceRepo.Update(r.Context(), experience); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(experience))
	}
}

func (h experienceHandler) deleteExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("experience"))
			return
		}

		if err := h.experienceRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, okMessage("Experience deleted successfully"))
	}
}
