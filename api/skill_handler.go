package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skillRepo *database.SkillRepo
}

func newSkillHandler(skillRepo *database.SkillRepo) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skillRepo: skillRepo,
	}
}

// skillRequest accepts the proficiency under either "level" or "proficiency"; level wins when both are sent.
type skillRequest struct {
	Name        models.LocalizedText `json:"name"`
	Icon        *string              `json:"icon"`
	Category    *string              `json:"category"`
	Level       *int                 `json:"level"`
	Proficiency *int                 `json:"proficiency"`
	Order       *int                 `json:"order"`
}

func (req *skillRequest) normalize() {
	if req.Level == nil {
		req.Level = req.Proficiency
	}
	if req.Category != nil {
		c := models.NormalizeSkillCategory(*req.Category)
		req.Category = &c
	}
}

func (req skillRequest) validate(create bool) error {
	categories := make([]any, len(models.SkillCategories))
	for i, c := range models.SkillCategories {
		categories[i] = c
	}

	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.When(create, requiredLocalized), completeI18n),
		validation.Field(&req.Category, validation.In(categories...).Error("is not a known category")),
		validation.Field(&req.Level, validation.Min(0), validation.Max(100)),
		validation.Field(&req.Order, validation.Min(0)),
	)
	return errs.FromValidation("", err)
}

func (req skillRequest) apply(s *models.Skill) {
	if req.Name.IsSet() {
		s.Name = datatypes.NewJSONType(req.Name.Normalize())
	}
	if req.Icon != nil {
		s.Icon = *req.Icon
	}
	if req.Category != nil {
		s.Category = *req.Category
	}
	if req.Level != nil {
		s.Level = *req.Level
	}
	if req.Order != nil {
		s.Order = *req.Order
	}
}

// getAllSkills lists skills and groups them by category
// @Summary List skills
// @Tags Skills
// @Param category query string false "Category"
// @Router /api/skills [get]
func (h skillHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category != "" {
			category = models.NormalizeSkillCategory(category)
		}

		skills, err := h.skillRepo.FindAll(r.Context(), category)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		grouped := make(map[string][]*models.Skill)
		for _, s := range skills {
			grouped[s.Category] = append(grouped[s.Category], s)
		}

		body := ok(skills).withCount(len(skills))
		body.Grouped = grouped
		h.responder.WriteJSON(w, body)
	}
}

func (h skillHandler) getSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("skill"))
			return
		}

		skill, err := h.skillRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(skill))
	}
}

func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req skillRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.normalize()
		if err := req.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill := &models.Skill{Category: models.SkillCategoryOther, Level: models.DefaultSkillLevel}
		req.apply(skill)

		if err := h.skillRepo.Add(r.Context(), skill); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, ok(skill))
	}
}

func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("skill"))
			return
		}

		var req skillRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.normalize()
		if err := req.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skillRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.apply(skill)

		if err := h.skillRepo.Update(r.Context(), skill); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(skill))
	}
}

func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("skill"))
			return
		}

		if err := h.skillRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, okMessage("Skill deleted successfully"))
	}
}
