package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	images      services.ImageStore
}

func newProjectHandler(projectRepo *database.ProjectRepo, images services.ImageStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		images:      images,
	}
}

type projectRequest struct {
	Title        *models.I18n `json:"title"`
	Description  *models.I18n `json:"description"`
	Image        *string      `json:"image"`
	Technologies []string     `json:"technologies"`
	LiveURL      *string      `json:"liveUrl"`
	GithubURL    *string      `json:"githubUrl"`
	Featured     *bool        `json:"featured"`
	Order        *int         `json:"order"`
	Status       *string      `json:"status"`
}

func (req projectRequest) validate(create bool) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.When(create, validation.NotNil), completeI18n),
		validation.Field(&req.Description, validation.When(create, validation.NotNil), completeI18n),
		validation.Field(&req.LiveURL, is.URL),
		validation.Field(&req.GithubURL, is.URL),
		validation.Field(&req.Order, validation.Min(0)),
		validation.Field(&req.Status, validation.In(models.StatusDraft, models.StatusPublished).Error("must be draft or published")),
	)
	return errs.FromValidation("", err)
}

func (req projectRequest) apply(p *models.Project) {
	if req.Title != nil {
		p.Title = datatypes.NewJSONType(req.Title.Trimmed())
	}
	if req.Description != nil {
		p.Description = datatypes.NewJSONType(req.Description.Trimmed())
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Technologies != nil {
		p.SetTechnologies(cleanList(req.Technologies))
	}
	if req.LiveURL != nil {
		p.LiveURL = *req.LiveURL
	}
	if req.GithubURL != nil {
		p.GithubURL = *req.GithubURL
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Order != nil {
		p.Order = *req.Order
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
}

// getAllProjects lists projects by display order
// @Summary List projects
// @Tags Projects
// @Param status query string false "draft or published"
// @Param featured query bool false "Only featured projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.ProjectFilter{Status: r.URL.Query().Get("status")}
		if featured := queryBool(r, "featured"); featured != nil && *featured {
			filter.FeaturedOnly = true
		}

		projects, err := h.projectRepo.FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(projects).withCount(len(projects)))
	}
}

// getProject returns a single project
// @Summary Get project
// @Tags Projects
// @Param id path string true "Project ID" format(uuid)
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(project))
	}
}

// createProject creates a new project, published unless a status is given
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := &models.Project{Status: models.StatusPublished}
		req.apply(project)

		if err := h.projectRepo.Add(r.Context(), project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectId", project.ID.String()).Msg("Project created")
		h.responder.WriteCreated(w, ok(project))
	}
}

// updateProject applies the supplied fields
// @Summary Update project
// @Tags Projects
// @Param id path string true "Project ID" format(uuid)
// @Router /api/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		var req projectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		oldImage := project.Image
		req.apply(project)

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if oldImage != project.Image {
			services.RemoveImage(r.Context(), h.images, oldImage)
		}
		h.responder.WriteJSON(w, ok(project))
	}
}

// deleteProject removes a project and its image
// @Summary Delete project
// @Tags Projects
// @Param id path string true "Project ID" format(uuid)
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.projectRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		services.RemoveImage(r.Context(), h.images, project.Image)

		h.responder.WriteJSON(w, okMessage("Project deleted successfully"))
	}
}

type reorderRequest struct {
	Orders []struct {
		ID    uuid.UUID `json:"id"`
		Order int       `json:"order"`
	} `json:"orders"`
}

// reorderProjects sets the display order of several projects at once
// @Summary Reorder projects
// @Tags Projects
// @Router /api/projects/reorder [put]
func (h projectHandler) reorderProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(req.Orders) == 0 {
			h.responder.WriteError(w, errs.NewValidationError(map[string]string{"orders": "cannot be blank"}))
			return
		}

		orders := make([]database.ProjectOrder, 0, len(req.Orders))
		for _, o := range req.Orders {
			orders = append(orders, database.ProjectOrder{ID: o.ID, Order: o.Order})
		}
		if err := h.projectRepo.Reorder(r.Context(), orders); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, okMessage("Projects reordered successfully"))
	}
}
