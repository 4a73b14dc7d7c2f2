package api

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder  Responder
	logger     zerolog.Logger
	moderation *services.Moderation
}

func newCommentHandler(db database.Database) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		moderation: services.NewModeration(db),
	}
}

type commentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Content string `json:"content"`
}

func (req *commentRequest) normalize() {
	req.Name = sanitize(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Content = sanitize(req.Content)
}

func (req commentRequest) validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required.Error("Name is required"), validation.RuneLength(0, 50).Error("Name cannot exceed 50 characters")),
		validation.Field(&req.Email, is.EmailFormat),
		validation.Field(&req.Content, validation.Required.Error("Comment content is required"), validation.RuneLength(0, 1000).Error("Comment cannot exceed 1000 characters")),
	)
	return errs.FromValidation("", err)
}

func (h commentHandler) getComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		comments, err := h.moderation.Approved(r.Context(), articleID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(comments).withCount(len(comments)))
	}
}

func (h commentHandler) getAllComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		comments, err := h.moderation.All(r.Context(), articleID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(comments).withCount(len(comments)))
	}
}

// createComment stores a comment for moderation
// @Summary Submit comment
// @Tags Comments
// @Param id path string true "Article ID" format(uuid)
// @Failure 403 {object} Envelope "Comments are disabled for this article"
// @Router /api/articles/{id}/comments [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		var req commentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.normalize()
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.moderation.Submit(r.Context(), articleID, req.Name, req.Email, req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := ok(comment)
		body.Message = "Comment submitted for review"
		h.responder.WriteCreated(w, body)
	}
}

func (h commentHandler) toggleApproval() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("comment"))
			return
		}

		comment, err := h.moderation.ToggleApproval(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(comment))
	}
}

func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("comment"))
			return
		}

		if err := h.moderation.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, okMessage("Comment deleted successfully"))
	}
}
