package api

import (
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type messageHandler struct {
	responder   Responder
	logger      zerolog.Logger
	messageRepo *database.MessageRepo
	inbox       *services.Inbox
}

func newMessageHandler(db database.Database, dispatcher *services.Dispatcher) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		messageRepo: db.MessageRepo(),
		inbox:       services.NewInbox(db, dispatcher),
	}
}

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (req *messageRequest) normalize() {
	req.Name = sanitize(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Subject = sanitize(req.Subject)
	req.Message = sanitize(req.Message)
}

func (req messageRequest) validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required.Error("Name is required"), validation.RuneLength(0, 100).Error("Name cannot exceed 100 characters")),
		validation.Field(&req.Email, validation.Required.Error("Email is required"), is.EmailFormat.Error("Please provide a valid email")),
		validation.Field(&req.Subject, validation.RuneLength(0, 200).Error("Subject cannot exceed 200 characters")),
		validation.Field(&req.Message, validation.Required.Error("Message is required"), validation.RuneLength(0, 5000).Error("Message cannot exceed 5000 characters")),
	)
	return errs.FromValidation("", err)
}

// createMessage stores a contact form submission and notifies the site owner
// @Summary Send contact message
// @Tags Messages
// @Accept json
// @Produce json
// @Failure 429 {object} Envelope "Too many messages"
// @Router /api/messages [post]
func (h messageHandler) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.normalize()
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg := &models.Message{
			Name:      req.Name,
			Email:     req.Email,
			Subject:   req.Subject,
			Message:   req.Message,
			IPAddress: clientAddress(r),
		}
		if err := h.inbox.Submit(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := okMessage("Message sent successfully! I will get back to you soon.")
		body.Data = map[string]any{"id": msg.ID}
		h.responder.WriteCreated(w, body)
	}
}

// getAllMessages lists messages newest first with the unread total
// @Summary List messages
// @Tags Messages
// @Param read query bool false "Filter by read flag"
// @Router /api/messages [get]
func (h messageHandler) getAllMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			messages []*models.Message
			unread   int64
		)

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			messages, err = h.messageRepo.FindAll(ctx, queryBool(r, "read"))
			return err
		})
		g.Go(func() error {
			var err error
			unread, err = h.messageRepo.CountUnread(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := ok(messages).withCount(len(messages))
		body.UnreadCount = &unread
		h.responder.WriteJSON(w, body)
	}
}

func (h messageHandler) getMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("message"))
			return
		}

		msg, err := h.messageRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(msg))
	}
}

func (h messageHandler) markRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("message"))
			return
		}

		msg, err := h.messageRepo.MarkRead(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(msg))
	}
}

func (h messageHandler) markReplied() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("message"))
			return
		}

		msg, err := h.messageRepo.MarkReplied(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(msg))
	}
}

func (h messageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("message"))
			return
		}

		if err := h.messageRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, okMessage("Message deleted successfully"))
	}
}

func (h messageHandler) deleteReadMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.messageRepo.DeleteRead(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("deleted", n).Msg("Read messages deleted")
		h.responder.WriteJSON(w, okMessage(fmt.Sprintf("%d read messages deleted", n)))
	}
}
