package api

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	identity  *services.Identity
}

func newAuthHandler(identity *services.Identity) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		identity:  identity,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required.Error("Email is required"), is.EmailFormat.Error("Please provide a valid email")),
		validation.Field(&req.Password, validation.Required.Error("Password is required")),
	)
	return errs.FromValidation("", err)
}

// login exchanges admin credentials for a session token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Failure 401 {object} Envelope "Invalid credentials"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.identity.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errs.IsInvalidCredentialsError(err) {
				h.logger.Warn().Str("address", clientAddress(r)).Msg("Failed login attempt")
			}
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(session))
	}
}

// me returns the signed-in admin
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Router /api/auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxGetUser(r.Context())
		if user == nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		h.responder.WriteJSON(w, ok(user))
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (req changePasswordRequest) validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.CurrentPassword, validation.Required.Error("Current password is required")),
		validation.Field(&req.NewPassword, validation.Required.Error("New password is required")),
	)
	return errs.FromValidation("", err)
}

func (h authHandler) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxGetUser(r.Context())
		if user == nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		var req changePasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.identity.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userId", user.ID.String()).Msg("Password changed")
		body := ok(map[string]string{"token": token})
		body.Message = "Password changed successfully"
		h.responder.WriteJSON(w, body)
	}
}
