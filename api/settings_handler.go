package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type settingsHandler struct {
	responder Responder
	logger    zerolog.Logger
	merger    *services.SettingsMerger
}

func newSettingsHandler(db database.Database) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()

	return settingsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		merger:    services.NewSettingsMerger(db),
	}
}

// getSettings returns the site settings, creating the defaults on first use
// @Summary Get settings
// @Tags Settings
// @Router /api/settings [get]
func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.merger.GetOrCreate(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(settings))
	}
}

// replaceSettings overwrites every top-level key present in the body
// @Summary Replace settings
// @Tags Settings
// @Router /api/settings [put]
func (h settingsHandler) replaceSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var values map[string]json.RawMessage
		if err := decodeJSON(w, r, &values); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		settings, err := h.merger.ReplaceAll(r.Context(), values)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := ok(settings)
		body.Message = "Settings updated successfully"
		h.responder.WriteJSON(w, body)
	}
}

// patchSection deep merges the body into one section
// @Summary Update settings section
// @Tags Settings
// @Param section path string true "hero, about, sectionTitles, contact, social, theme or footer"
// @Failure 400 {object} Envelope "Invalid section"
// @Router /api/settings/{section} [patch]
func (h settingsHandler) patchSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section := chi.URLParam(r, "section")

		var partial json.RawMessage
		if err := decodeJSON(w, r, &partial); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		settings, err := h.merger.PatchSection(r.Context(), section, partial)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("section", section).Msg("Settings section updated")
		body := ok(settings)
		body.Message = section + " updated successfully"
		h.responder.WriteJSON(w, body)
	}
}
