package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		database:    db,
		startupTime: startupTime,
	}
}

type healthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// getHealth reports liveness and whether the database answers a ping
// @Summary Health check
// @Tags Operations
// @Success 200 {object} Envelope
// @Failure 503 {object} Envelope
// @Router /api/health [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := healthStatus{
			Status:    "ok",
			Database:  "connected",
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
			Timestamp: time.Now().UTC(),
		}

		if err := h.database.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			status.Status = "degraded"
			status.Database = "timeout"
			if errs.IsServiceUnavailableError(err) {
				status.Database = "disconnected"
			}
			body := fail("API is running but the database is unavailable")
			body.Data = status
			h.responder.WriteStatus(w, http.StatusServiceUnavailable, body)
			return
		}

		body := ok(status)
		body.Message = "API is running"
		h.responder.WriteJSON(w, body)
	}
}
