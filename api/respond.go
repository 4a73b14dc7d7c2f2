package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

const (
	maxResponseSize      = 10 * 1024 * 1024
	genericServerMessage = "Server Error"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes a 200 response.
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteStatus(w, http.StatusOK, data)
}

// WriteCreated writes a 201 response.
func (r Responder) WriteCreated(w http.ResponseWriter, data any) {
	r.WriteStatus(w, http.StatusCreated, data)
}

func (r Responder) WriteStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(fail(genericServerMessage))
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(fail("Response too large"))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError writes the failure envelope for err. Server faults are logged in full and reach the
// client as a generic message.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteStatus(w, http.StatusInternalServerError, fail(genericServerMessage))
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("server error")
		r.WriteStatus(w, apiErr.StatusCode, fail(genericServerMessage))
		return
	}

	if retry, ok := strings.CutPrefix(apiErr.Field, "retry_after="); ok {
		if _, convErr := strconv.Atoi(retry); convErr == nil {
			w.Header().Set("Retry-After", retry)
		}
	}

	body := fail(apiErr.Message())
	if len(apiErr.Fields) > 0 {
		body.Errors = apiErr.Fields
	}
	r.WriteStatus(w, apiErr.StatusCode, body)
}
