package api

import (
	"encoding/json"
	"errors"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const maxJSONBody = 1 << 20

// plainText strips every tag from public input.
var plainText = bluemonday.StrictPolicy()

// sanitize removes markup and keeps the remaining text as the visitor typed it. The policy
// entity-encodes what it leaves, so the result is decoded before it is stored or measured.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

// decodeJSON reads a JSON body of at most maxJSONBody bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errs.NewMaxBodySizeExceededError(maxJSONBody)
		case errors.Is(err, io.EOF):
			return errs.NewMalformedPayloadError("JSON", err)
		default:
			return errs.FromDecode("", err)
		}
	}
	return nil
}

// urlID parses the named URL parameter as a record id.
func urlID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewNotFound("resource")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

// queryBool returns nil when the parameter is absent or not a boolean.
func queryBool(r *http.Request, name string) *bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &b
}

// completeI18n requires every language to carry non-blank text.
var completeI18n = validation.By(func(value any) error {
	var text models.I18n
	switch v := value.(type) {
	case models.I18n:
		text = v
	case *models.I18n:
		if v == nil {
			return nil
		}
		text = *v
	case models.LocalizedText:
		if !v.IsSet() {
			return nil
		}
		text = v.Normalize()
	default:
		return nil
	}
	if missing := text.Missing(); len(missing) > 0 {
		return errors.New("missing translation for " + strings.Join(missing, ", "))
	}
	return nil
})

// requiredLocalized fails when a LocalizedText was not supplied.
var requiredLocalized = validation.By(func(value any) error {
	if v, ok := value.(models.LocalizedText); ok && !v.IsSet() {
		return errors.New("cannot be blank")
	}
	return nil
})

// cleanList trims entries and drops blanks, keeping order.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
