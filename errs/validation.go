package errs

import (
	"encoding/json"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation converts ozzo-validation errors into a ValidationFailed ApiErr with one entry
// per violated field. Nested field errors are flattened to dotted paths ("title.en").
// Errors that are not validation errors are returned unchanged.
func FromValidation(prefix string, err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var single validation.Error
		if errors.As(err, &single) && prefix != "" {
			return NewValidationError(map[string]string{prefix: single.Error()})
		}
		return err
	}

	fields := make(map[string]string)
	flatten(prefix, verrs, fields)
	return NewValidationError(fields)
}

func flatten(prefix string, verrs validation.Errors, out map[string]string) {
	for key, err := range verrs {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(path, nested, out)
			continue
		}
		out[path] = err.Error()
	}
}

// FromDecode turns a JSON type mismatch into a ValidationFailed ApiErr naming the field.
// Other decode failures become a malformed payload error.
func FromDecode(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if prefix != "" {
			field = strings.TrimSuffix(prefix+"."+field, ".")
		}
		if field == "" {
			field = "body"
		}
		return NewValidationError(map[string]string{field: "must be of type " + typeErr.Type.String()})
	}
	return NewInvalidJSONError(err)
}
