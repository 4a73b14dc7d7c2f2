package api

import (
	"github.com/rpupo63/portfolio-backend/errs"
)

// Envelope is the body of every response.
type Envelope struct {
	Success      bool              `json:"success"`
	Data         any               `json:"data,omitempty"`
	Message      string            `json:"message,omitempty"`
	Count        *int              `json:"count,omitempty"`
	Total        *int64            `json:"total,omitempty"`
	Pagination   *Pagination       `json:"pagination,omitempty"`
	UnreadCount  *int64            `json:"unreadCount,omitempty"`
	Grouped      any               `json:"grouped,omitempty"`
	RelativePath string            `json:"relativePath,omitempty"`
	Errors       []errs.FieldError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func ok(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func okMessage(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

func fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// withCount sets count to the length of the listed data.
func (e Envelope) withCount(n int) Envelope {
	e.Count = &n
	return e
}
