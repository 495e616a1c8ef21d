package httputil

import (
	"net/http"
	"strconv"
)

// DefaultPageLimit is the page size applied when the client sends none.
const DefaultPageLimit = 10

// Page holds the parsed pagination parameters of a list request.
type Page struct {
	Number int // 1-based
	Limit  int
}

// Offset returns the skip count for the data-store query.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// ParsePage reads page/limit query parameters. Non-numeric or non-positive
// values fall back to defaults rather than propagating into the store call.
func ParsePage(r *http.Request, defaultLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}

	page := Page{Number: 1, Limit: defaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Number = n
		}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Limit = n
		}
	}

	return page
}

// Envelope is the canonical list response shape.
type Envelope struct {
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
	Data       interface{} `json:"data"`
}

// NewEnvelope builds the pagination envelope. The limit guard keeps a
// zero limit from turning into a division error.
func NewEnvelope(page Page, total int, data interface{}) Envelope {
	limit := page.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	totalPages := (total + limit - 1) / limit

	return Envelope{
		Total:      total,
		Page:       page.Number,
		Limit:      limit,
		TotalPages: totalPages,
		Data:       data,
	}
}
