package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination holds pagination metadata for list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Page size bounds for run listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions pages and filters archived run listings.
type ListOptions struct {
	Limit     int
	Offset    int
	Algorithm Algorithm // empty matches every algorithm
}

func DefaultListOptions() ListOptions {
	return ListOptions{Limit: DefaultPageSize}
}

// Clamp pulls Limit into [1, MaxPageSize] and Offset to at least zero.
func (o *ListOptions) Clamp() {
	switch {
	case o.Limit <= 0:
		o.Limit = DefaultPageSize
	case o.Limit > MaxPageSize:
		o.Limit = MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// HasMore reports whether rows remain past the current page.
func (o ListOptions) HasMore(total int) bool {
	return o.Offset+o.Limit < total
}
