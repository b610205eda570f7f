package models

import "time"

// APIResponse is the uniform response envelope for every endpoint.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ListMeta is the pagination metadata attached to every list payload.
// Pages are 1-indexed; out-of-range pages yield empty data, never errors.
type ListMeta struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalCount  int `json:"total_count"`
}

// NewListMeta builds pagination metadata consistently.
// TotalPages is computed from the pre-pagination filter count so page
// math stays accurate regardless of what enrichment runs afterward.
func NewListMeta(totalCount, page, pageSize int) ListMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return ListMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
	}
}

// Page holds normalized pagination input shared by every list endpoint.
type Page struct {
	Number int
	Size   int
}

// NormalizePage clamps pagination input to sane bounds.
func NormalizePage(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return Page{Number: page, Size: size}
}

// Offset converts the 1-indexed page into a storage offset.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
