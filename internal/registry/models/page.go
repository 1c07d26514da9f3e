package models

import (
	e "github.com/gartstein/k9registry/internal/registry/errors"
)

const (
	DefaultPageNo   = 0
	DefaultPageSize = 10
)

// PageRequest is a zero-indexed page number plus a page size.
type PageRequest struct {
	PageNo   int
	PageSize int
}

// Validate rejects negative page numbers and non-positive sizes.
func (p PageRequest) Validate() error {
	v := e.NewValidationError("Validation failed")
	if p.PageNo < 0 {
		v.Add("pageNo", "Page number must not be negative")
	}
	if p.PageSize < 1 {
		v.Add("pageSize", "Page size must be at least 1")
	}
	return v.OrNil()
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.PageNo * p.PageSize
}

// PageMetadata describes where a page sits in the full result set.
type PageMetadata struct {
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
}

// Page is one slice of a paginated result.
type Page[T any] struct {
	Content  []T
	Metadata PageMetadata
}

// NewPage builds a page and its metadata from the total element count.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &Page[T]{
		Content: content,
		Metadata: PageMetadata{
			Page:          req.PageNo,
			Size:          req.PageSize,
			TotalElements: total,
			TotalPages:    totalPages,
			First:         req.PageNo == 0,
			Last:          req.PageNo+1 >= totalPages,
		},
	}
}
