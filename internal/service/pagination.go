// Package service sits between the HTTP handlers and the
// repositories. It owns pagination, response shaping and the
// best-effort activity event publishing; tenant scoping itself
// lives one layer down in the repositories.
package service

import (
	"context"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/queue"
)

// Page size bounds applied to every list endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// publisher is the slice of queue.Publisher the services need.
// Declared here so tests can substitute a recorder.
type publisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// clampPage normalizes user-supplied page/limit values.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// paginate slices the fully materialized owned set. The store has
// no LIMIT/OFFSET at this layer; owned sets are small enough that
// slicing in memory is acceptable.
func paginate[T any](items []T, page, limit int) ([]T, *model.Pagination) {
	page, limit = clampPage(page, limit)
	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], &model.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
