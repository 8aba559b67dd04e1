// Package dto defines the request and response shapes of the v1 API.
package dto

import (
	"time"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// ListQuery captures the common list query parameters.
type ListQuery struct {
	Search         string `form:"search"`
	Status         string `form:"status"`
	PartyID        string `form:"partyId"`
	DateFrom       string `form:"dateFrom"`
	DateTo         string `form:"dateTo"`
	OrderBy        string `form:"orderBy"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
	IncludeDeleted bool   `form:"includeDeleted"`
}

// ToFilter converts query parameters into a domain filter.
func (q ListQuery) ToFilter() (domain.ListFilter, error) {
	filter := domain.DefaultListFilter()

	filter.Search = q.Search
	filter.Status = q.Status
	filter.IncludeDeleted = q.IncludeDeleted

	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		if q.Limit > 500 {
			q.Limit = 500
		}
		filter.Limit = q.Limit
	}
	if q.Offset > 0 {
		filter.Offset = q.Offset
	}

	if q.PartyID != "" {
		partyID, err := id.Parse(q.PartyID)
		if err != nil {
			return filter, apperror.NewValidation("invalid partyId").WithDetail("partyId", q.PartyID)
		}
		filter.PartyID = &partyID
	}

	if q.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, q.DateFrom)
		if err != nil {
			return filter, apperror.NewValidation("dateFrom must be RFC3339")
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(time.RFC3339, q.DateTo)
		if err != nil {
			return filter, apperror.NewValidation("dateTo must be RFC3339")
		}
		filter.DateTo = &to
	}

	return filter, nil
}

// ListResponse is the envelope for paginated collections.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps a domain list result into the response envelope.
func NewListResponse[T any, R any](result domain.ListResult[T], mapFn func(T) R) ListResponse[R] {
	items := make([]R, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapFn(item))
	}
	return ListResponse[R]{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
}

// StatusUpdateRequest changes a document's workflow status.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}
