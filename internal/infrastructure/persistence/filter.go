package persistence

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// searchFunc applies a repository-specific free-text search to a query
type searchFunc func(query *gorm.DB, search string) *gorm.DB

// applyFilter applies search, equality filters, pagination and ordering
func applyFilter(query *gorm.DB, filter shared.Filter, search searchFunc) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, search)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	}

	return query
}

// applyFilterWithoutPagination applies search and equality filters only.
// Filter keys come from application code, never from user input.
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, search searchFunc) *gorm.DB {
	if filter.Search != "" && search != nil {
		query = search(query, filter.Search)
	}

	for key, value := range filter.Filters {
		query = query.Where(key+" = ?", value)
	}

	return query
}
