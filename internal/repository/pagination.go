package repository

import "gorm.io/gorm"

// applyPagination clamps the page number and applies limit/offset. A
// non-positive page size leaves the query unpaginated.
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
