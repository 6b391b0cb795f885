// Package paging normalizes 1-based page requests.
package paging

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps page and pageSize and returns the row offset to read from.
func Normalize(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}
