package utils

import "math"

// MaxOffset bounds how many rows a page may skip.
const MaxOffset = math.MaxInt32

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// CalculateOffset returns the rows to skip for page, never more than MaxOffset.
func CalculateOffset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > MaxOffset/perPage {
		return MaxOffset
	}
	return (page - 1) * perPage
}

// ClampLimit returns def when limit is unset and caps it at max.
func ClampLimit(limit, def, max int) int {
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
