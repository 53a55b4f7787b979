package handler

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset from the query string. Missing or
// out of range values fall back to the defaults.
func ParsePagination(r *http.Request) PaginationParams {
	q := r.URL.Query()
	return PaginationParams{
		Limit:  clampInt(q.Get("limit"), DefaultLimit, 1, MaxLimit),
		Offset: clampInt(q.Get("offset"), 0, 0, -1),
	}
}

// clampInt parses raw, returning def when it is not a number or falls
// outside [min, max]. A negative max means unbounded.
func clampInt(raw string, def, min, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || (max >= 0 && n > max) {
		return def
	}
	return n
}
