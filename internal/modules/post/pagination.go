package post

import (
	"math"
	"strconv"
	"strings"
)

const DefaultPostsPerPage = 10

// PageRequest is a validated page window plus an optional search term.
type PageRequest struct {
	Page   int64
	Limit  int64
	Search string
}

// NewPageRequest parses the raw query values. A non-numeric or < 1 value in
// either page or limit resets both to the defaults.
func NewPageRequest(pageRaw, limitRaw, search string, perPage int) PageRequest {
	if perPage < 1 {
		perPage = DefaultPostsPerPage
	}
	def := PageRequest{Page: 1, Limit: int64(perPage), Search: strings.TrimSpace(search)}

	page, okPage := parsePositive(pageRaw, 1)
	limit, okLimit := parsePositive(limitRaw, int64(perPage))
	if !okPage || !okLimit || page-1 > math.MaxInt64/limit {
		return def
	}
	def.Page, def.Limit = page, limit
	return def
}

func parsePositive(raw string, fallback int64) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (p PageRequest) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int64) int64 {
	if limit < 1 || total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
