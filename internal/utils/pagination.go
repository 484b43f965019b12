package util

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 15
	MaxPerPage     = 100
)

type Params struct {
	Page    int
	PerPage int
}

// ParsePagination reads page and per_page, clamping per_page to [1, MaxPerPage].
func ParsePagination(r *http.Request) Params {
	q := r.URL.Query()

	page := atoiDefault(q.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := atoiDefault(strings.TrimSpace(q.Get("per_page")), DefaultPerPage)
	if per < 1 {
		per = DefaultPerPage
	}
	if per > MaxPerPage {
		per = MaxPerPage
	}

	return Params{Page: page, PerPage: per}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func BuildMeta(total int64, p Params) Meta {
	lastPage := 1
	if total > 0 {
		lastPage = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	return Meta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    lastPage,
		HasPrev:     p.Page > 1,
		HasNext:     p.Page < lastPage,
	}
}
