package dto

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PaginationQuery carries the listing controls from the query string.
type PaginationQuery struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Search    string `json:"search"`
}

// ParsePaginationQuery reads page/limit/sort_by/sort_order/search from query
// values, clamping page and limit to sane bounds.
func ParsePaginationQuery(values url.Values) PaginationQuery {
	query := PaginationQuery{
		Page:      defaultPage,
		Limit:     defaultLimit,
		SortBy:    values.Get("sort_by"),
		SortOrder: strings.ToUpper(values.Get("sort_order")),
		Search:    values.Get("search"),
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		query.Page = page
	}

	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		if limit > maxLimit {
			limit = maxLimit
		}
		query.Limit = limit
	}

	if query.SortOrder != "ASC" && query.SortOrder != "DESC" {
		query.SortOrder = ""
	}

	return query
}
