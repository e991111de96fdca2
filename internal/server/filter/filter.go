// Package filter turns HTTP query parameters into catalog queries.
package filter

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
	"github.com/agentstation/toolhub/pkg/query"
)

// facetParams maps query parameter names to facets.
var facetParams = map[string]query.Facet{
	"category": query.FacetCategory,
	"pricing":  query.FacetPricing,
	"platform": query.FacetPlatform,
	"use_case": query.FacetUseCase,
}

// ParseRequest extracts a query request from r.
//
// Supported parameters: q, category, pricing, platform and use_case (comma
// lists), free, sort, limit, offset, cursor and paging.
func ParseRequest(r *http.Request) (query.Request, error) {
	return Parse(r.URL.Query())
}

// Parse extracts a query request from already parsed values.
func Parse(q url.Values) (query.Request, error) {
	req := query.Request{
		SearchTerm: strings.TrimSpace(q.Get("q")),
		Cursor:     q.Get("cursor"),
	}

	for param, facet := range facetParams {
		values := splitList(q[param])
		if len(values) == 0 {
			continue
		}
		if facet == query.FacetPricing {
			for i, v := range values {
				if p, ok := catalog.ParsePricingModel(v); ok {
					values[i] = string(p)
				}
			}
		}
		if req.Filters == nil {
			req.Filters = make(query.Filters)
		}
		req.Filters[facet] = values
	}

	if v := q.Get("free"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return query.Request{}, &errors.ValidationError{Field: "free", Value: v, Message: "must be a boolean"}
		}
		req.FreeOnly = b
	}

	if v := q.Get("sort"); v != "" {
		key, ok := query.ParseSortKey(v)
		if !ok {
			return query.Request{}, &errors.ValidationError{Field: "sort", Value: v, Message: "must be newest, popularity or name"}
		}
		req.Sort = key
	}

	limit, err := parseNonNegative(q, "limit")
	if err != nil {
		return query.Request{}, err
	}
	req.PageSize = min(limit, constants.MaxPageSize)

	if req.Offset, err = parseNonNegative(q, "offset"); err != nil {
		return query.Request{}, err
	}

	switch v := strings.ToLower(q.Get("paging")); v {
	case "":
		if req.Cursor != "" {
			req.Paging = query.PagingCursor
		}
	case string(query.PagingOffset), string(query.PagingCursor):
		req.Paging = query.Paging(v)
	default:
		return query.Request{}, &errors.ValidationError{Field: "paging", Value: v, Message: "must be offset or cursor"}
	}

	return req, nil
}

// splitList flattens repeated and comma-separated values, dropping blanks.
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseNonNegative(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &errors.ValidationError{Field: key, Value: v, Message: "must be a non-negative integer"}
	}
	return n, nil
}
