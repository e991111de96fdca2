package filter

import (
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agentstation/toolhub/pkg/errors"
	"github.com/agentstation/toolhub/pkg/query"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected query.Request
	}{
		{
			name:     "empty query",
			query:    "",
			expected: query.Request{},
		},
		{
			name:  "search and sort",
			query: "q=+chat+&sort=Popularity",
			expected: query.Request{
				SearchTerm: "chat",
				Sort:       query.SortPopularity,
			},
		},
		{
			name:  "facet lists",
			query: "category=Writing,Coding&category=Design&platform=Web&use_case=Research",
			expected: query.Request{
				Filters: query.Filters{
					query.FacetCategory: {"Writing", "Coding", "Design"},
					query.FacetPlatform: {"Web"},
					query.FacetUseCase:  {"Research"},
				},
			},
		},
		{
			name:  "pricing is canonicalized",
			query: "pricing=freemium,paid,bogus",
			expected: query.Request{
				Filters: query.Filters{
					query.FacetPricing: {"FREE_PAID", "PAID", "bogus"},
				},
			},
		},
		{
			name:     "blank list entries dropped",
			query:    "category=,+,",
			expected: query.Request{},
		},
		{
			name:  "offset paging",
			query: "free=true&limit=10&offset=30",
			expected: query.Request{
				FreeOnly: true,
				PageSize: 10,
				Offset:   30,
			},
		},
		{
			name:  "limit capped",
			query: "limit=5000",
			expected: query.Request{
				PageSize: 200,
			},
		},
		{
			name:  "cursor implies cursor paging",
			query: "cursor=abc",
			expected: query.Request{
				Cursor: "abc",
				Paging: query.PagingCursor,
			},
		},
		{
			name:  "explicit paging",
			query: "paging=OFFSET&cursor=abc",
			expected: query.Request{
				Cursor: "abc",
				Paging: query.PagingOffset,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/tools?"+tt.query, nil)
			got, err := ParseRequest(req)
			if err != nil {
				t.Fatalf("ParseRequest() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ParseRequest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRequestInvalid(t *testing.T) {
	for _, q := range []string{
		"free=maybe",
		"sort=rating",
		"limit=-1",
		"limit=ten",
		"offset=x",
		"paging=pages",
	} {
		req := httptest.NewRequest("GET", "/api/v1/tools?"+q, nil)
		_, err := ParseRequest(req)
		if err == nil {
			t.Errorf("%s: expected error", q)
			continue
		}
		if !errors.IsValidationError(err) {
			t.Errorf("%s: expected validation error, got %T", q, err)
		}
	}
}
