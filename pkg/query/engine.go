package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
)

// Engine runs queries against snapshots. It holds only its configuration,
// so one Engine may serve any number of goroutines.
type Engine struct {
	cfg Config
}

// New creates an engine. Zero config fields take their defaults.
func New(cfg Config) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = constants.DefaultPageSize
	}
	if _, ok := ParseSortKey(string(cfg.DefaultSort)); !ok {
		cfg.DefaultSort = SortNewest
	}
	if len(cfg.SearchFields) == 0 {
		cfg.SearchFields = DefaultConfig().SearchFields
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Search filters, sorts and paginates the snapshot. It runs the search
// term first, then the facets, then a stable sort, then pagination, so
// TotalMatched always reflects every filter and ignores the window.
//
// Result items are shallow copies: their slice fields share backing
// arrays with the snapshot.
func (e *Engine) Search(snapshot []catalog.Item, req Request) Result {
	// cases.Caser is not safe for concurrent use; make one per call.
	lower := cases.Lower(language.Und)

	term := lower.String(strings.TrimSpace(req.SearchTerm))
	matched := make([]catalog.Item, 0, len(snapshot))
	facets := compileFilters(req.Filters)
	for _, item := range snapshot {
		if term != "" && !e.matchesTerm(item, term, lower) {
			continue
		}
		if !facets.matches(item) {
			continue
		}
		if req.FreeOnly && !item.IsFree() {
			continue
		}
		matched = append(matched, item)
	}

	key := e.sortKey(req.Sort)
	sortItems(matched, key, lower)

	res := Result{Items: matched, TotalMatched: len(matched)}
	if term != "" && !e.cfg.PaginateSearch {
		return res
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = e.cfg.PageSize
	}

	if req.Paging == PagingCursor {
		return e.cursorWindow(res, key, pageSize, req.Cursor, lower)
	}
	return e.offsetWindow(res, key, pageSize, req)
}

func (e *Engine) sortKey(requested SortKey) SortKey {
	if key, ok := ParseSortKey(string(requested)); ok {
		return key
	}
	return e.cfg.DefaultSort
}

func (e *Engine) matchesTerm(item catalog.Item, term string, lower cases.Caser) bool {
	for _, field := range e.cfg.SearchFields {
		for _, v := range item.Values(field) {
			if strings.Contains(lower.String(v), term) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) offsetWindow(res Result, key SortKey, pageSize int, req Request) Result {
	offset := req.Offset
	if req.Cursor != "" {
		offset = 0
		if c, ok := decodeCursor(req.Cursor); ok && c.Mode == PagingOffset && c.Sort == key {
			offset = c.Offset
		}
	}
	offset = max(offset, 0)

	total := len(res.Items)
	start := min(offset, total)
	end := start + min(pageSize, total-start)
	res.Items = res.Items[start:end:end]
	res.HasMore = end < total
	if res.HasMore {
		res.NextCursor = encodeCursor(cursor{Mode: PagingOffset, Sort: key, Offset: end})
	}
	return res
}

func (e *Engine) cursorWindow(res Result, key SortKey, pageSize int, raw string, lower cases.Caser) Result {
	start := 0
	if c, ok := decodeCursor(raw); ok && c.Mode == PagingCursor && c.Sort == key {
		start = resumeIndex(res.Items, c, lower)
	}

	end := start + min(pageSize, len(res.Items)-start)
	res.Items = res.Items[start:end:end]
	res.HasMore = len(res.Items) == pageSize
	if res.HasMore {
		last := res.Items[len(res.Items)-1]
		res.NextCursor = encodeCursor(cursor{
			Mode:  PagingCursor,
			Sort:  key,
			ID:    last.ID,
			Value: sortValue(last, key, lower),
			Pos:   end - 1,
		})
	}
	return res
}
