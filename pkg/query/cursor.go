package query

import (
	"encoding/base64"
	"encoding/json"

	"golang.org/x/text/cases"

	"github.com/agentstation/toolhub/pkg/catalog"
)

// cursor is the decoded form of an opaque continuation token.
type cursor struct {
	Mode   Paging  `json:"m"`
	Sort   SortKey `json:"s"`
	ID     string  `json:"id,omitempty"`
	Value  string  `json:"v,omitempty"`
	Offset int     `json:"o,omitempty"`
	Pos    int     `json:"p,omitempty"` // index of the last-seen item
}

func encodeCursor(c cursor) string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeCursor returns false for anything that is not a token this
// package produced.
func decodeCursor(raw string) (cursor, bool) {
	if raw == "" {
		return cursor{}, false
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return cursor{}, false
	}
	var c cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return cursor{}, false
	}
	switch c.Mode {
	case PagingOffset:
		return c, c.Offset >= 0
	case PagingCursor:
		return c, c.ID != "" || c.Value != ""
	}
	return cursor{}, false
}

// resumeIndex finds where a cursor page starts: right after the last-seen
// item. When that item is gone, unseen items tied with it have shifted
// down onto its old position, so the page starts at the first tie from
// there, else at the first item strictly after the recorded value.
func resumeIndex(items []catalog.Item, c cursor, lower cases.Caser) int {
	if c.ID != "" {
		for i, it := range items {
			if it.ID == c.ID {
				return i + 1
			}
		}
	}
	for i := min(max(c.Pos, 0), len(items)); i < len(items); i++ {
		if sortValue(items[i], c.Sort, lower) == c.Value {
			return i
		}
		if strictlyAfter(items[i], c.Sort, c.Value, lower) {
			break
		}
	}
	for i, it := range items {
		if strictlyAfter(it, c.Sort, c.Value, lower) {
			return i
		}
	}
	return len(items)
}
