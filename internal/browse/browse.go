// Package browse holds the caller-side state for paging through search
// results: the accumulated list, the loading guard and the retry state.
//
// The query engine is stateless. A Session is what a page or a CLI
// command keeps between "load" and "load more".
package browse

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
	"github.com/agentstation/toolhub/pkg/query"
)

// State is where a Session is in its load cycle.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Exhausted
	Failed
)

var stateNames = map[State]string{
	Idle:      "idle",
	Loading:   "loading",
	Loaded:    "loaded",
	Exhausted: "exhausted",
	Failed:    "failed",
}

func (s State) String() string {
	return stateNames[s]
}

// Fetcher produces one page of results for a request.
type Fetcher interface {
	Fetch(ctx context.Context, req query.Request) (query.Result, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req query.Request) (query.Result, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, req query.Request) (query.Result, error) {
	return f(ctx, req)
}

// StoreFetcher loads a full snapshot from a store and runs the engine on it.
type StoreFetcher struct {
	Store      store.Store
	Collection string
	Engine     *query.Engine
}

// Fetch implements Fetcher.
func (f StoreFetcher) Fetch(ctx context.Context, req query.Request) (query.Result, error) {
	snapshot, err := f.Store.FetchAll(ctx, f.Collection)
	if err != nil {
		return query.Result{}, err
	}
	return f.Engine.Search(snapshot, req), nil
}

// View is a copy of the session's visible state.
type View struct {
	State   State
	Items   []catalog.Item
	Total   int
	HasMore bool
	Err     error
}

type operation int

const (
	opLoad operation = iota + 1
	opLoadMore
)

// Session accumulates pages for one request. It is safe for concurrent use;
// overlapping loads are rejected with errors.ErrBusy.
type Session struct {
	fetcher Fetcher

	mu         sync.Mutex
	req        query.Request
	state      State
	items      []catalog.Item
	total      int
	hasMore    bool
	next       string
	err        error
	lastOp     operation
	generation int
}

// NewSession creates an idle session for req.
func NewSession(fetcher Fetcher, req query.Request) *Session {
	return &Session{fetcher: fetcher, req: req}
}

// SetRequest replaces the request and drops the accumulated list. A load
// still in flight for the old request is discarded when it returns.
func (s *Session) SetRequest(req query.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req = req
	s.reset()
}

// Request returns the current request.
func (s *Session) Request() query.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req
}

// Load fetches the first page, replacing anything accumulated.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Loading {
		s.mu.Unlock()
		return errors.ErrBusy
	}
	s.reset()
	return s.run(ctx, opLoad)
}

// LoadMore appends the next page. It does nothing once the results are
// exhausted and loads the first page when nothing is loaded yet.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case Loading:
		s.mu.Unlock()
		return errors.ErrBusy
	case Exhausted:
		s.mu.Unlock()
		return nil
	case Idle:
		return s.run(ctx, opLoad)
	case Failed:
		if s.lastOp == opLoad {
			s.reset()
			return s.run(ctx, opLoad)
		}
	}
	return s.run(ctx, opLoadMore)
}

// Retry repeats the operation that failed. It is a no-op in other states.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Failed {
		s.mu.Unlock()
		return nil
	}
	if s.lastOp == opLoad {
		s.reset()
		return s.run(ctx, opLoad)
	}
	return s.run(ctx, opLoadMore)
}

// View returns a snapshot of the session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		State:   s.state,
		Items:   slices.Clone(s.items),
		Total:   s.total,
		HasMore: s.hasMore,
		Err:     s.err,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// reset returns to Idle. Callers hold mu.
func (s *Session) reset() {
	s.generation++
	s.state = Idle
	s.items = nil
	s.total = 0
	s.hasMore = false
	s.next = ""
	s.err = nil
	s.lastOp = 0
}

// run performs one fetch. It is entered with mu held and releases it while
// the fetch is in flight.
func (s *Session) run(ctx context.Context, op operation) error {
	req := s.req
	if op == opLoadMore {
		if req.Paging == query.PagingCursor {
			req.Cursor = s.next
		} else {
			req.Offset = len(s.items)
			req.Cursor = ""
		}
	} else {
		req.Offset = 0
		req.Cursor = ""
	}
	gen := s.generation
	s.state = Loading
	s.lastOp = op
	s.err = nil
	s.mu.Unlock()

	res, err := s.fetcher.Fetch(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// The request changed while this fetch was in flight.
		return nil
	}
	if err != nil {
		s.state = Failed
		s.err = err
		return err
	}

	s.items = append(s.items, res.Items...)
	s.total = res.TotalMatched
	s.hasMore = res.HasMore
	s.next = res.NextCursor
	if res.HasMore {
		s.state = Loaded
	} else {
		s.state = Exhausted
	}
	return nil
}
