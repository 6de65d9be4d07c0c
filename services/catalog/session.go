package catalog

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"chumstream/models"
	"chumstream/services/gogophim"
)

// State is the session's lifecycle position.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// DefaultAutoLoadCeiling bounds how many pages one query aggregates before
// yielding: at most 5 sequential fetches, each itself up to 1+N_proxies
// attempts, keeps worst-case latency bounded while filling the list view.
const DefaultAutoLoadCeiling = 5

// ErrLoadInProgress is returned when a load is requested while a prior
// query's fetch is still in flight. The auto-aggregation sub-loop is the
// only re-entrant load; user-initiated ones queue behind the result.
var ErrLoadInProgress = errors.New("a load is already in progress")

type lister interface {
	List(ctx context.Context, q models.CatalogQuery) (gogophim.ListPage, error)
}

var _ lister = (*gogophim.Client)(nil)

// Session owns the current catalog query and its accumulated result set.
// There are no implicit singletons: callers create one and share it.
type Session struct {
	mu      sync.Mutex
	client  lister
	ceiling int

	state      State
	queryID    uuid.UUID
	query      models.CatalogQuery
	items      []models.CatalogItem
	page       int
	totalPages int
	lastErr    error
}

// Snapshot is a point-in-time copy of the session state, safe to hand to
// renderers while the session keeps moving.
type Snapshot struct {
	State      State                `json:"state"`
	Query      models.CatalogQuery  `json:"query"`
	Items      []models.CatalogItem `json:"items"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
	HasMore    bool                 `json:"has_more"`
}

func NewSession(client lister, autoLoadCeiling int) *Session {
	if autoLoadCeiling < 1 {
		autoLoadCeiling = DefaultAutoLoadCeiling
	}
	return &Session{client: client, ceiling: autoLoadCeiling, state: StateIdle}
}

// SetQuery replaces the current query wholesale, resets to page 1, and
// loads it. After a successful first page the session keeps requesting
// further pages — an explicit loop, in strictly increasing page order —
// while the upstream reports more, the ceiling is not hit, and the query
// is not a search. Search result sets are complete after one call.
//
// A first-page failure fails the whole query and discards everything; a
// failure on page >= 2 keeps whatever already accumulated, since showing
// some results beats discarding a good first page over a later page's
// transient failure.
func (s *Session) SetQuery(ctx context.Context, q models.CatalogQuery) (Snapshot, error) {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return Snapshot{}, ErrLoadInProgress
	}
	id := uuid.New()
	q.Page = 1
	s.state = StateLoading
	s.queryID = id
	s.query = q
	s.items = nil
	s.page = 0
	s.totalPages = 0
	s.lastErr = nil
	s.mu.Unlock()

	var items []models.CatalogItem
	page, total := 1, 1
	for {
		q.Page = page
		res, err := s.client.List(ctx, q)
		if err != nil {
			if page == 1 {
				s.fail(id, err)
				return Snapshot{}, err
			}
			log.Printf("[catalog] page %d failed, keeping %d items: %v", page, len(items), err)
			page--
			break
		}
		items = append(items, res.Items...)
		total = res.Pagination.TotalPages
		if q.IsSearch() {
			total = page
			break
		}
		if page >= s.ceiling || page >= total {
			break
		}
		page++
	}

	return s.commit(id, items, page, total), nil
}

// LoadMore fetches the next page of the current query and appends it.
// Outside the Ready state, for searches, or past the last page it is a
// no-op returning the current snapshot. Failures are swallowed the same
// way auto-aggregation failures are.
func (s *Session) LoadMore(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return Snapshot{}, ErrLoadInProgress
	}
	if s.state != StateReady || s.query.IsSearch() || s.page >= s.totalPages {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	id := s.queryID
	q := s.query
	next := s.page + 1
	s.state = StateLoading
	s.mu.Unlock()

	q.Page = next
	res, err := s.client.List(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryID != id {
		return s.snapshotLocked(), nil
	}
	s.state = StateReady
	if err != nil {
		log.Printf("[catalog] load-more page %d failed: %v", next, err)
		return s.snapshotLocked(), nil
	}
	s.items = append(s.items, res.Items...)
	s.page = next
	if res.Pagination.TotalPages > 0 {
		s.totalPages = res.Pagination.TotalPages
	}
	return s.snapshotLocked(), nil
}

// Reset returns the session to Idle and rotates the query identity, so a
// late-arriving response for the old query is discarded instead of
// overwriting newer state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryID = uuid.New()
	s.state = StateIdle
	s.query = models.CatalogQuery{}
	s.items = nil
	s.page = 0
	s.totalPages = 0
	s.lastErr = nil
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Err returns the failure that moved the session to Failed, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) commit(id uuid.UUID, items []models.CatalogItem, page, total int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryID != id {
		log.Printf("[catalog] dropping stale result for superseded query")
		return s.snapshotLocked()
	}
	s.state = StateReady
	s.items = items
	s.page = page
	s.totalPages = total
	return s.snapshotLocked()
}

func (s *Session) fail(id uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryID != id {
		return
	}
	s.state = StateFailed
	s.items = nil
	s.lastErr = err
}

func (s *Session) snapshotLocked() Snapshot {
	items := make([]models.CatalogItem, len(s.items))
	copy(items, s.items)
	return Snapshot{
		State:      s.state,
		Query:      s.query,
		Items:      items,
		Page:       s.page,
		TotalPages: s.totalPages,
		HasMore:    s.state == StateReady && !s.query.IsSearch() && s.page < s.totalPages,
	}
}
