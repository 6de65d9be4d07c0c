package featured

import (
	"context"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"chumstream/models"
	"chumstream/services/gogophim"
)

// heroLimit is how many items the hero rail shows: the first few of the
// latest feed, same as the list view's opening slice.
const heroLimit = 5

type latestLister interface {
	Latest(ctx context.Context, page int) (gogophim.ListPage, error)
}

var _ latestLister = (*gogophim.Client)(nil)

// Service caches the hero-rail items. The rail is decoration: it refreshes
// in the background and serves whatever it last managed to fetch.
type Service struct {
	mu     sync.RWMutex
	client latestLister
	items  []models.CatalogItem
}

func NewService(client latestLister) *Service {
	return &Service{client: client, items: []models.CatalogItem{}}
}

// Refresh fetches the first page of the latest feed and keeps its leading
// items. Upstream hiccups at startup are retried a few times so the rail
// does not stay empty over a transient failure; the fetcher's own route
// chain is unchanged per attempt.
func (s *Service) Refresh(ctx context.Context) error {
	var page gogophim.ListPage
	err := retry.Do(
		func() error {
			p, err := s.client.Latest(ctx, 1)
			if err != nil {
				return err
			}
			page = p
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return err
	}

	items := page.Items
	if len(items) > heroLimit {
		items = items[:heroLimit]
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns the cached hero-rail items.
func (s *Service) Items() []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.CatalogItem, len(s.items))
	copy(items, s.items)
	return items
}
