package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/normalize"
)

// spySource counts calls and serves canned answers.
type spySource struct {
	name domain.Source

	one  func(ctx context.Context, id string) (domain.RawRecord, error)
	many func(ctx context.Context, f domain.FilterSet, page, size int) (*domain.RawPage, error)

	oneCalls  atomic.Int32
	manyCalls atomic.Int32
}

func (s *spySource) Name() domain.Source { return s.name }

func (s *spySource) FetchOne(ctx context.Context, id string) (domain.RawRecord, error) {
	s.oneCalls.Add(1)
	return s.one(ctx, id)
}

func (s *spySource) FetchMany(ctx context.Context, f domain.FilterSet, page, size int) (*domain.RawPage, error) {
	s.manyCalls.Add(1)
	return s.many(ctx, f, page, size)
}

var errUpstreamDown = errors.New("connection refused")

func failingSource(name domain.Source) *spySource {
	return &spySource{
		name: name,
		one: func(context.Context, string) (domain.RawRecord, error) {
			return nil, domain.NewNetworkError(name, errUpstreamDown)
		},
		many: func(context.Context, domain.FilterSet, int, int) (*domain.RawPage, error) {
			return nil, domain.NewNetworkError(name, errUpstreamDown)
		},
	}
}

func cmsSource(name domain.Source, records ...domain.CMSRecord) *spySource {
	return &spySource{
		name: name,
		one: func(_ context.Context, id string) (domain.RawRecord, error) {
			for _, r := range records {
				if normalizeID(r) == id {
					return r, nil
				}
			}
			return nil, domain.NewNotFoundError(name, id)
		},
		many: func(context.Context, domain.FilterSet, int, int) (*domain.RawPage, error) {
			items := make([]domain.RawRecord, len(records))
			for i, r := range records {
				items[i] = r
			}
			return &domain.RawPage{Items: items}, nil
		},
	}
}

func normalizeID(r domain.CMSRecord) string {
	s, _ := r["id"].(string)
	return s
}

func newNormalizer() *normalize.Normalizer {
	return normalize.New(normalize.Config{
		CMSBaseURL:  "https://cms.anjia.test/wp-json",
		Placeholder: normalize.DefaultPlaceholder,
		Agent:       domain.Agent{ID: "1", Name: "Anjia"},
	})
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
