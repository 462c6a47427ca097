package reels

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reelstream/backend/internal/models"
)

type stubOrigin struct {
	mu        sync.Mutex
	listCalls int32
	getCalls  int32
	listErr   error
	getErr    error
	reels     map[string]models.Reel
	listing   []models.Reel

	// release, when non-nil, blocks fetches until closed so tests can pile
	// up concurrent lookups.
	release chan struct{}
}

func (o *stubOrigin) List(context.Context) ([]models.Reel, error) {
	atomic.AddInt32(&o.listCalls, 1)
	if o.release != nil {
		<-o.release
	}
	if o.listErr != nil {
		return nil, o.listErr
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.listing, nil
}

func (o *stubOrigin) Get(_ context.Context, id string) (models.Reel, error) {
	atomic.AddInt32(&o.getCalls, 1)
	if o.release != nil {
		<-o.release
	}
	if o.getErr != nil {
		return models.Reel{}, o.getErr
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	reel, ok := o.reels[id]
	if !ok {
		return models.Reel{}, ErrNotFound
	}
	return reel, nil
}

type countingRecorder struct {
	mu        sync.Mutex
	hits      map[string]int
	misses    map[string]int
	collapses map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		hits:      make(map[string]int),
		misses:    make(map[string]int),
		collapses: make(map[string]int),
	}
}

func (r *countingRecorder) CacheHit(key string) {
	r.mu.Lock()
	r.hits[key]++
	r.mu.Unlock()
}

func (r *countingRecorder) CacheMiss(key string) {
	r.mu.Lock()
	r.misses[key]++
	r.mu.Unlock()
}

func (r *countingRecorder) CacheCollapse(key string) {
	r.mu.Lock()
	r.collapses[key]++
	r.mu.Unlock()
}

func TestCacheListFetchesOnceThenServesFromCache(t *testing.T) {
	origin := &stubOrigin{listing: []models.Reel{{ID: "r1"}, {ID: "r2"}}}
	cache := NewCache(origin, 0, nil)

	for i := 0; i < 3; i++ {
		listing, err := cache.List(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(listing) != 2 {
			t.Fatalf("expected 2 reels got %d", len(listing))
		}
	}

	if calls := atomic.LoadInt32(&origin.listCalls); calls != 1 {
		t.Fatalf("expected 1 origin call got %d", calls)
	}
}

func TestCacheCollapsesConcurrentLookups(t *testing.T) {
	origin := &stubOrigin{
		listing: []models.Reel{{ID: "r1"}},
		release: make(chan struct{}),
	}
	recorder := newCountingRecorder()
	cache := NewCache(origin, 0, recorder)

	const callers = 3
	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = cache.List(context.Background())
		}(i)
	}

	// Wait for the fetch to be in flight, then give the remaining callers
	// time to join it before releasing.
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&origin.listCalls) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("origin fetch never started")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(origin.release)
	wg.Wait()

	for i, err := range results {
		if err != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, err)
		}
	}
	if calls := atomic.LoadInt32(&origin.listCalls); calls != 1 {
		t.Fatalf("expected concurrent lookups to collapse into 1 origin call, got %d", calls)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.collapses["list"] == 0 {
		t.Fatal("expected collapsed lookups to be recorded")
	}
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	origin := &stubOrigin{listErr: errors.New("origin down")}
	cache := NewCache(origin, 0, nil)

	if _, err := cache.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	origin.listErr = nil
	origin.mu.Lock()
	origin.listing = []models.Reel{{ID: "r1"}}
	origin.mu.Unlock()

	listing, err := cache.List(context.Background())
	if err != nil {
		t.Fatalf("expected retry to reach origin: %v", err)
	}
	if len(listing) != 1 {
		t.Fatalf("expected 1 reel got %d", len(listing))
	}
	if calls := atomic.LoadInt32(&origin.listCalls); calls != 2 {
		t.Fatalf("expected 2 origin calls got %d", calls)
	}
}

func TestCacheDoesNotCacheNotFound(t *testing.T) {
	origin := &stubOrigin{reels: map[string]models.Reel{}}
	cache := NewCache(origin, 0, nil)

	if _, err := cache.Get(context.Background(), "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	// The reel appearing later must be served, not shadowed by a cached
	// not-found outcome.
	origin.mu.Lock()
	origin.reels["r1"] = models.Reel{ID: "r1", Title: "late arrival"}
	origin.mu.Unlock()

	reel, err := cache.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reel.Title != "late arrival" {
		t.Fatalf("expected fresh reel, got %+v", reel)
	}
}

func TestCacheInvalidateDropsReelAndListing(t *testing.T) {
	origin := &stubOrigin{
		reels:   map[string]models.Reel{"r1": {ID: "r1", Title: "before"}},
		listing: []models.Reel{{ID: "r1", Title: "before"}},
	}
	cache := NewCache(origin, 0, nil)

	if _, err := cache.Get(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	origin.mu.Lock()
	origin.reels["r1"] = models.Reel{ID: "r1", Title: "after"}
	origin.listing = []models.Reel{{ID: "r1", Title: "after"}}
	origin.mu.Unlock()

	cache.Invalidate("r1")

	reel, err := cache.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reel.Title != "after" {
		t.Fatalf("expected refetched reel, got %+v", reel)
	}

	listing, err := cache.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing[0].Title != "after" {
		t.Fatalf("expected refetched listing, got %+v", listing)
	}
}

func TestCacheInvalidateListLeavesReelEntries(t *testing.T) {
	origin := &stubOrigin{
		reels:   map[string]models.Reel{"r1": {ID: "r1"}},
		listing: []models.Reel{{ID: "r1"}},
	}
	cache := NewCache(origin, 0, nil)

	if _, err := cache.Get(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.InvalidateList()

	if _, err := cache.Get(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := atomic.LoadInt32(&origin.getCalls); calls != 1 {
		t.Fatalf("expected reel entry to survive listing invalidation, got %d origin calls", calls)
	}

	if _, err := cache.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := atomic.LoadInt32(&origin.listCalls); calls != 2 {
		t.Fatalf("expected listing to be refetched, got %d origin calls", calls)
	}
}

func TestCacheRecordsHitsAndMisses(t *testing.T) {
	origin := &stubOrigin{listing: []models.Reel{{ID: "r1"}}}
	recorder := newCountingRecorder()
	cache := NewCache(origin, 0, recorder)

	if _, err := cache.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.misses["list"] != 1 {
		t.Fatalf("expected 1 recorded miss got %d", recorder.misses["list"])
	}
	if recorder.hits["list"] != 1 {
		t.Fatalf("expected 1 recorded hit got %d", recorder.hits["list"])
	}
}

func TestCacheExpiresEntriesAfterTTL(t *testing.T) {
	origin := &stubOrigin{listing: []models.Reel{{ID: "r1"}}}
	cache := NewCache(origin, time.Millisecond, nil)

	if _, err := cache.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := cache.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := atomic.LoadInt32(&origin.listCalls); calls != 2 {
		t.Fatalf("expected expired entry to be refetched, got %d origin calls", calls)
	}
}
