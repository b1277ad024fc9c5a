package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/recipereel/colette/internal/recipe"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	mu      sync.Mutex
	records map[string]*Record
	err     error
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*Record{}}
}

func (m *memStore) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *memStore) key(url, language string) string { return url + "|" + language }

func (m *memStore) Get(_ context.Context, url, language string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[m.key(url, language)]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}

func (m *memStore) Put(_ context.Context, url, language string, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored := *rec
	if prev, ok := m.records[m.key(url, language)]; ok {
		stored.AccessCount = prev.AccessCount
	}
	m.records[m.key(url, language)] = &stored
	return nil
}

func (m *memStore) Touch(_ context.Context, url, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	rec, ok := m.records[m.key(url, language)]
	if !ok {
		return nil
	}
	rec.AccessCount++
	rec.LastAccessedAt = time.Now().UTC()
	return nil
}

func (m *memStore) Stats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Stats{}, m.err
	}
	s := Stats{TotalRecipes: int64(len(m.records))}
	for _, rec := range m.records {
		s.TotalAccesses += rec.AccessCount
	}
	return s, nil
}

func (m *memStore) accessCount(url, language string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[m.key(url, language)]; ok {
		return rec.AccessCount
	}
	return 0
}

func testRecipe(title string) *recipe.Recipe {
	return &recipe.Recipe{
		Title:       title,
		Ingredients: []recipe.Ingredient{{Item: "flour", Amount: "2", Unit: "cup"}},
		Steps:       []recipe.Step{{Order: 1, Text: "Mix"}},
		Language:    "en",
		CreatedAt:   time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

const testURL = "https://www.instagram.com/p/abc123/"

func TestCoordinatorLookupMiss(t *testing.T) {
	c := NewCoordinator(newMemStore())

	rec, ok := c.Lookup(context.Background(), testURL, "en")
	if ok || rec != nil {
		t.Fatalf("Lookup on empty store = (%v, %v), want miss", rec, ok)
	}
}

func TestCoordinatorStoreThenLookup(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store)
	ctx := context.Background()

	stored := c.Store(ctx, testURL, "en", testRecipe("Pancakes"), recipe.StrategyHeuristic)
	if stored.Recipe.Title != "Pancakes" || stored.Strategy != recipe.StrategyHeuristic {
		t.Fatalf("Store returned %#v", stored)
	}

	rec, ok := c.Lookup(ctx, testURL, "en")
	if !ok {
		t.Fatal("expected hit after Store")
	}
	if rec.Recipe.Title != "Pancakes" {
		t.Errorf("Title = %q", rec.Recipe.Title)
	}

	// The returned record is a copy; callers cannot mutate the cache.
	rec.Recipe.Title = "mutated"
	again, _ := c.Lookup(ctx, testURL, "en")
	if again.Recipe.Title != "Pancakes" {
		t.Errorf("cache mutated through returned record: %q", again.Recipe.Title)
	}
}

func TestCoordinatorLookupCountsAccesses(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store)
	ctx := context.Background()

	c.Store(ctx, testURL, "en", testRecipe("Pancakes"), recipe.StrategyHeuristic)
	for i := 0; i < 3; i++ {
		if _, ok := c.Lookup(ctx, testURL, "en"); !ok {
			t.Fatalf("lookup %d missed", i)
		}
	}
	c.pending.Wait()

	if got := store.accessCount(testURL, "en"); got != 3 {
		t.Errorf("access count = %d, want 3", got)
	}
}

func TestCoordinatorStorePreservesAccessCount(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store)
	ctx := context.Background()

	c.Store(ctx, testURL, "en", testRecipe("Pancakes"), recipe.StrategyHeuristic)
	c.Lookup(ctx, testURL, "en")
	c.Lookup(ctx, testURL, "en")
	c.pending.Wait()

	// Re-storing replaces content but not identity.
	c.Store(ctx, testURL, "en", testRecipe("Better Pancakes"), recipe.StrategyAIAssisted)

	rec, ok := c.Lookup(ctx, testURL, "en")
	if !ok {
		t.Fatal("expected hit")
	}
	if rec.Recipe.Title != "Better Pancakes" || rec.Strategy != recipe.StrategyAIAssisted {
		t.Errorf("record not replaced: %#v", rec)
	}
	if rec.AccessCount != 2 {
		t.Errorf("AccessCount = %d, want 2", rec.AccessCount)
	}
}

func TestCoordinatorDegradedPassThrough(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store)
	ctx := context.Background()

	storeErr := errors.New("connection refused")
	store.fail(storeErr)

	if _, ok := c.Lookup(ctx, testURL, "en"); ok {
		t.Fatal("expected miss while degraded")
	}
	if !c.Degraded() {
		t.Fatal("expected degraded after store failure")
	}

	// Store failures still hand the caller a record to return.
	rec := c.Store(ctx, testURL, "en", testRecipe("Pancakes"), recipe.StrategyHeuristic)
	if rec == nil || rec.Recipe.Title != "Pancakes" {
		t.Fatalf("Store while degraded = %#v", rec)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats while degraded: %v", err)
	}
	if stats != (Stats{}) {
		t.Errorf("Stats while degraded = %#v, want zeros", stats)
	}

	store.fail(nil)
	c.Lookup(ctx, testURL, "en")
	if c.Degraded() {
		t.Error("expected recovery after successful store call")
	}
}

func TestCoordinatorDoCollapsesConcurrentCalls(t *testing.T) {
	c := NewCoordinator(newMemStore())
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	fn := func(context.Context) (interface{}, error) {
		calls.Add(1)
		<-release
		return "result", nil
	}

	const n = 5
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.Do(ctx, testURL, "en", fn)
			if err != nil {
				t.Errorf("Do: %v", err)
				return
			}
			results <- v.(string)
		}()
	}

	// Give the goroutines time to pile onto the key before releasing the
	// leader.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	if got := calls.Load(); got != 1 {
		t.Errorf("fn ran %d times, want 1", got)
	}
	for v := range results {
		if v != "result" {
			t.Errorf("shared result = %q", v)
		}
	}
}

func TestCoordinatorDoDistinctKeys(t *testing.T) {
	c := NewCoordinator(newMemStore())
	ctx := context.Background()

	var calls atomic.Int64
	fn := func(context.Context) (interface{}, error) {
		calls.Add(1)
		return nil, nil
	}

	if _, _, err := c.Do(ctx, testURL, "en", fn); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Do(ctx, testURL, "tr", fn); err != nil {
		t.Fatal(err)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("fn ran %d times, want 2 for distinct languages", got)
	}
}

func TestCoordinatorDoCanceledWaiter(t *testing.T) {
	c := NewCoordinator(newMemStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Do(ctx, testURL, "en", func(context.Context) (interface{}, error) {
		// The leader may still run; the canceled caller must not wait
		// for it.
		time.Sleep(10 * time.Millisecond)
		return "late", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
