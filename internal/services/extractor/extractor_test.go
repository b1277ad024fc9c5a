package extractor

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/recipereel/colette/internal/cache"
	apperrors "github.com/recipereel/colette/internal/errors"
	"github.com/recipereel/colette/internal/metrics"
	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/parser"
	"github.com/recipereel/colette/internal/services/scraper"
)

func TestMain(m *testing.M) {
	// The global meter provider is a no-op without an SDK; Init still has
	// to run so the instruments are non-nil.
	if err := metrics.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeStore is an in-memory cache.Store.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]*cache.Record
	putErr  error
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*cache.Record{}}
}

func (f *fakeStore) Get(_ context.Context, url, language string) (*cache.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.records[url+"|"+language]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}

func (f *fakeStore) Put(_ context.Context, url, language string, rec *cache.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	stored := *rec
	f.records[url+"|"+language] = &stored
	return nil
}

func (f *fakeStore) Touch(_ context.Context, url, language string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[url+"|"+language]; ok {
		rec.AccessCount++
	}
	return nil
}

func (f *fakeStore) Stats(context.Context) (cache.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cache.Stats{TotalRecipes: int64(len(f.records))}, nil
}

// fakeSourcer returns a canned post or error and counts calls.
type fakeSourcer struct {
	mu    sync.Mutex
	post  *scraper.SourcePost
	err   error
	calls int
}

func (f *fakeSourcer) Scrape(_ context.Context, postURL string) (*scraper.SourcePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	post := *f.post
	post.URL = postURL
	return &post, nil
}

func (f *fakeSourcer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStrategy is a scripted parser.Strategy.
type fakeStrategy struct {
	typ    recipe.Strategy
	recipe *recipe.Recipe
	err    error
	mu     sync.Mutex
	calls  int
}

func (f *fakeStrategy) Type() recipe.Strategy { return f.typ }

func (f *fakeStrategy) Parse(_ context.Context, post *scraper.SourcePost, language string) (*recipe.Recipe, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r := *f.recipe
	r.SourceURL = post.URL
	r.Language = language
	return &r, nil
}

func (f *fakeStrategy) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakePostCache is an in-memory PostCache recording deletes.
type fakePostCache struct {
	mu      sync.Mutex
	posts   map[string]*scraper.SourcePost
	deletes []string
}

func newFakePostCache() *fakePostCache {
	return &fakePostCache{posts: map[string]*scraper.SourcePost{}}
}

func (f *fakePostCache) Get(_ context.Context, url string) (*scraper.SourcePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[url], nil
}

func (f *fakePostCache) Set(_ context.Context, url string, post *scraper.SourcePost, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[url] = post
	return nil
}

func (f *fakePostCache) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, url)
	f.deletes = append(f.deletes, url)
	return nil
}

const postURL = "https://www.instagram.com/p/abc123/"

func fakePost() *scraper.SourcePost {
	return &scraper.SourcePost{
		Platform: recipe.PlatformInstagram,
		URL:      postURL,
		Caption:  "Mix 1 cup flour with 3 eggs and bake for 20 minutes.",
	}
}

func fakeRecipe(title string) *recipe.Recipe {
	return &recipe.Recipe{
		Title:       title,
		Ingredients: []recipe.Ingredient{{Item: "flour", Amount: "1", Unit: "cup"}},
		Steps:       []recipe.Step{{Order: 1, Text: "Mix and bake"}},
		CreatedAt:   time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

type fixture struct {
	orch      *Orchestrator
	store     *fakeStore
	sourcer   *fakeSourcer
	postCache *fakePostCache
	heuristic *fakeStrategy
	ai        *fakeStrategy
}

func newFixture(ai *fakeStrategy) *fixture {
	store := newFakeStore()
	sourcer := &fakeSourcer{post: fakePost()}
	postCache := newFakePostCache()
	heuristic := &fakeStrategy{typ: recipe.StrategyHeuristic, recipe: fakeRecipe("Heuristic Cake")}

	set := parser.Set{Heuristic: heuristic}
	if ai != nil {
		set.AI = ai
	}

	return &fixture{
		orch:      New(cache.NewCoordinator(store), sourcer, postCache, set, Options{}),
		store:     store,
		sourcer:   sourcer,
		postCache: postCache,
		heuristic: heuristic,
		ai:        ai,
	}
}

func TestExtractMissThenHit(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	res, err := fx.orch.Extract(ctx, Request{URL: postURL})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.FromCache {
		t.Error("first extraction reported FromCache")
	}
	if res.Strategy != recipe.StrategyHeuristic {
		t.Errorf("Strategy = %q", res.Strategy)
	}
	if res.Recipe.Title != "Heuristic Cake" {
		t.Errorf("Title = %q", res.Recipe.Title)
	}
	if res.Recipe.Language != "en" {
		t.Errorf("Language = %q, want default", res.Recipe.Language)
	}

	res2, err := fx.orch.Extract(ctx, Request{URL: postURL})
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if !res2.FromCache {
		t.Error("second extraction not served from cache")
	}
	if got := fx.sourcer.callCount(); got != 1 {
		t.Errorf("scraper called %d times, want 1", got)
	}
}

func TestExtractLanguageNormalization(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	res, err := fx.orch.Extract(ctx, Request{URL: postURL, Language: "en-US"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Recipe.Language != "en" {
		t.Errorf("Language = %q, want %q", res.Recipe.Language, "en")
	}

	// The normalized code is also the cache key.
	if _, ok := fx.store.records[postURL+"|en"]; !ok {
		t.Error("record not cached under normalized language code")
	}
}

func TestExtractAIFallsBackToHeuristic(t *testing.T) {
	ai := &fakeStrategy{typ: recipe.StrategyAIAssisted, err: errors.New("model unavailable")}
	fx := newFixture(ai)

	res, err := fx.orch.Extract(context.Background(), Request{URL: postURL, Strategy: recipe.StrategyAIAssisted})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Strategy != recipe.StrategyHeuristic {
		t.Errorf("Strategy = %q, want heuristic after fallback", res.Strategy)
	}
	if ai.callCount() != 1 || fx.heuristic.callCount() != 1 {
		t.Errorf("calls = ai:%d heuristic:%d, want 1 each", ai.callCount(), fx.heuristic.callCount())
	}
}

func TestExtractBothStrategiesFail(t *testing.T) {
	ai := &fakeStrategy{typ: recipe.StrategyAIAssisted, err: errors.New("model unavailable")}
	fx := newFixture(ai)
	fx.heuristic.err = parser.ErrEmptyExtraction

	_, err := fx.orch.Extract(context.Background(), Request{URL: postURL, Strategy: recipe.StrategyAIAssisted})
	if err == nil {
		t.Fatal("expected error when both strategies fail")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Kind != apperrors.KindUnstructurable {
		t.Errorf("Kind = %q, want unstructurable", appErr.Kind)
	}
	if appErr.StatusCode != 422 {
		t.Errorf("StatusCode = %d, want 422", appErr.StatusCode)
	}
}

func TestExtractSourceErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		scrapeErr  error
		wantKind   apperrors.Kind
		wantStatus int
		wantCode   string
	}{
		{"invalid url", scraper.ErrInvalidURL, apperrors.KindValidation, 400, "INVALID_URL"},
		{"unsupported platform", scraper.ErrUnsupportedPlatform, apperrors.KindValidation, 400, "UNSUPPORTED_PLATFORM"},
		{"rate limited", scraper.ErrRateLimited, apperrors.KindRateLimit, 429, "RATE_LIMITED"},
		{"anything else", errors.New("connection reset"), apperrors.KindSourceUnavailable, 502, "SOURCE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(nil)
			fx.sourcer.err = tt.scrapeErr

			_, err := fx.orch.Extract(context.Background(), Request{URL: postURL})
			if err == nil {
				t.Fatal("expected error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Kind != tt.wantKind || appErr.StatusCode != tt.wantStatus || appErr.ErrorCode != tt.wantCode {
				t.Errorf("got (%q, %d, %q), want (%q, %d, %q)",
					appErr.Kind, appErr.StatusCode, appErr.ErrorCode,
					tt.wantKind, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestExtractStoreFailureStillReturnsRecipe(t *testing.T) {
	fx := newFixture(nil)
	fx.store.putErr = errors.New("disk full")

	res, err := fx.orch.Extract(context.Background(), Request{URL: postURL})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Recipe.Title != "Heuristic Cake" {
		t.Errorf("Title = %q", res.Recipe.Title)
	}
}

func TestExtractUsesPostCacheAcrossLanguages(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	if _, err := fx.orch.Extract(ctx, Request{URL: postURL, Language: "en"}); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.orch.Extract(ctx, Request{URL: postURL, Language: "tr"}); err != nil {
		t.Fatal(err)
	}

	// The second language misses the recipe cache but reuses the scraped
	// post instead of hitting the platform again.
	if got := fx.sourcer.callCount(); got != 1 {
		t.Errorf("scraper called %d times, want 1", got)
	}
	if got := fx.heuristic.callCount(); got != 2 {
		t.Errorf("heuristic ran %d times, want 2", got)
	}
}

func TestReparseBypassesCache(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	if _, err := fx.orch.Extract(ctx, Request{URL: postURL}); err != nil {
		t.Fatal(err)
	}

	fx.heuristic.recipe = fakeRecipe("Revised Cake")
	res, err := fx.orch.Reparse(ctx, Request{URL: postURL})
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	if res.FromCache {
		t.Error("Reparse served from cache")
	}
	if res.Recipe.Title != "Revised Cake" {
		t.Errorf("Title = %q, want re-parsed recipe", res.Recipe.Title)
	}

	// The scraped-post cache entry is dropped, forcing a fresh scrape.
	if len(fx.postCache.deletes) != 1 || fx.postCache.deletes[0] != postURL {
		t.Errorf("post cache deletes = %#v", fx.postCache.deletes)
	}
	if got := fx.sourcer.callCount(); got != 2 {
		t.Errorf("scraper called %d times, want 2", got)
	}

	// The overwritten record is what later lookups see.
	after, err := fx.orch.Extract(ctx, Request{URL: postURL})
	if err != nil {
		t.Fatal(err)
	}
	if !after.FromCache || after.Recipe.Title != "Revised Cake" {
		t.Errorf("after reparse: FromCache=%v Title=%q", after.FromCache, after.Recipe.Title)
	}
}

func TestExtractRequestedAIWhenDisabled(t *testing.T) {
	fx := newFixture(nil)

	res, err := fx.orch.Extract(context.Background(), Request{URL: postURL, Strategy: recipe.StrategyAIAssisted})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Strategy != recipe.StrategyHeuristic {
		t.Errorf("Strategy = %q, want heuristic degradation", res.Strategy)
	}
}

func TestCacheStats(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	if _, err := fx.orch.Extract(ctx, Request{URL: postURL}); err != nil {
		t.Fatal(err)
	}
	stats, err := fx.orch.CacheStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecipes != 1 {
		t.Errorf("TotalRecipes = %d, want 1", stats.TotalRecipes)
	}
}
