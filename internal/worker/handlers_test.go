package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/extractor"
)

// Mocks

type MockReparser struct {
	mock.Mock
}

func (m *MockReparser) Reparse(ctx context.Context, req extractor.Request) (*extractor.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extractor.Result), args.Error(1)
}

type MockStaleDeleter struct {
	mock.Mock
}

func (m *MockStaleDeleter) DeleteStale(ctx context.Context, cutoffDays int) (int64, error) {
	args := m.Called(ctx, cutoffDays)
	return args.Get(0).(int64), args.Error(1)
}

func reparseResult(language string) *extractor.Result {
	return &extractor.Result{
		Recipe:   &recipe.Recipe{Title: "Chocolate Cake", Language: language},
		Strategy: recipe.StrategyHeuristic,
	}
}

// Tests

func TestHandleReparseRecipe_SingleLanguage(t *testing.T) {
	ctx := context.Background()
	url := "https://www.instagram.com/p/C_abc123/"

	payload := ReparseRecipePayload{
		URL:       url,
		Languages: []string{"en"},
		Strategy:  "heuristic",
	}
	payloadBytes, _ := json.Marshal(payload)
	task := asynq.NewTask(TypeReparseRecipe, payloadBytes)

	mockReparser := new(MockReparser)
	processor := NewRecipeProcessor(mockReparser, nil, nil)

	mockReparser.On("Reparse", mock.Anything, extractor.Request{
		URL:      url,
		Language: "en",
		Strategy: recipe.StrategyHeuristic,
	}).Return(reparseResult("en"), nil)

	err := processor.HandleReparseRecipe(ctx, task)

	assert.NoError(t, err)
	mockReparser.AssertExpectations(t)
}

func TestHandleReparseRecipe_AllLanguagesWhenEmpty(t *testing.T) {
	ctx := context.Background()
	url := "https://www.tiktok.com/@cook/video/123"

	payload := ReparseRecipePayload{URL: url}
	payloadBytes, _ := json.Marshal(payload)
	task := asynq.NewTask(TypeReparseRecipe, payloadBytes)

	mockReparser := new(MockReparser)
	processor := NewRecipeProcessor(mockReparser, nil, nil)

	mockReparser.On("Reparse", mock.Anything, mock.MatchedBy(func(req extractor.Request) bool {
		return req.URL == url && req.Language == "en"
	})).Return(reparseResult("en"), nil)
	mockReparser.On("Reparse", mock.Anything, mock.MatchedBy(func(req extractor.Request) bool {
		return req.URL == url && req.Language == "tr"
	})).Return(reparseResult("tr"), nil)

	err := processor.HandleReparseRecipe(ctx, task)

	assert.NoError(t, err)
	mockReparser.AssertExpectations(t)
}

func TestHandleReparseRecipe_PartialFailure(t *testing.T) {
	ctx := context.Background()
	url := "https://www.instagram.com/p/C_abc123/"

	payload := ReparseRecipePayload{
		URL:       url,
		Languages: []string{"en", "tr"},
	}
	payloadBytes, _ := json.Marshal(payload)
	task := asynq.NewTask(TypeReparseRecipe, payloadBytes)

	mockReparser := new(MockReparser)
	processor := NewRecipeProcessor(mockReparser, nil, nil)

	mockReparser.On("Reparse", mock.Anything, mock.MatchedBy(func(req extractor.Request) bool {
		return req.Language == "en"
	})).Return(reparseResult("en"), nil)
	mockReparser.On("Reparse", mock.Anything, mock.MatchedBy(func(req extractor.Request) bool {
		return req.Language == "tr"
	})).Return(nil, fmt.Errorf("source unavailable"))

	err := processor.HandleReparseRecipe(ctx, task)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 languages")
}

func TestHandleReparseRecipe_InvalidPayload(t *testing.T) {
	processor := NewRecipeProcessor(new(MockReparser), nil, nil)
	task := asynq.NewTask(TypeReparseRecipe, []byte("{not json"))

	err := processor.HandleReparseRecipe(context.Background(), task)

	assert.Error(t, err)
}

func TestHandleCleanupCache(t *testing.T) {
	ctx := context.Background()

	payload := CleanupCachePayload{OlderThanDays: 30}
	payloadBytes, _ := json.Marshal(payload)
	task := asynq.NewTask(TypeCleanupCache, payloadBytes)

	mockStore := new(MockStaleDeleter)
	processor := NewRecipeProcessor(nil, mockStore, nil)

	mockStore.On("DeleteStale", ctx, 30).Return(int64(7), nil)

	err := processor.HandleCleanupCache(ctx, task)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestHandleCleanupCache_DefaultCutoff(t *testing.T) {
	ctx := context.Background()

	payloadBytes, _ := json.Marshal(CleanupCachePayload{})
	task := asynq.NewTask(TypeCleanupCache, payloadBytes)

	mockStore := new(MockStaleDeleter)
	processor := NewRecipeProcessor(nil, mockStore, nil)

	mockStore.On("DeleteStale", ctx, 90).Return(int64(0), nil)

	err := processor.HandleCleanupCache(ctx, task)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestHandleCleanupCache_StoreError(t *testing.T) {
	ctx := context.Background()

	payloadBytes, _ := json.Marshal(CleanupCachePayload{OlderThanDays: 14})
	task := asynq.NewTask(TypeCleanupCache, payloadBytes)

	mockStore := new(MockStaleDeleter)
	processor := NewRecipeProcessor(nil, mockStore, nil)

	mockStore.On("DeleteStale", ctx, 14).Return(int64(0), fmt.Errorf("connection refused"))

	err := processor.HandleCleanupCache(ctx, task)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache cleanup failed")
}
