package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeReparseRecipe = "reparse:recipe"
	TypeCleanupCache  = "cleanup:cache"
)

// ReparseRecipePayload is the payload for re-parse tasks. An empty Languages
// slice means every supported language.
type ReparseRecipePayload struct {
	URL       string   `json:"url"`
	Languages []string `json:"languages,omitempty"`
	Strategy  string   `json:"strategy,omitempty"`
}

// CleanupCachePayload is the payload for cache cleanup tasks.
type CleanupCachePayload struct {
	OlderThanDays int `json:"older_than_days"`
}

// NewReparseRecipeTask creates a new re-parse task
func NewReparseRecipeTask(payload ReparseRecipePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReparseRecipe, data), nil
}

// NewCleanupCacheTask creates a new cleanup task
func NewCleanupCacheTask(payload CleanupCachePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCleanupCache, data), nil
}
