// Package parser turns raw caption text into structured recipes. Two
// strategies share one output contract: a deterministic heuristic parser and
// an AI-assisted parser backed by an external structuring service. Fallback
// between them is the orchestrator's job; strategies never fall back
// internally.
package parser

import (
	"context"
	"errors"

	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/scraper"
)

// ErrEmptyExtraction reports that a strategy produced neither ingredients
// nor steps from input that looked like it should contain a recipe.
var ErrEmptyExtraction = errors.New("extraction produced no ingredients or steps")

// Strategy converts one scraped post into a Recipe rendered in the target
// language. Implementations must be deterministic for identical inputs
// wherever their inputs allow it.
type Strategy interface {
	Type() recipe.Strategy
	Parse(ctx context.Context, post *scraper.SourcePost, language string) (*recipe.Recipe, error)
}

// Set holds the configured strategies. AI is nil when AI-assisted parsing is
// disabled; requests asking for it then degrade to the heuristic strategy.
type Set struct {
	Heuristic Strategy
	AI        Strategy
}

// For returns the strategy serving a request's preference.
func (s *Set) For(requested recipe.Strategy) Strategy {
	if requested == recipe.StrategyAIAssisted && s.AI != nil {
		return s.AI
	}
	return s.Heuristic
}
