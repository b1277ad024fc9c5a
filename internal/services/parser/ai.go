package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/recipereel/colette/internal/lang"
	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/ai"
	"github.com/recipereel/colette/internal/services/scraper"
	"github.com/recipereel/colette/internal/validation"
)

// AIAssisted asks the external structuring service for a ready-shaped,
// already-translated recipe and validates the result. It reports failures
// upward; whether to fall back to the heuristic strategy is the
// orchestrator's decision alone.
type AIAssisted struct {
	client ai.Structurer
	now    func() time.Time
}

func NewAIAssisted(client ai.Structurer) *AIAssisted {
	return &AIAssisted{client: client, now: time.Now}
}

func (a *AIAssisted) Type() recipe.Strategy { return recipe.StrategyAIAssisted }

func (a *AIAssisted) Parse(ctx context.Context, post *scraper.SourcePost, language string) (*recipe.Recipe, error) {
	rules := lang.Get(language)

	payload, err := a.client.Structure(ctx, post.Caption, string(post.Platform), rules.Code)
	if err != nil {
		return nil, err
	}

	r := payloadToRecipe(payload, post, rules, a.now().UTC())

	nonTrivial := validation.QuickValidate(post.Caption, rules).NonTrivial
	if err := recipe.Validate(r, nonTrivial); err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrInvalidResponse, err)
	}
	return r, nil
}

func payloadToRecipe(p *ai.RecipePayload, post *scraper.SourcePost, rules *lang.Rules, createdAt time.Time) *recipe.Recipe {
	r := &recipe.Recipe{
		Title:         strings.TrimSpace(p.Title),
		Description:   strings.TrimSpace(p.Description),
		TotalDuration: p.TotalDuration,
		PrepTime:      p.PrepTime,
		CookTime:      p.CookTime,
		Servings:      p.Servings,
		Calories:      p.Calories,
		Tips:          p.Tips,

		SourcePlatform: post.Platform,
		SourceURL:      post.URL,
		VideoDuration:  post.VideoDuration,
		ThumbnailURL:   post.ThumbnailURL,
		AuthorUsername: post.AuthorUsername,
		AuthorName:     post.AuthorName,
		Likes:          post.Likes,
		Comments:       post.Comments,
		Hashtags:       post.Hashtags,

		Language:  rules.Code,
		CreatedAt: createdAt,
	}

	for _, ing := range p.Ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{
			Item:   strings.TrimSpace(ing.Item),
			Amount: strings.TrimSpace(ing.Amount),
			Unit:   strings.TrimSpace(ing.Unit),
		})
	}

	steps := make([]recipe.Step, 0, len(p.Steps))
	for _, st := range p.Steps {
		steps = append(steps, recipe.Step{
			Order:    st.Order,
			Text:     strings.TrimSpace(st.Text),
			Duration: st.Duration,
			Tip:      st.Tip,
		})
	}
	// Model ordering is kept but holes and blanks are repaired so step
	// numbering stays contiguous.
	r.Steps = recipe.RenumberSteps(steps)

	switch recipe.Difficulty(strings.ToLower(strings.TrimSpace(p.Difficulty))) {
	case recipe.DifficultyEasy:
		r.Difficulty = recipe.DifficultyEasy
	case recipe.DifficultyHard:
		r.Difficulty = recipe.DifficultyHard
	default:
		r.Difficulty = recipe.DifficultyMedium
	}
	r.DifficultyLabel = rules.DifficultyLabels[r.Difficulty]

	return r
}
