package parser

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/recipereel/colette/internal/lang"
	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/scraper"
)

// Options tune the heuristic strategy. Zero values pick the defaults.
type Options struct {
	// PreferQuantityLines classifies quantity-led lines as ingredients even
	// when they also contain an instruction verb and no heading gave
	// context. See the classifier precedence rules.
	PreferQuantityLines bool

	// SegmentThreshold is the rune length past which a sentence gets a
	// secondary split on sequencing markers.
	SegmentThreshold int

	// Now supplies the recipe creation timestamp; overridable so parsing
	// stays reproducible in tests.
	Now func() time.Time
}

// Heuristic is the deterministic rule-based strategy. Same caption and
// language in, byte-identical recipe out (timestamp aside).
type Heuristic struct {
	opts Options
}

func NewHeuristic(opts Options) *Heuristic {
	if opts.SegmentThreshold <= 0 {
		opts.SegmentThreshold = DefaultSegmentThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Heuristic{opts: opts}
}

func (h *Heuristic) Type() recipe.Strategy { return recipe.StrategyHeuristic }

type stepCandidate struct {
	text          string
	explicitOrder int
	numbered      bool
}

// Parse classifies caption lines, accumulates ingredients and step
// candidates, segments unnumbered prose and extracts metadata. A completely
// empty extraction returns ErrEmptyExtraction rather than an empty recipe.
func (h *Heuristic) Parse(_ context.Context, post *scraper.SourcePost, language string) (*recipe.Recipe, error) {
	rules := lang.Get(language)
	classifier := NewClassifier(rules, h.opts.PreferQuantityLines)
	segmenter := NewSegmenter(rules, h.opts.SegmentThreshold)

	caption := post.Caption
	lines := strings.Split(caption, "\n")

	var (
		ingredients []recipe.Ingredient
		candidates  []stepCandidate
		titleLines  []string
		inBlock     bool
		anyNumbered bool
	)

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		// Headings open and close the ingredient block.
		if rules.IsIngredientHeading(lower) {
			inBlock = true
			continue
		}
		if rules.IsStepHeading(lower) {
			inBlock = false
			continue
		}

		switch classifier.Classify(line, inBlock) {
		case ClassIngredient:
			ingredients = append(ingredients, parseIngredientLine(line, rules))
		case ClassStep:
			if order, text, ok := ExplicitStepNumber(line); ok {
				candidates = append(candidates, stepCandidate{text: text, explicitOrder: order, numbered: true})
				anyNumbered = true
			} else {
				candidates = append(candidates, stepCandidate{text: line})
			}
		case ClassOther:
			titleLines = append(titleLines, line)
		case ClassMetadata, ClassNoise:
			// Metadata is re-scanned over the whole caption below;
			// noise never reaches the recipe.
		}
	}

	steps := buildSteps(candidates, anyNumbered, segmenter, rules)

	if len(ingredients) == 0 && len(steps) == 0 {
		return nil, ErrEmptyExtraction
	}

	difficulty, label := rules.Difficulty(strings.ToLower(caption))

	r := &recipe.Recipe{
		Title:           extractTitle(titleLines, lines, rules),
		Description:     summarize(caption),
		Ingredients:     ingredients,
		Steps:           steps,
		TotalDuration:   firstDuration(caption, rules),
		PrepTime:        labeledDuration(caption, rules.PrepLabels, rules),
		CookTime:        labeledDuration(caption, rules.CookLabels, rules),
		Difficulty:      difficulty,
		DifficultyLabel: label,
		Servings:        extractServings(caption, rules),
		Calories:        extractCalories(caption, rules),
		Tips:            collectTips(steps),
		SourcePlatform:  post.Platform,
		SourceURL:       post.URL,
		VideoDuration:   post.VideoDuration,
		ThumbnailURL:    post.ThumbnailURL,
		AuthorUsername:  post.AuthorUsername,
		AuthorName:      post.AuthorName,
		Likes:           post.Likes,
		Comments:        post.Comments,
		Hashtags:        post.Hashtags,
		Language:        rules.Code,
		CreatedAt:       h.opts.Now().UTC(),
	}
	if r.Hashtags == nil {
		r.Hashtags = scraper.ExtractHashtags(caption)
	}
	return r, nil
}

func parseIngredientLine(line string, rules *lang.Rules) recipe.Ingredient {
	stripped := stripBullet(line)
	amount, unit, item, found := NormalizeQuantity(stripped, rules)
	if !found {
		return recipe.Ingredient{Item: strings.TrimSpace(stripped)}
	}
	return recipe.Ingredient{Item: item, Amount: amount, Unit: unit}
}

// buildSteps turns candidates into ordered steps. Explicit source numbering
// is authoritative: numbered candidates keep their numbers exactly and are
// never re-segmented; only fully unnumbered captions get sentence
// segmentation and fresh 1-based ordering.
func buildSteps(candidates []stepCandidate, anyNumbered bool, segmenter *Segmenter, rules *lang.Rules) []recipe.Step {
	var steps []recipe.Step

	if anyNumbered {
		for _, c := range candidates {
			if !c.numbered || strings.TrimSpace(c.text) == "" {
				continue
			}
			steps = append(steps, makeStep(c.explicitOrder, c.text, rules))
		}
		return steps
	}

	for _, c := range candidates {
		for _, piece := range segmenter.Segment(c.text) {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			steps = append(steps, makeStep(0, piece, rules))
		}
	}
	return recipe.RenumberSteps(steps)
}

func makeStep(order int, text string, rules *lang.Rules) recipe.Step {
	step := recipe.Step{Order: order, Text: text}
	if m := rules.DurationPattern.FindString(text); m != "" {
		step.Duration = m
	}
	if m := tipRe.FindStringSubmatch(text); m != nil {
		step.Tip = m[1]
	}
	return step
}

func collectTips(steps []recipe.Step) []string {
	var tips []string
	for _, s := range steps {
		if s.Tip != "" {
			tips = append(tips, s.Tip)
		}
	}
	return tips
}

var titleCleanRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// extractTitle prefers descriptive prose lines, then any early short line
// that is not digit-led, then the localized fallback.
func extractTitle(titleLines, allLines []string, rules *lang.Rules) string {
	for _, line := range titleLines {
		if t := cleanTitle(line); t != "" {
			return t
		}
	}
	limit := 5
	if len(allLines) < limit {
		limit = len(allLines)
	}
	for _, raw := range allLines[:limit] {
		line := strings.TrimSpace(raw)
		if line == "" || unicode.IsDigit(firstRune(line)) {
			continue
		}
		lower := strings.ToLower(line)
		if rules.IsIngredientHeading(lower) || rules.IsStepHeading(lower) {
			continue
		}
		if t := cleanTitle(line); t != "" {
			return t
		}
	}
	return rules.FallbackTitle
}

func cleanTitle(line string) string {
	n := len([]rune(line))
	if n <= 5 || n >= 60 {
		return ""
	}
	t := titleCleanRe.ReplaceAllString(line, "")
	t = strings.Join(strings.Fields(t), " ")
	if len([]rune(t)) <= 5 {
		return ""
	}
	return t
}

// summarize truncates the caption to a short description.
func summarize(caption string) string {
	runes := []rune(strings.TrimSpace(caption))
	if len(runes) <= 200 {
		return string(runes)
	}
	return string(runes[:200]) + "..."
}

func firstDuration(caption string, rules *lang.Rules) string {
	return rules.DurationPattern.FindString(caption)
}

// labeledDuration finds a duration on the same line as a prep/cook label.
func labeledDuration(caption string, labels []string, rules *lang.Rules) string {
	for _, line := range strings.Split(strings.ToLower(caption), "\n") {
		for _, label := range labels {
			if strings.Contains(line, label) {
				if m := rules.DurationPattern.FindString(line); m != "" {
					return m
				}
			}
		}
	}
	return ""
}

func extractServings(caption string, rules *lang.Rules) string {
	for _, p := range rules.ServingsPatterns {
		if m := p.FindString(caption); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func extractCalories(caption string, rules *lang.Rules) string {
	if rules.CaloriePattern == nil {
		return ""
	}
	return strings.TrimSpace(rules.CaloriePattern.FindString(caption))
}
