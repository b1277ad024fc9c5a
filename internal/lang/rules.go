// Package lang holds the per-language rule tables driving the heuristic
// parser. The classifier, segmenter and normalizer are polymorphic over these
// tables; adding a language means adding one table, not touching the parser.
package lang

import (
	"regexp"
	"strings"

	"github.com/recipereel/colette/internal/recipe"
)

// Rules is the complete keyword/pattern vocabulary for one language.
type Rules struct {
	Code string

	// Quantity normalization. Units maps every surface form (plural,
	// abbreviation, multi-word) to its canonical short token. NumberWords
	// maps spelled-out small quantities to numeric strings.
	Units       map[string]string
	NumberWords map[string]string

	// Section headings that open/close the ingredient block.
	IngredientHeadings []string
	StepHeadings       []string

	// Imperative-mood verb stems marking instruction sentences.
	ImperativeVerbs []string

	// Calls to action and other caption noise.
	NoiseWords []string

	// Metadata anchors.
	DurationPattern  *regexp.Regexp
	ServingsPatterns []*regexp.Regexp
	PrepLabels       []string
	CookLabels       []string
	CaloriePattern   *regexp.Regexp
	EasyWords        []string
	HardWords        []string
	DifficultyLabels map[recipe.Difficulty]string

	// Sequencing lexicon for the secondary segmenter split.
	SequenceMarkers []string

	// Localized fallbacks and user-facing messages keyed by error code.
	FallbackTitle string
	Messages      map[string]string
}

var registry = map[string]*Rules{}

func register(r *Rules) { registry[r.Code] = r }

// Get returns the rule table for code, falling back to English for unknown
// codes so a bad language parameter degrades instead of failing.
func Get(code string) *Rules {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if r, ok := registry[code]; ok {
		return r
	}
	return registry["en"]
}

// Supported lists the registered language codes.
func Supported() []string {
	codes := make([]string, 0, len(registry))
	for c := range registry {
		codes = append(codes, c)
	}
	return codes
}

// Message returns the localized message for an error code, falling back to
// the English table and then to the code itself.
func (r *Rules) Message(code string) string {
	if m, ok := r.Messages[code]; ok {
		return m
	}
	if r.Code != "en" {
		if m, ok := registry["en"].Messages[code]; ok {
			return m
		}
	}
	return code
}

// hasWord reports whether any of the given lowercase words occurs in text.
func hasWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// HasImperativeVerb reports whether the lowercased line contains an
// instruction verb stem.
func (r *Rules) HasImperativeVerb(lower string) bool {
	return hasWord(lower, r.ImperativeVerbs)
}

// IsIngredientHeading reports whether the lowercased line is an
// "ingredients" style heading.
func (r *Rules) IsIngredientHeading(lower string) bool {
	return isHeading(lower, r.IngredientHeadings)
}

// IsStepHeading reports whether the lowercased line is a "steps" or
// "instructions" style heading.
func (r *Rules) IsStepHeading(lower string) bool {
	return isHeading(lower, r.StepHeadings)
}

func isHeading(lower string, headings []string) bool {
	trimmed := strings.Trim(lower, " \t:;-–—*•")
	for _, h := range headings {
		if trimmed == h || strings.HasPrefix(trimmed, h+":") || strings.HasPrefix(trimmed, h+" :") {
			return true
		}
	}
	return false
}

// Difficulty maps the lowercased caption to a difficulty token plus its
// localized label. Medium is the default, matching the source material where
// captions rarely call out difficulty.
func (r *Rules) Difficulty(lower string) (recipe.Difficulty, string) {
	switch {
	case hasWord(lower, r.EasyWords):
		return recipe.DifficultyEasy, r.DifficultyLabels[recipe.DifficultyEasy]
	case hasWord(lower, r.HardWords):
		return recipe.DifficultyHard, r.DifficultyLabels[recipe.DifficultyHard]
	default:
		return recipe.DifficultyMedium, r.DifficultyLabels[recipe.DifficultyMedium]
	}
}
