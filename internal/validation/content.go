// Package validation provides the quick caption checks the pipeline uses to
// tell trivial input apart from captions that should have produced a recipe.
package validation

import (
	"fmt"
	"strings"

	"github.com/recipereel/colette/internal/lang"
)

// Confidence represents certainty in the validation result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the outcome of a quick caption check. NonTrivial means the
// caption carries enough material that an empty extraction counts as a
// parsing failure rather than an empty post.
type Result struct {
	NonTrivial bool
	Confidence Confidence
	Reason     string
}

const minCaptionLength = 30

// QuickValidate performs a fast heuristic check without any network calls.
// Length gates triviality; the language table's cooking vocabulary raises
// confidence when present.
func QuickValidate(caption string, rules *lang.Rules) Result {
	content := strings.TrimSpace(caption)

	if len(content) < minCaptionLength {
		reason := fmt.Sprintf("caption too short (%d chars, need %d)", len(content), minCaptionLength)
		if len(content) == 0 {
			reason = "no caption text"
		}
		return Result{NonTrivial: false, Confidence: ConfidenceHigh, Reason: reason}
	}

	lower := strings.ToLower(content)
	if hasCookingVocabulary(lower, rules) {
		return Result{NonTrivial: true, Confidence: ConfidenceHigh, Reason: "caption contains cooking vocabulary"}
	}
	return Result{NonTrivial: true, Confidence: ConfidenceMedium, Reason: "caption has sufficient length but no cooking vocabulary"}
}

func hasCookingVocabulary(lower string, rules *lang.Rules) bool {
	for _, v := range rules.ImperativeVerbs {
		if strings.Contains(lower, v) {
			return true
		}
	}
	// Unit surfaces are short ("g", "ml"), so they only count as whole words.
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == ',' || r == '.' || r == '!' || r == '?'
	})
	for _, w := range words {
		if _, ok := rules.Units[w]; ok {
			return true
		}
	}
	return rules.DurationPattern.MatchString(lower)
}
