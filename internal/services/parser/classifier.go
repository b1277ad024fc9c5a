package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/recipereel/colette/internal/lang"
)

// LineClass is the classifier's verdict for one caption line.
type LineClass int

const (
	// ClassNoise lines never reach the recipe: hashtag walls, emoji,
	// calls to action.
	ClassNoise LineClass = iota
	ClassIngredient
	ClassStep
	ClassMetadata
	// ClassOther is prose that is neither an ingredient, a step nor
	// recognizable metadata; candidates for the title.
	ClassOther
)

// Classifier decides what role a single caption line plays. Classification
// is heuristic and best-effort: recall for ingredients and steps is favored
// over precision, since a partial structured extraction beats none.
type Classifier struct {
	rules *lang.Rules

	// preferQuantityLines resolves the tie when a quantity-led line also
	// reads like an instruction and no headings gave context.
	preferQuantityLines bool
}

func NewClassifier(rules *lang.Rules, preferQuantityLines bool) *Classifier {
	return &Classifier{rules: rules, preferQuantityLines: preferQuantityLines}
}

var (
	numberedLineRe = regexp.MustCompile(`^\s*(\d+)\s*[.)-]\s+\S`)
	stepLabelRe    = regexp.MustCompile(`(?i)^\s*(?:step|adım)\s*(\d+)\s*[:.)-]?\s*`)
	tipRe          = regexp.MustCompile(`\(([^)]+)\)`)
)

// ExplicitStepNumber returns the explicit order of a numbered instruction
// line ("3. ...", "Step 3: ...") and the text with the marker stripped.
// ok is false for unnumbered lines.
func ExplicitStepNumber(line string) (order int, text string, ok bool) {
	if m := stepLabelRe.FindStringSubmatch(line); m != nil {
		return atoiSafe(m[1]), strings.TrimSpace(line[len(m[0]):]), true
	}
	if m := numberedLineRe.FindStringSubmatch(line); m != nil {
		idx := strings.Index(line, m[1])
		rest := line[idx+len(m[1]):]
		rest = strings.TrimLeft(rest, " .)-")
		return atoiSafe(m[1]), strings.TrimSpace(rest), true
	}
	return 0, "", false
}

// Classify assigns a class to one trimmed line. inIngredientBlock reports
// whether an "ingredients" heading opened a block that has not been closed
// by a "steps" heading yet.
func (c *Classifier) Classify(line string, inIngredientBlock bool) LineClass {
	if len([]rune(line)) < 3 {
		return ClassNoise
	}

	lower := strings.ToLower(line)

	if c.isNoise(line, lower) {
		return ClassNoise
	}

	// Metadata anchors win regardless of position in the caption.
	if c.isMetadata(line, lower) {
		return ClassMetadata
	}

	// Explicit numbering is authoritative for steps.
	if _, _, ok := ExplicitStepNumber(line); ok {
		return ClassStep
	}

	hasQuantity := HasLeadingQuantity(stripBullet(line), c.rules)
	hasVerb := c.rules.HasImperativeVerb(lower)

	if inIngredientBlock {
		// Inside the block everything non-noise is an ingredient; the
		// block is closed by headings, handled by the caller.
		return ClassIngredient
	}

	switch {
	case hasQuantity && hasVerb:
		if c.preferQuantityLines {
			return ClassIngredient
		}
		return ClassStep
	case hasQuantity:
		return ClassIngredient
	case hasVerb:
		return ClassStep
	default:
		return ClassOther
	}
}

func (c *Classifier) isMetadata(line, lower string) bool {
	for _, p := range c.rules.ServingsPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	for _, label := range c.rules.PrepLabels {
		if strings.Contains(lower, label) {
			return true
		}
	}
	for _, label := range c.rules.CookLabels {
		if strings.Contains(lower, label) {
			return true
		}
	}
	if c.rules.CaloriePattern != nil && c.rules.CaloriePattern.MatchString(line) {
		return true
	}
	// A short line that is essentially just a duration ("Ready in 20
	// minutes") is metadata; a long sentence with a duration is a step.
	if c.rules.DurationPattern.MatchString(line) && len([]rune(line)) < 40 && !c.rules.HasImperativeVerb(lower) {
		return true
	}
	return false
}

func (c *Classifier) isNoise(line, lower string) bool {
	for _, w := range c.rules.NoiseWords {
		if strings.Contains(lower, w) {
			return true
		}
	}

	letters := 0
	symbolic := 0
	for _, r := range line {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			letters++
		case !unicode.IsSpace(r):
			symbolic++
		}
	}
	if letters == 0 {
		return true
	}

	// Hashtag or mention walls.
	fields := strings.Fields(line)
	tagged := 0
	for _, f := range fields {
		if strings.HasPrefix(f, "#") || strings.HasPrefix(f, "@") {
			tagged++
		}
	}
	return tagged == len(fields) && tagged > 0
}

// stripBullet removes list markers so "- 2 cups flour" still quantity-leads.
func stripBullet(line string) string {
	return strings.TrimLeft(line, "-•*– \t")
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
