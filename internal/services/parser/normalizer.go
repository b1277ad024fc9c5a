package parser

import (
	"regexp"
	"strings"

	"github.com/recipereel/colette/internal/lang"
)

var (
	integerRe  = regexp.MustCompile(`^\d+$`)
	decimalRe  = regexp.MustCompile(`^\d+[.,]\d+$`)
	fractionRe = regexp.MustCompile(`^\d+/\d+$`)
	rangeRe    = regexp.MustCompile(`^\d+\s?-\s?\d+$`)
	mixedRe    = regexp.MustCompile(`^(\d+)([½¼¾])$`)
)

var unicodeFractions = map[rune]string{
	'½': "1/2",
	'¼': "1/4",
	'¾': "3/4",
	'⅓': "1/3",
	'⅔': "2/3",
}

// NormalizeQuantity inspects the leading tokens of an ingredient line and
// returns the normalized amount, canonical unit and the remaining item text.
// Absence of a quantity is an expected outcome, not an error: found is false
// and rest is the whole line. A bare number is only treated as a quantity at
// the start of the line or when followed by a recognized unit, so product
// names containing digits stay part of the item.
func NormalizeQuantity(line string, rules *lang.Rules) (amount, unit, rest string, found bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", "", line, false
	}

	amount, ok := normalizeAmount(tokens[0], rules)
	if !ok {
		return "", "", line, false
	}
	consumed := 1

	// "2 - 3" split across tokens.
	if len(tokens) >= 3 && tokens[1] == "-" && integerRe.MatchString(tokens[2]) && integerRe.MatchString(tokens[0]) {
		amount = tokens[0] + "-" + tokens[2]
		consumed = 3
	}

	unit, unitTokens := matchUnit(tokens[consumed:], rules)
	consumed += unitTokens

	rest = strings.TrimSpace(strings.Join(tokens[consumed:], " "))
	if rest == "" {
		// Quantity with no item ("3" alone) is not an ingredient line.
		return "", "", line, false
	}
	return amount, unit, rest, true
}

func normalizeAmount(token string, rules *lang.Rules) (string, bool) {
	t := strings.Trim(token, ".,;:")
	lower := strings.ToLower(t)

	switch {
	case integerRe.MatchString(t), fractionRe.MatchString(t), rangeRe.MatchString(t):
		return t, true
	case decimalRe.MatchString(t):
		return strings.ReplaceAll(t, ",", "."), true
	}
	if f, ok := unicodeFractions[firstRune(t)]; ok && len([]rune(t)) == 1 {
		return f, true
	}
	if m := mixedRe.FindStringSubmatch(t); m != nil {
		return m[1] + " " + unicodeFractions[firstRune(m[2])], true
	}
	if n, ok := rules.NumberWords[lower]; ok {
		return n, true
	}
	return "", false
}

// matchUnit tries multi-word units first ("su bardağı", "yemek kaşığı") so a
// two-token vocabulary entry wins over its single-token prefix.
func matchUnit(tokens []string, rules *lang.Rules) (string, int) {
	for n := 2; n >= 1; n-- {
		if len(tokens) < n {
			continue
		}
		candidate := strings.ToLower(strings.Trim(strings.Join(tokens[:n], " "), ".,;:"))
		if canonical, ok := rules.Units[candidate]; ok {
			return canonical, n
		}
	}
	return "", 0
}

// HasLeadingQuantity reports whether a line opens with a recognizable
// quantity followed by more text. Used by the classifier.
func HasLeadingQuantity(line string, rules *lang.Rules) bool {
	_, _, _, found := NormalizeQuantity(line, rules)
	return found
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
