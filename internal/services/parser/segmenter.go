package parser

import (
	"strings"

	"github.com/recipereel/colette/internal/lang"
)

// DefaultSegmentThreshold is the rune length past which a single sentence is
// assumed to bury more than one action; roughly two short sentences.
const DefaultSegmentThreshold = 120

// Segmenter splits undifferentiated instructional prose into atomic steps.
// It never runs on explicitly numbered source lines; explicit numbering is
// authoritative and handled upstream.
type Segmenter struct {
	rules     *lang.Rules
	threshold int
}

func NewSegmenter(rules *lang.Rules, threshold int) *Segmenter {
	if threshold <= 0 {
		threshold = DefaultSegmentThreshold
	}
	return &Segmenter{rules: rules, threshold: threshold}
}

// Segment splits text into step-sized pieces: sentence boundaries first,
// then a secondary split of over-long sentences on the language's
// sequencing lexicon ("then", "sonra", ...).
func (s *Segmenter) Segment(text string) []string {
	var out []string
	for _, sentence := range splitSentences(text) {
		if len([]rune(sentence)) <= s.threshold {
			out = append(out, sentence)
			continue
		}
		out = append(out, s.splitOnMarkers(sentence)...)
	}
	return out
}

// splitSentences cuts on ., ! and ? keeping the terminator with the
// sentence. Decimal points and fraction slashes never split because they are
// not followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(strings.TrimSpace(text))
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		atEnd := i == len(runes)-1
		if !atEnd && !isSpaceRune(runes[i+1]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func (s *Segmenter) splitOnMarkers(sentence string) []string {
	lower := strings.ToLower(sentence)

	// Find the earliest sequencing marker past the midpoint-ish start so we
	// never produce a leading fragment like "Then".
	cut := -1
	cutLen := 0
	for _, marker := range s.rules.SequenceMarkers {
		for _, form := range []string{", " + marker + " ", " " + marker + " "} {
			idx := strings.Index(lower, form)
			if idx <= 0 {
				continue
			}
			if cut == -1 || idx < cut {
				cut = idx
				cutLen = len(form)
			}
		}
	}
	if cut == -1 {
		return []string{sentence}
	}

	head := strings.TrimRight(strings.TrimSpace(sentence[:cut]), ",")
	tail := strings.TrimSpace(sentence[cut+cutLen:])
	// The marker itself is dropped; capitalization of the tail is left to
	// the caption author.
	var out []string
	if head != "" {
		out = append(out, head)
	}
	if tail != "" {
		if len([]rune(tail)) > s.threshold {
			out = append(out, s.splitOnMarkers(tail)...)
		} else {
			out = append(out, tail)
		}
	}
	if len(out) == 0 {
		return []string{sentence}
	}
	return out
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
