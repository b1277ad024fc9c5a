package lang

import (
	"strings"
	"testing"

	"github.com/recipereel/colette/internal/recipe"
)

func TestGet(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "en"},
		{"tr", "tr"},
		{"EN", "en"},
		{"en-US", "en"},
		{"tr_TR", "tr"},
		{"", "en"},
		{"fr", "en"},
		{"  en  ", "en"},
	}

	for _, tt := range tests {
		if got := Get(tt.code).Code; got != tt.want {
			t.Errorf("Get(%q).Code = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestSupported(t *testing.T) {
	codes := Supported()
	seen := map[string]bool{}
	for _, c := range codes {
		seen[c] = true
	}
	if !seen["en"] || !seen["tr"] {
		t.Errorf("expected en and tr in supported languages, got %v", codes)
	}
}

func TestMessage(t *testing.T) {
	en := Get("en")
	tr := Get("tr")

	if en.Message("INVALID_URL") == "" || en.Message("INVALID_URL") == "INVALID_URL" {
		t.Error("expected a localized English message for INVALID_URL")
	}
	if tr.Message("INVALID_URL") == en.Message("INVALID_URL") {
		t.Error("expected Turkish message to differ from English")
	}
	if got := en.Message("NO_SUCH_CODE"); got != "NO_SUCH_CODE" {
		t.Errorf("unknown code should fall back to itself, got %q", got)
	}
}

func TestIsHeading(t *testing.T) {
	en := Get("en")

	headings := []string{
		"Ingredients",
		"INGREDIENTS:",
		"- ingredients -",
		"** Ingredients **",
	}
	for _, h := range headings {
		if !en.IsIngredientHeading(strings.ToLower(h)) {
			t.Errorf("expected %q to be an ingredient heading", h)
		}
	}

	if en.IsIngredientHeading("add the ingredients to the bowl") {
		t.Error("a sentence mentioning ingredients is not a heading")
	}
	if !en.IsStepHeading("instructions:") {
		t.Error("expected 'instructions:' to be a step heading")
	}
}

func TestDifficulty(t *testing.T) {
	en := Get("en")

	tests := []struct {
		text      string
		want      recipe.Difficulty
		wantLabel string
	}{
		{"super easy weeknight dinner", recipe.DifficultyEasy, "Easy"},
		{"an advanced technique for experts", recipe.DifficultyHard, "Hard"},
		{"a chocolate cake", recipe.DifficultyMedium, "Medium"},
	}

	for _, tt := range tests {
		got, label := en.Difficulty(tt.text)
		if got != tt.want || label != tt.wantLabel {
			t.Errorf("Difficulty(%q) = (%s, %s), want (%s, %s)", tt.text, got, label, tt.want, tt.wantLabel)
		}
	}

	tr := Get("tr")
	if got, label := tr.Difficulty("çok kolay bir tarif"); got != recipe.DifficultyEasy || label != "Kolay" {
		t.Errorf("expected Turkish easy difficulty, got (%s, %s)", got, label)
	}
}
