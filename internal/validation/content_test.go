package validation

import (
	"testing"

	"github.com/recipereel/colette/internal/lang"
)

func TestQuickValidate(t *testing.T) {
	rules := lang.Get("en")

	tests := []struct {
		name           string
		caption        string
		wantNonTrivial bool
		wantConf       Confidence
	}{
		{
			name:           "Empty caption",
			caption:        "",
			wantNonTrivial: false,
			wantConf:       ConfidenceHigh,
		},
		{
			name:           "Short caption",
			caption:        "Too short",
			wantNonTrivial: false,
			wantConf:       ConfidenceHigh,
		},
		{
			name:           "Whitespace only",
			caption:        "   \n\t  ",
			wantNonTrivial: false,
			wantConf:       ConfidenceHigh,
		},
		{
			name:           "Sufficient caption with cooking vocabulary",
			caption:        "To make this cake, mix flour and sugar, then bake for 30 minutes.",
			wantNonTrivial: true,
			wantConf:       ConfidenceHigh,
		},
		{
			name:           "Sufficient caption with units only",
			caption:        "1 cup of something special went into this bowl today, believe it or not.",
			wantNonTrivial: true,
			wantConf:       ConfidenceHigh,
		},
		{
			name:           "Sufficient caption without cooking vocabulary",
			caption:        "What a wonderful sunny day at the beach with all my friends and family!",
			wantNonTrivial: true,
			wantConf:       ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuickValidate(tt.caption, rules)
			if got.NonTrivial != tt.wantNonTrivial {
				t.Errorf("NonTrivial = %v, want %v (reason: %s)", got.NonTrivial, tt.wantNonTrivial, got.Reason)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %s, want %s", got.Confidence, tt.wantConf)
			}
			if got.Reason == "" {
				t.Error("expected a non-empty reason")
			}
		})
	}
}

func TestQuickValidateTurkish(t *testing.T) {
	rules := lang.Get("tr")

	got := QuickValidate("Unu ve şekeri karıştırın, sonra 30 dakika pişirin. Afiyet olsun!", rules)
	if !got.NonTrivial {
		t.Fatalf("expected non-trivial caption, got reason: %s", got.Reason)
	}
	if got.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %s, want %s", got.Confidence, ConfidenceHigh)
	}
}
