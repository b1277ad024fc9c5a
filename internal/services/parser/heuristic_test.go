package parser

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/scraper"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
}

func testHeuristic() *Heuristic {
	return NewHeuristic(Options{Now: fixedNow})
}

func sourcePost(caption string) *scraper.SourcePost {
	return &scraper.SourcePost{
		Platform: recipe.PlatformInstagram,
		URL:      "https://www.instagram.com/p/abc123/",
		Caption:  caption,
	}
}

func TestHeuristicParseFullCaption(t *testing.T) {
	caption := "Chocolate Mug Cake\n" +
		"\n" +
		"Ingredients:\n" +
		"3 eggs\n" +
		"1 cup sugar\n" +
		"2 cups flour\n" +
		"\n" +
		"Instructions:\n" +
		"Mix eggs and sugar until pale. Fold in the flour and bake for 50 minutes.\n" +
		"\n" +
		"Serves 4\n" +
		"Prep time: 10 minutes\n" +
		"#easy #baking"

	r, err := testHeuristic().Parse(context.Background(), sourcePost(caption), "en")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if r.Title != "Chocolate Mug Cake" {
		t.Errorf("Title = %q", r.Title)
	}

	wantIngredients := []recipe.Ingredient{
		{Item: "eggs", Amount: "3"},
		{Item: "sugar", Amount: "1", Unit: "cup"},
		{Item: "flour", Amount: "2", Unit: "cup"},
	}
	if len(r.Ingredients) != len(wantIngredients) {
		t.Fatalf("got %d ingredients, want %d: %#v", len(r.Ingredients), len(wantIngredients), r.Ingredients)
	}
	for i, want := range wantIngredients {
		if r.Ingredients[i] != want {
			t.Errorf("Ingredients[%d] = %#v, want %#v", i, r.Ingredients[i], want)
		}
	}

	if len(r.Steps) != 2 {
		t.Fatalf("got %d steps, want 2: %#v", len(r.Steps), r.Steps)
	}
	if r.Steps[0].Order != 1 || r.Steps[0].Text != "Mix eggs and sugar until pale." {
		t.Errorf("Steps[0] = %#v", r.Steps[0])
	}
	if r.Steps[1].Order != 2 || r.Steps[1].Duration != "50 minutes" {
		t.Errorf("Steps[1] = %#v", r.Steps[1])
	}

	if r.TotalDuration != "50 minutes" {
		t.Errorf("TotalDuration = %q", r.TotalDuration)
	}
	if r.PrepTime != "10 minutes" {
		t.Errorf("PrepTime = %q", r.PrepTime)
	}
	if r.CookTime != "" {
		t.Errorf("CookTime = %q, want empty", r.CookTime)
	}
	if r.Servings != "Serves 4" {
		t.Errorf("Servings = %q", r.Servings)
	}
	if r.Difficulty != recipe.DifficultyEasy || r.DifficultyLabel != "Easy" {
		t.Errorf("Difficulty = %v / %q", r.Difficulty, r.DifficultyLabel)
	}
	if len(r.Hashtags) != 2 || r.Hashtags[0] != "easy" || r.Hashtags[1] != "baking" {
		t.Errorf("Hashtags = %#v", r.Hashtags)
	}
	if r.Language != "en" {
		t.Errorf("Language = %q", r.Language)
	}
	if !r.CreatedAt.Equal(fixedNow()) {
		t.Errorf("CreatedAt = %v", r.CreatedAt)
	}
}

func TestHeuristicParseExplicitNumbering(t *testing.T) {
	caption := "Step 2: Whisk the eggs with the sugar\n" +
		"stir in the melted butter without numbering\n" +
		"Step 5: Bake until golden for 25 minutes"

	r, err := testHeuristic().Parse(context.Background(), sourcePost(caption), "en")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	// Explicit source numbering is kept exactly; unnumbered lines in a
	// numbered caption are dropped rather than interleaved.
	if len(r.Steps) != 2 {
		t.Fatalf("got %d steps, want 2: %#v", len(r.Steps), r.Steps)
	}
	if r.Steps[0].Order != 2 || r.Steps[0].Text != "Whisk the eggs with the sugar" {
		t.Errorf("Steps[0] = %#v", r.Steps[0])
	}
	if r.Steps[1].Order != 5 || r.Steps[1].Duration != "25 minutes" {
		t.Errorf("Steps[1] = %#v", r.Steps[1])
	}
}

func TestHeuristicParseEmptyExtraction(t *testing.T) {
	_, err := testHeuristic().Parse(context.Background(), sourcePost("beautiful sunset #nofilter"), "en")
	if !errors.Is(err, ErrEmptyExtraction) {
		t.Fatalf("err = %v, want ErrEmptyExtraction", err)
	}
}

func TestHeuristicParseStepTips(t *testing.T) {
	caption := "Quick garlic bread for tonight\n" +
		"2 cloves garlic\n" +
		"Bake for 20 minutes (do not open the oven door)."

	r, err := testHeuristic().Parse(context.Background(), sourcePost(caption), "en")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(r.Steps) != 1 {
		t.Fatalf("got %d steps: %#v", len(r.Steps), r.Steps)
	}
	if r.Steps[0].Tip != "do not open the oven door" {
		t.Errorf("Tip = %q", r.Steps[0].Tip)
	}
	if len(r.Tips) != 1 || r.Tips[0] != "do not open the oven door" {
		t.Errorf("Tips = %#v", r.Tips)
	}
}

func TestHeuristicParseTurkish(t *testing.T) {
	caption := "Malzemeler:\n" +
		"2 su bardağı un\n" +
		"1 çay kaşığı tuz\n" +
		"Yapılışı:\n" +
		"Unu ve tuzu karıştırın. Sonra 30 dakika pişirin."

	r, err := testHeuristic().Parse(context.Background(), sourcePost(caption), "tr")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	wantIngredients := []recipe.Ingredient{
		{Item: "un", Amount: "2", Unit: "su bardağı"},
		{Item: "tuz", Amount: "1", Unit: "çay kaşığı"},
	}
	if len(r.Ingredients) != len(wantIngredients) {
		t.Fatalf("got %d ingredients: %#v", len(r.Ingredients), r.Ingredients)
	}
	for i, want := range wantIngredients {
		if r.Ingredients[i] != want {
			t.Errorf("Ingredients[%d] = %#v, want %#v", i, r.Ingredients[i], want)
		}
	}

	if len(r.Steps) != 2 {
		t.Fatalf("got %d steps: %#v", len(r.Steps), r.Steps)
	}
	if r.Steps[1].Duration != "30 dakika" {
		t.Errorf("Steps[1].Duration = %q", r.Steps[1].Duration)
	}
	if r.Language != "tr" {
		t.Errorf("Language = %q", r.Language)
	}
	if r.DifficultyLabel != "Orta" {
		t.Errorf("DifficultyLabel = %q", r.DifficultyLabel)
	}
}

func TestHeuristicParseDeterministic(t *testing.T) {
	caption := "Creamy tomato pasta\n" +
		"Ingredients:\n" +
		"200 g pasta\n" +
		"1 can tomatoes\n" +
		"Instructions:\n" +
		"Boil the pasta. Simmer the tomatoes for 10 minutes. Combine and serve."

	h := testHeuristic()
	first, err := h.Parse(context.Background(), sourcePost(caption), "en")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	second, err := h.Parse(context.Background(), sourcePost(caption), "en")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("repeated parse differs:\n%s\n%s", a, b)
	}
}
