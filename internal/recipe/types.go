package recipe

import "time"

// Platform identifies the social platform a recipe was extracted from.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

// Strategy identifies which parsing strategy produced a recipe.
type Strategy string

const (
	StrategyHeuristic  Strategy = "heuristic"
	StrategyAIAssisted Strategy = "ai-assisted"
)

// Difficulty is the canonical difficulty token. The localized label lives
// next to it on the Recipe so clients never need the language tables.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Ingredient is one ingredient line. Amount is a normalized numeric or range
// string ("3", "1/2", "2-3") and may be empty together with Unit when no
// quantity was detected. Slice order is the original listing order.
type Ingredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// Step is one instruction. Order is 1-based and contiguous within a recipe.
type Step struct {
	Order    int    `json:"order"`
	Text     string `json:"text"`
	Duration string `json:"duration,omitempty"`
	Tip      string `json:"tip,omitempty"`
}

// Recipe is the structured extraction of one caption, rendered in exactly one
// language. Translations of the same post are distinct Recipe values.
type Recipe struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`

	TotalDuration string `json:"total_duration,omitempty"`
	PrepTime      string `json:"prep_time,omitempty"`
	CookTime      string `json:"cook_time,omitempty"`

	Difficulty      Difficulty `json:"difficulty,omitempty"`
	DifficultyLabel string     `json:"difficulty_label,omitempty"`
	Servings        string     `json:"servings,omitempty"`
	Calories        string     `json:"calories,omitempty"`
	Tips            []string   `json:"tips,omitempty"`

	SourcePlatform Platform `json:"source_platform"`
	SourceURL      string   `json:"source_url"`
	VideoDuration  *float64 `json:"video_duration,omitempty"`
	ThumbnailURL   string   `json:"thumbnail_url,omitempty"`
	AuthorUsername string   `json:"author_username,omitempty"`
	AuthorName     string   `json:"author_name,omitempty"`
	Likes          *int     `json:"likes,omitempty"`
	Comments       *int     `json:"comments,omitempty"`
	Hashtags       []string `json:"hashtags,omitempty"`

	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// IsEmpty reports whether the extraction produced neither ingredients nor steps.
func (r *Recipe) IsEmpty() bool {
	return r == nil || (len(r.Ingredients) == 0 && len(r.Steps) == 0)
}

// RenumberSteps assigns contiguous 1-based order values preserving the
// current slice order and dropping steps whose text is blank.
func RenumberSteps(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if isBlank(s.Text) {
			continue
		}
		s.Order = len(out) + 1
		out = append(out, s)
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
