package recipe

import (
	"fmt"
	"strings"
)

// ValidationError describes why a candidate recipe payload was rejected.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recipe payload, missing: %s", strings.Join(e.Missing, ", "))
}

// Validate checks that a candidate Recipe (typically an AI structuring
// response) carries every required field. nonTrivialSource indicates the raw
// caption contained enough material that empty ingredient/step collections
// mean the structuring failed rather than the post simply having none.
func Validate(r *Recipe, nonTrivialSource bool) error {
	var missing []string

	if r == nil {
		return &ValidationError{Missing: []string{"recipe"}}
	}
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if r.Language == "" {
		missing = append(missing, "language")
	}
	if nonTrivialSource {
		if len(r.Ingredients) == 0 {
			missing = append(missing, "ingredients")
		}
		if len(r.Steps) == 0 {
			missing = append(missing, "steps")
		}
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Item) == "" {
			missing = append(missing, fmt.Sprintf("ingredients[%d].item", i))
		}
	}
	for i, st := range r.Steps {
		if strings.TrimSpace(st.Text) == "" {
			missing = append(missing, fmt.Sprintf("steps[%d].text", i))
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
