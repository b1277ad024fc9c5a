package lang

import (
	"regexp"

	"github.com/recipereel/colette/internal/recipe"
)

func init() {
	register(&Rules{
		Code: "en",

		Units: map[string]string{
			"cup": "cup", "cups": "cup",
			"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp", "tbs": "tbsp",
			"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp",
			"gram": "g", "grams": "g", "g": "g", "gr": "g",
			"kilogram": "kg", "kilograms": "kg", "kg": "kg",
			"milliliter": "ml", "milliliters": "ml", "ml": "ml",
			"liter": "l", "liters": "l", "litre": "l", "litres": "l", "l": "l",
			"ounce": "oz", "ounces": "oz", "oz": "oz",
			"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
			"pinch": "pinch", "pinches": "pinch",
			"clove": "clove", "cloves": "clove",
			"slice": "slice", "slices": "slice",
			"can": "can", "cans": "can",
			"packet": "packet", "packets": "packet", "pack": "packet",
			"piece": "piece", "pieces": "piece", "pcs": "piece",
			"stick": "stick", "sticks": "stick",
			"handful": "handful",
			"dash":    "dash",
		},

		NumberWords: map[string]string{
			"one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
			"six": "6", "seven": "7", "eight": "8", "nine": "9", "ten": "10",
			"a": "1", "an": "1",
			"half": "1/2", "quarter": "1/4", "dozen": "12",
		},

		IngredientHeadings: []string{
			"ingredients", "ingredient list", "what you need", "you will need", "you'll need", "shopping list",
		},
		StepHeadings: []string{
			"instructions", "steps", "directions", "method", "how to make it", "preparation", "how to",
		},

		ImperativeVerbs: []string{
			"mix", "stir", "whisk", "beat", "fold", "blend", "combine",
			"add", "pour", "place", "put", "transfer", "spread", "layer",
			"bake", "cook", "fry", "boil", "simmer", "grill", "roast", "saute", "sauté", "steam", "toast", "broil",
			"chop", "dice", "slice", "mince", "grate", "peel", "cut", "crush",
			"preheat", "heat", "warm", "melt", "cool", "chill", "freeze", "refrigerate",
			"knead", "rest", "proof", "marinate", "season", "sprinkle", "drizzle", "garnish",
			"serve", "top", "cover", "remove", "drain", "rinse", "wash", "flip", "repeat", "let", "set aside", "enjoy",
		},

		NoiseWords: []string{
			"follow", "subscribe", "like and", "link in bio", "comment below",
			"tag a friend", "share this", "save this", "dm me", "check out",
			"full recipe on", "turn on notifications", "giveaway",
		},

		DurationPattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:-\s*\d+\s*)?(minutes|minute|mins|min|hours|hour|hrs|hr|seconds|secs|sec)\b`),
		ServingsPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)serves\s*(\d+)`),
			regexp.MustCompile(`(?i)(\d+)\s*servings?`),
			regexp.MustCompile(`(?i)(\d+)\s*portions?`),
			regexp.MustCompile(`(?i)makes\s*(\d+)`),
		},
		PrepLabels:     []string{"prep time", "prep:", "preparation time"},
		CookLabels:     []string{"cook time", "cooking time", "bake time", "cook:"},
		CaloriePattern: regexp.MustCompile(`(?i)(\d+)\s*(?:k?cal|calories)\b`),

		EasyWords: []string{"easy", "simple", "quick", "beginner", "effortless", "no-fuss"},
		HardWords: []string{"hard", "difficult", "advanced", "challenging", "professional", "expert"},
		DifficultyLabels: map[recipe.Difficulty]string{
			recipe.DifficultyEasy:   "Easy",
			recipe.DifficultyMedium: "Medium",
			recipe.DifficultyHard:   "Hard",
		},

		SequenceMarkers: []string{
			"then", "after that", "afterwards", "next", "finally", "meanwhile", "once done", "lastly",
		},

		FallbackTitle: "Recipe",
		Messages: map[string]string{
			"SOURCE_UNAVAILABLE":     "The post could not be fetched from its platform.",
			"UNSTRUCTURABLE_CONTENT": "No recipe could be extracted from this caption.",
			"UNSUPPORTED_PLATFORM":   "Only Instagram, TikTok and YouTube links are supported.",
			"INVALID_URL":            "The URL is not a valid post link.",
			"RATE_LIMITED":           "The platform is rate limiting requests, try again shortly.",
			"INTERNAL":               "Something went wrong while extracting the recipe.",
		},
	})
}
