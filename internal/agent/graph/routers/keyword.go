package routers

import (
	"strings"
	"unicode/utf8"

	"github.com/recipe-genie/server/internal/agent/model"
)

const (
	howToMakePrefix = "how to make"
	analyzePrefix   = "analyze"
	nutritionWord   = "nutrition"
)

// MatchKeywordRoute applies the deterministic rules that run before the
// classifier. Order matters: an ingredients list always means a recipe search.
func MatchKeywordRoute(slots model.Slots) (model.Action, bool) {
	if len(slots.Ingredients) > 0 {
		return model.ActionFindRecipe, true
	}
	q := normalize(slots.Query)
	switch {
	case strings.HasPrefix(q, howToMakePrefix):
		return model.ActionRecipeDetails, true
	case strings.HasPrefix(q, analyzePrefix), strings.Contains(q, nutritionWord):
		return model.ActionAnalyzeNutrition, true
	}
	return model.ActionNone, false
}

// RecipeTitle returns the recipe a details request is about: an extracted
// title wins, then the text after "how to make", then the raw query.
func RecipeTitle(slots model.Slots) string {
	if t := strings.TrimSpace(slots.RecipeTitle); t != "" {
		return t
	}
	q, _ := cutPrefixFold(strings.TrimSpace(slots.Query), howToMakePrefix)
	return trimPunctuation(q)
}

// NutritionText returns what should be sent to the nutrition database.
func NutritionText(slots model.Slots) string {
	if t := strings.TrimSpace(slots.FoodDescription); t != "" {
		return t
	}
	q := strings.TrimSpace(slots.Query)
	for _, prefix := range []string{"analyze the nutrition of", "analyze nutrition of", "analyze nutrition for", "analyze"} {
		if rest, ok := cutPrefixFold(q, prefix); ok {
			q = rest
			break
		}
	}
	q = strings.TrimLeft(strings.TrimSpace(q), ":")
	return trimPunctuation(q)
}

// RecipeSearchTerm is the free-text part of a recipe search. Only an
// extracted dish qualifies; a raw chat sentence is a poor search term.
func RecipeSearchTerm(slots model.Slots) string {
	return strings.TrimSpace(slots.Dish)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cutPrefixFold removes prefix from s under Unicode case folding. It walks s
// rune by rune, so the cut always lands on a rune boundary even when a rune
// and its folded form differ in byte length.
func cutPrefixFold(s, prefix string) (string, bool) {
	n := 0
	for _, want := range prefix {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || !strings.EqualFold(string(r), string(want)) {
			return s, false
		}
		n += size
	}
	return s[n:], true
}

func trimPunctuation(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "?!."))
}
