package routers

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-genie/server/internal/agent/model"
)

func TestMatchKeywordRoute(t *testing.T) {
	tests := []struct {
		name   string
		slots  model.Slots
		want   model.Action
		wantOK bool
	}{
		{"ingredients win over query", model.Slots{Query: "how to make pancakes", Ingredients: []string{"flour"}}, model.ActionFindRecipe, true},
		{"how to make prefix", model.Slots{Query: "  How to make Pad Thai?"}, model.ActionRecipeDetails, true},
		{"how to make must be a prefix", model.Slots{Query: "tell me how to make risotto"}, model.ActionNone, false},
		{"analyze prefix", model.Slots{Query: "Analyze 2 eggs and toast"}, model.ActionAnalyzeNutrition, true},
		{"nutrition anywhere", model.Slots{Query: "what's the nutrition in a banana"}, model.ActionAnalyzeNutrition, true},
		{"no rule", model.Slots{Query: "Can you find me a vegan curry recipe?"}, model.ActionNone, false},
		{"empty", model.Slots{}, model.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchKeywordRoute(tt.slots)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRecipeTitle(t *testing.T) {
	assert.Equal(t, "Pad Thai", RecipeTitle(model.Slots{Query: "How to make Pad Thai?"}))
	assert.Equal(t, "lasagna", RecipeTitle(model.Slots{Query: "how to make lasagna", RecipeTitle: "lasagna"}))
	assert.Equal(t, "Beef Wellington", RecipeTitle(model.Slots{Query: "show me", RecipeTitle: " Beef Wellington "}))
	assert.Equal(t, "", RecipeTitle(model.Slots{Query: "how to make ?"}))
}

func TestPrefixCutKeepsRunesIntact(t *testing.T) {
	// U+212A KELVIN SIGN folds to "k" but is three bytes long
	slots := model.Slots{Query: "how to ma\u212Ae ramen"}
	action, ok := MatchKeywordRoute(slots)
	require.True(t, ok)
	assert.Equal(t, model.ActionRecipeDetails, action)

	title := RecipeTitle(slots)
	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, "ramen", title)

	text := NutritionText(model.Slots{Query: "AN\u212Alyze ramen"})
	assert.True(t, utf8.ValidString(text))
	assert.Equal(t, "AN\u212Alyze ramen", text, "no prefix matches")

	text = NutritionText(model.Slots{Query: "ANALYZE the nutrition of cr\u00e8me br\u00fbl\u00e9e"})
	assert.Equal(t, "cr\u00e8me br\u00fbl\u00e9e", text)

	rest, ok := cutPrefixFold("h\u00e9llo", "hello")
	assert.False(t, ok)
	assert.Equal(t, "h\u00e9llo", rest)
	rest, ok = cutPrefixFold("how", "how to make")
	assert.False(t, ok)
	assert.Equal(t, "how", rest)
}

func TestNutritionText(t *testing.T) {
	assert.Equal(t, "2 eggs and toast", NutritionText(model.Slots{Query: "Analyze: 2 eggs and toast."}))
	assert.Equal(t, "a big mac", NutritionText(model.Slots{Query: "analyze the nutrition of a big mac"}))
	assert.Equal(t, "nutrition facts for an apple", NutritionText(model.Slots{Query: "nutrition facts for an apple?"}))
	assert.Equal(t, "1 cup oats", NutritionText(model.Slots{Query: "whatever", FoodDescription: "1 cup oats"}))
	assert.Equal(t, "", NutritionText(model.Slots{Query: "analyze"}))
}

func TestRecipeSearchTerm(t *testing.T) {
	assert.Equal(t, "vegan curry", RecipeSearchTerm(model.Slots{Query: "find me a vegan curry", Dish: " vegan curry "}))
	assert.Equal(t, "", RecipeSearchTerm(model.Slots{Query: "find me a vegan curry"}))
}
