package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-genie/server/internal/agent/model"
)

func TestParseIntent_Tuples(t *testing.T) {
	content := "(intent<||>find_recipe<||>0.91)##" +
		"(slot<||>ingredients<||>chickpeas, spinach , )##" +
		"(slot<||>cuisine<||>indian)##" +
		"(slot<||>diet<||>vegan)##" +
		"(slot<||>max_calories<||>600)" +
		"<|COMPLETE|>"

	got, err := ParseIntent(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionFindRecipe, got.Action)
	assert.InDelta(t, 0.91, got.Confidence, 1e-9)
	assert.Equal(t, []string{"chickpeas", "spinach"}, got.Slots.Ingredients)
	assert.Equal(t, "indian", got.Slots.Cuisine)
	assert.Equal(t, []string{"vegan"}, got.Slots.DietaryRestrictions)
	assert.Equal(t, 600, got.Slots.MaxCalories)
	assert.NotContains(t, got.ParsingMetadata, "parsing_errors")
}

func TestParseIntent_HighestConfidenceWins(t *testing.T) {
	content := "(intent<||>recipe_details<||>0.4)##(intent<||>analyze_nutrition<||>0.8)##(slot<||>food<||>2 eggs and toast)"

	got, err := ParseIntent(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionAnalyzeNutrition, got.Action)
	assert.Equal(t, "2 eggs and toast", got.Slots.FoodDescription)
}

func TestParseIntent_SlotValueMayContainDelimiter(t *testing.T) {
	got, err := ParseIntent("(intent<||>recipe_details)##(slot<||>recipe_title<||>mac <||> cheese)")
	require.NoError(t, err)
	assert.Equal(t, model.ActionRecipeDetails, got.Action)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, "mac <||> cheese", got.Slots.RecipeTitle)
}

func TestParseIntent_FallbackScan(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    model.Action
	}{
		{"bare label", "recipe_details", model.ActionRecipeDetails},
		{"label in prose", "The intent is: ANALYZE_NUTRITION.", model.ActionAnalyzeNutrition},
		{"first in scan order wins", "analyze_nutrition or find_recipe", model.ActionFindRecipe},
		{"nothing", "I am not sure what you mean", model.ActionNone},
		{"empty", "", model.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntent(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Action)
			if tt.want != model.ActionNone {
				assert.Equal(t, true, got.ParsingMetadata["fallback_scan"])
			}
		})
	}
}

func TestParseIntent_RecordsErrors(t *testing.T) {
	content := "(intent<||>order_pizza<||>0.9)##" +
		"(intent<||>find_recipe<||>1.7)##" +
		"(slot<||>colour<||>red)##" +
		"(slot<||>max_calories<||>lots)##" +
		"garbage##" +
		"(mood<||>happy)"

	got, err := ParseIntent(content)
	require.NoError(t, err)

	errs, ok := got.ParsingMetadata["parsing_errors"].([]string)
	require.True(t, ok)
	assert.Len(t, errs, 6)
	// the out-of-range tuple is dropped, but the raw text still names a label
	assert.Equal(t, model.ActionFindRecipe, got.Action)
	assert.Equal(t, true, got.ParsingMetadata["fallback_scan"])
}

func TestParseIntent_IgnoresAfterComplete(t *testing.T) {
	got, err := ParseIntent("(intent<||>recipe_details<||>0.7)<|COMPLETE|>(intent<||>find_recipe<||>0.99)")
	require.NoError(t, err)
	assert.Equal(t, model.ActionRecipeDetails, got.Action)
}

func TestParseIntent_NoneValuesIgnored(t *testing.T) {
	got, err := ParseIntent("(intent<||>find_recipe<||>0.6)##(slot<||>cuisine<||>none)##(slot<||>dish<||>null)")
	require.NoError(t, err)
	assert.Empty(t, got.Slots.Cuisine)
	assert.Empty(t, got.Slots.Dish)
}

func TestParseIntent_Limits(t *testing.T) {
	big := strings.Repeat("(slot<||>dish<||>soup)##", maxRecords+10)
	got, err := ParseIntent(big)
	require.NoError(t, err)
	assert.Equal(t, true, got.ParsingMetadata["records_capped"])

	huge := strings.Repeat("x", maxContentLen+10)
	got, err = ParseIntent(huge)
	require.NoError(t, err)
	assert.Equal(t, true, got.ParsingMetadata["truncated"])
}

func TestParseIntent_InvalidUTF8(t *testing.T) {
	got, err := ParseIntent("(intent<||>find_recipe<||>0.5)\xff")
	require.NoError(t, err)
	assert.Equal(t, model.ActionFindRecipe, got.Action)
	assert.Contains(t, got.ParsingMetadata["parsing_errors"], "invalid utf8 replaced")
}
