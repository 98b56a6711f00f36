package nodes

import (
	"fmt"
	"strings"

	"github.com/recipe-genie/server/internal/agent/model"
)

const (
	FallbackReply        = "Sorry, I couldn't figure out your intent. Could you please rephrase?"
	NoRecipesReply       = "😕 I couldn't find any recipes based on the given inputs. Could you try different ingredients?"
	MissingTitleReply    = "❗Please specify the recipe title you'd like instructions for."
	MissingFoodReply     = "❗Please describe the ingredients or dish for nutrition analysis."
	noDetailsReplyFormat = "😕 I couldn't find instructions for %q. Could you check the recipe name?"
	NoNutritionReply     = "😕 I couldn't match any foods in that description. Could you list the ingredients with quantities?"
)

func formatRecipeMatches(titles []string) string {
	if len(titles) == 0 {
		return NoRecipesReply
	}
	var b strings.Builder
	b.WriteString("👨‍🍳 Here are some recipes you might like:")
	for _, t := range titles {
		b.WriteString("\n- ")
		b.WriteString(t)
	}
	return b.String()
}

func formatRecipeDetails(title string, d *model.RecipeDetails) string {
	if d == nil {
		return fmt.Sprintf(noDetailsReplyFormat, title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Here's how to make %s:\n\n%s", d.Title, strings.TrimSpace(d.Instructions))
	if d.SourceURL != "" {
		fmt.Fprintf(&b, "\n\nSource: %s", d.SourceURL)
	}
	return b.String()
}

func formatNutrition(info *model.NutritionInfo) string {
	if info == nil || len(info.Foods) == 0 {
		return NoNutritionReply
	}
	var b strings.Builder
	b.WriteString("🧪 Nutrition Breakdown:\n")
	fmt.Fprintf(&b, "- Calories: %s kcal\n", formatAmount(info.Calories))
	fmt.Fprintf(&b, "- Protein: %s g\n", formatAmount(info.Protein))
	fmt.Fprintf(&b, "- Fat: %s g\n", formatAmount(info.Fat))
	fmt.Fprintf(&b, "- Carbs: %s g", formatAmount(info.Carbs))
	if len(info.Foods) > 1 {
		b.WriteString("\n\nPer food:")
		for _, f := range info.Foods {
			fmt.Fprintf(&b, "\n- %s %s %s: %s kcal", formatAmount(f.ServingQty), f.ServingUnit, f.Name, formatAmount(f.Calories))
		}
	}
	return b.String()
}

// formatAmount prints at most one decimal and drops a trailing ".0".
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
