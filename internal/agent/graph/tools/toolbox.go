package tools

import (
	"context"

	"github.com/recipe-genie/server/internal/agent/model"
)

// Names of the terminal lookups as they appear in logs and cache keys.
const (
	ToolFindRecipe       = "find_recipe"
	ToolRecipeDetails    = "get_recipe_details"
	ToolAnalyzeNutrition = "analyze_nutrition"
)

// Toolbox is what the terminal nodes call. A nil result with a nil error means
// the lookup succeeded but found nothing.
type Toolbox interface {
	FindRecipes(ctx context.Context, q model.RecipeQuery) ([]string, error)
	RecipeDetails(ctx context.Context, title string) (*model.RecipeDetails, error)
	AnalyzeNutrition(ctx context.Context, description string) (*model.NutritionInfo, error)
}
