package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/recipe-genie/server/internal/agent/graph/parsers"
	"github.com/recipe-genie/server/internal/agent/model"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

// FormatClassifierMessages renders the classifier system prompt through the
// Eino prompt component (which emits prompt callbacks) and places the
// conversation window after it.
func FormatClassifierMessages(ctx context.Context, history []*schema.Message) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(classifierSystemPrompt),
		schema.MessagesPlaceholder("history", false),
	)
	vars := map[string]any{
		"FindRecipe":       string(model.ActionFindRecipe),
		"RecipeDetails":    string(model.ActionRecipeDetails),
		"AnalyzeNutrition": string(model.ActionAnalyzeNutrition),
		"Record":           parsers.Delimiters.Record,
		"Tuple":            parsers.Delimiters.Tuple,
		"Complete":         parsers.Delimiters.Complete,
		"history":          history,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("classifier prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil || msgs[0].Role != schema.System {
		return nil, fmt.Errorf("classifier prompt render: empty result")
	}
	return msgs, nil
}
