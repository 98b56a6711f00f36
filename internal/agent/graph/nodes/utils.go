package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/recipe-genie/server/internal/agent/model"
)

// TerminalNodes maps each routable action to the node that serves it.
var TerminalNodes = map[model.Action]string{
	model.ActionFindRecipe:       NodeFindRecipe,
	model.ActionRecipeDetails:    NodeRecipeDetails,
	model.ActionAnalyzeNutrition: NodeAnalyzeNutrition,
}

// ===== Small helpers to keep handlers simple/readable =====
// nodeForAction returns the terminal node for action, or fallback when the
// action is not routable.
func nodeForAction(action model.Action, fallback string) string {
	if n, ok := TerminalNodes[action]; ok {
		return n
	}
	return fallback
}

// readSlots copies the cycle's slots out of graph state.
func readSlots(ctx context.Context) (model.Slots, error) {
	var slots model.Slots
	err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
		slots = s.Slots
		return nil
	})
	if err != nil {
		return model.Slots{}, fmt.Errorf("failed to access state: %w", err)
	}
	return slots, nil
}
