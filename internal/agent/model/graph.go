package model

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
type AppState struct {
	ConversationID string
	Query          string // user turn, stored once the cycle succeeds
	Slots          Slots
	History        []*schema.Message // truncated window used for classification
	Greeting       string            // set only on the first cycle of a conversation

	Action       Action
	ActionSource RouteSource
	Intent       *Intent // set when the classifier ran

	// Result slots; written by exactly one terminal node per cycle.
	RecipeMatches []string
	RecipeDetails *RecipeDetails
	NutritionInfo *NutritionInfo
	completedBy   Action

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// Reset prepares the state for a new cycle.
func (s *AppState) Reset(in QueryInput) {
	*s = AppState{
		ConversationID: in.ConversationID,
		Query:          in.Query,
		Slots:          in.Slots(),
	}
}

// Route records the action chosen for this cycle.
func (s *AppState) Route(action Action, source RouteSource) {
	s.Action = action
	s.ActionSource = source
}

// Complete marks the result slots as owned by action. A second terminal in the
// same cycle is rejected.
func (s *AppState) Complete(action Action) error {
	if s.completedBy != ActionNone {
		return fmt.Errorf("result slots already populated by %s, refusing %s", s.completedBy, action)
	}
	s.completedBy = action
	return nil
}

// CompletedBy returns the terminal action that populated the result slots.
func (s *AppState) CompletedBy() Action {
	return s.completedBy
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID      string   `json:"conversation_id"`
	Query               string   `json:"query"`
	Cuisine             string   `json:"cuisine,omitempty"`
	Ingredients         []string `json:"ingredients,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	MealType            string   `json:"meal_type,omitempty"`
	MaxCalories         int      `json:"max_calories,omitempty"`
}

// Slots converts caller input into user-supplied slots.
func (in QueryInput) Slots() Slots {
	return Slots{
		Query:               in.Query,
		Cuisine:             in.Cuisine,
		Ingredients:         cleanList(in.Ingredients),
		DietaryRestrictions: cleanList(in.DietaryRestrictions),
		MealType:            in.MealType,
		MaxCalories:         in.MaxCalories,
	}
}

// Reply is the outcome of one cycle.
type Reply struct {
	ConversationID string         `json:"conversation_id"`
	Action         Action         `json:"action"`
	Source         RouteSource    `json:"source"`
	Greeting       string         `json:"greeting,omitempty"`
	Content        string         `json:"content"`
	RecipeMatches  []string       `json:"recipe_matches,omitempty"`
	RecipeDetails  *RecipeDetails `json:"recipe_details,omitempty"`
	NutritionInfo  *NutritionInfo `json:"nutrition_info,omitempty"`
	CostUSD        float64        `json:"cost_usd"`
}
