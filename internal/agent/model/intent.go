package model

import "strings"

// Action is a routing label produced by the keyword rules or the classifier.
type Action string

const (
	ActionNone             Action = ""
	ActionFindRecipe       Action = "find_recipe"
	ActionRecipeDetails    Action = "recipe_details"
	ActionAnalyzeNutrition Action = "analyze_nutrition"
	ActionFallback         Action = "fallback"
)

// TerminalActions lists the three lookups in the order the classifier output is scanned.
var TerminalActions = []Action{ActionFindRecipe, ActionRecipeDetails, ActionAnalyzeNutrition}

// ParseAction maps a label to a terminal action.
func ParseAction(label string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(label)))
	for _, known := range TerminalActions {
		if a == known {
			return a, true
		}
	}
	return ActionNone, false
}

// RouteSource records which stage picked the action.
type RouteSource string

const (
	SourceRule       RouteSource = "rule"
	SourceClassifier RouteSource = "classifier"
	SourceFallback   RouteSource = "fallback"
)

// Slots are the optional user-supplied (or classifier-extracted) inputs of a cycle.
type Slots struct {
	Query               string   `json:"query,omitempty"`
	Cuisine             string   `json:"cuisine,omitempty"`
	Ingredients         []string `json:"ingredients,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	MealType            string   `json:"meal_type,omitempty"`
	MaxCalories         int      `json:"max_calories,omitempty"`
	Dish                string   `json:"dish,omitempty"`
	RecipeTitle         string   `json:"recipe_title,omitempty"`
	FoodDescription     string   `json:"food_description,omitempty"`
}

// Fill copies every field of extracted into s that the caller left empty.
// Caller supplied values always win.
func (s *Slots) Fill(extracted Slots) {
	if s.Cuisine == "" {
		s.Cuisine = extracted.Cuisine
	}
	if len(s.Ingredients) == 0 {
		s.Ingredients = extracted.Ingredients
	}
	if len(s.DietaryRestrictions) == 0 {
		s.DietaryRestrictions = extracted.DietaryRestrictions
	}
	if s.MealType == "" {
		s.MealType = extracted.MealType
	}
	if s.MaxCalories == 0 {
		s.MaxCalories = extracted.MaxCalories
	}
	if s.Dish == "" {
		s.Dish = extracted.Dish
	}
	if s.RecipeTitle == "" {
		s.RecipeTitle = extracted.RecipeTitle
	}
	if s.FoodDescription == "" {
		s.FoodDescription = extracted.FoodDescription
	}
}

// Intent is the parsed classifier output.
type Intent struct {
	Action          Action         `json:"action"`
	Confidence      float64        `json:"confidence"`
	Slots           Slots          `json:"slots"`
	ParsingMetadata map[string]any `json:"parsing_metadata,omitempty"`
}

// SplitList splits a comma separated value into trimmed, non-empty items.
func SplitList(v string) []string {
	return cleanList(strings.Split(v, ","))
}

func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, item := range in {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
