package model

import "slices"

// RecipeQuery is the input of a recipe search.
type RecipeQuery struct {
	Query       string
	Ingredients []string
	Cuisine     string
	Diet        []string
	MealType    string
	MaxCalories int
	Number      int
}

// RecipeDetails is the best web search hit for a recipe title.
type RecipeDetails struct {
	Title        string  `json:"title"`
	Instructions string  `json:"instructions"`
	SourceURL    string  `json:"source_url,omitempty"`
	Score        float64 `json:"score"`
}

// Clone returns a copy that shares no memory with d.
func (d *RecipeDetails) Clone() *RecipeDetails {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// FoodNutrients is one food matched by the nutrition database.
type FoodNutrients struct {
	Name               string  `json:"name"`
	ServingQty         float64 `json:"serving_qty"`
	ServingUnit        string  `json:"serving_unit"`
	ServingWeightGrams float64 `json:"serving_weight_grams"`
	Calories           float64 `json:"calories"`
	Protein            float64 `json:"protein"`
	Fat                float64 `json:"fat"`
	SaturatedFat       float64 `json:"saturated_fat"`
	Cholesterol        float64 `json:"cholesterol"`
	Sodium             float64 `json:"sodium"`
	Carbs              float64 `json:"carbs"`
	Fiber              float64 `json:"fiber"`
}

// NutritionInfo totals the macro nutrients across all matched foods.
type NutritionInfo struct {
	Foods    []FoodNutrients `json:"foods"`
	Calories float64         `json:"calories"`
	Protein  float64         `json:"protein"`
	Fat      float64         `json:"fat"`
	Carbs    float64         `json:"carbs"`
}

// NewNutritionInfo sums foods into a NutritionInfo.
func NewNutritionInfo(foods []FoodNutrients) *NutritionInfo {
	info := &NutritionInfo{Foods: foods}
	for _, f := range foods {
		info.Calories += f.Calories
		info.Protein += f.Protein
		info.Fat += f.Fat
		info.Carbs += f.Carbs
	}
	return info
}

// Clone returns a deep copy of n.
func (n *NutritionInfo) Clone() *NutritionInfo {
	if n == nil {
		return nil
	}
	c := *n
	c.Foods = slices.Clone(n.Foods)
	return &c
}
