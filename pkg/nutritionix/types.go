package nutritionix

// NutrientsRequest is the natural/nutrients request body.
type NutrientsRequest struct {
	Query string `json:"query"`
}

// NutrientsResponse is the natural/nutrients response body.
type NutrientsResponse struct {
	Foods []Food `json:"foods"`
}

// Food is one parsed food with its nutrient facts.
type Food struct {
	FoodName           string  `json:"food_name"`
	ServingQty         float64 `json:"serving_qty"`
	ServingUnit        string  `json:"serving_unit"`
	ServingWeightGrams float64 `json:"serving_weight_grams"`
	Calories           float64 `json:"nf_calories"`
	TotalFat           float64 `json:"nf_total_fat"`
	SaturatedFat       float64 `json:"nf_saturated_fat"`
	Cholesterol        float64 `json:"nf_cholesterol"`
	Sodium             float64 `json:"nf_sodium"`
	TotalCarbohydrate  float64 `json:"nf_total_carbohydrate"`
	DietaryFiber       float64 `json:"nf_dietary_fiber"`
	Protein            float64 `json:"nf_protein"`
}

// ErrorResponse is returned by the API on failures.
type ErrorResponse struct {
	Message string `json:"message"`
}
