package spoonacular

// SearchRequest maps to the complexSearch query parameters.
type SearchRequest struct {
	Query              string
	IncludeIngredients []string
	Cuisine            string
	Type               string
	Diet               []string
	MaxCalories        int
	Number             int
}

// SearchResponse is the complexSearch response body.
type SearchResponse struct {
	Results      []Recipe `json:"results"`
	Offset       int      `json:"offset"`
	Number       int      `json:"number"`
	TotalResults int      `json:"totalResults"`
}

// Recipe is one search hit.
type Recipe struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	ImageType string `json:"imageType"`
}

// ErrorResponse is returned by the API on failures.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}
