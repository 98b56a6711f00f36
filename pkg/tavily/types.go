package tavily

// SearchRequest is the /search request body.
type SearchRequest struct {
	Query       string `json:"query"`
	Topic       string `json:"topic,omitempty"`
	SearchDepth string `json:"search_depth,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

// SearchResponse is the /search response body.
type SearchResponse struct {
	Query        string   `json:"query"`
	Results      []Result `json:"results"`
	ResponseTime float64  `json:"response_time"`
}

// Result is one web search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// ErrorResponse is returned by the API on failures.
type ErrorResponse struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}
