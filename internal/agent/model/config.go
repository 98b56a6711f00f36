package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL             time.Duration `envconfig:"CONVERSATION_TTL" default:"30m"`
	HistoryMaxTurns int           `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"5"`
	MaxStored       int           `envconfig:"CONVERSATION_MAX_STORED" default:"100"`
	MaxInMemory     int           `envconfig:"CONVERSATION_MAX_IN_MEMORY" default:"10000"` // in-memory store only
}

type ClassifierModelConfig struct {
	Provider    string  `envconfig:"LLM_PROVIDER" default:"gemini"`
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"512"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0"`
}

type RecipeAPIConfig struct {
	APIKey  string `envconfig:"SPOONACULAR_API_KEY"`
	BaseURL string `envconfig:"SPOONACULAR_BASE_URL" default:"https://api.spoonacular.com"`
	Results int    `envconfig:"RECIPE_RESULTS" default:"5"`
}

type SearchAPIConfig struct {
	APIKey     string `envconfig:"TAVILY_API_KEY"`
	BaseURL    string `envconfig:"TAVILY_BASE_URL" default:"https://api.tavily.com"`
	MaxResults int    `envconfig:"TAVILY_MAX_RESULTS" default:"3"`
}

type NutritionAPIConfig struct {
	AppID   string `envconfig:"NUTRITIONIX_APP_ID"`
	AppKey  string `envconfig:"NUTRITIONIX_APP_KEY"`
	BaseURL string `envconfig:"NUTRITIONIX_BASE_URL" default:"https://trackapi.nutritionix.com"`
}

type LookupConfig struct {
	CacheSize     int           `envconfig:"LOOKUP_CACHE_SIZE" default:"256"`
	CacheTTL      time.Duration `envconfig:"LOOKUP_CACHE_TTL" default:"10m"`
	RatePerMinute int           `envconfig:"LOOKUP_RATE_PER_MINUTE" default:"60"`
	Timeout       time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"15s"`
}
