package tools

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/recipe-genie/server/internal/agent/model"
	logx "github.com/recipe-genie/server/pkg/logger"
	"github.com/recipe-genie/server/pkg/nutritionix"
	"github.com/recipe-genie/server/pkg/spoonacular"
	"github.com/recipe-genie/server/pkg/tavily"
)

// APIConfig groups the env-bound settings of every external lookup.
type APIConfig struct {
	Recipes   model.RecipeAPIConfig
	Search    model.SearchAPIConfig
	Nutrition model.NutritionAPIConfig
	Lookup    model.LookupConfig
}

// NewLookupToolsFromConfig builds the API clients that have credentials and
// wraps them in LookupTools. Each API gets its own limiter so one quota does
// not starve the others.
func NewLookupToolsFromConfig(cfg APIConfig) *LookupTools {
	hc := &http.Client{Timeout: cfg.Lookup.Timeout}
	lc := LookupConfig{
		RecipeResults:    cfg.Recipes.Results,
		SearchMaxResults: cfg.Search.MaxResults,
		CacheSize:        cfg.Lookup.CacheSize,
		CacheTTL:         cfg.Lookup.CacheTTL,
		Timeout:          cfg.Lookup.Timeout,
	}

	if c, err := spoonacular.New(cfg.Recipes.APIKey); err == nil {
		lc.Recipes = c.WithBaseURL(cfg.Recipes.BaseURL).WithHTTPClient(hc).WithLimiter(newLimiter(cfg.Lookup.RatePerMinute))
	} else {
		logx.Warn().Err(err).Msg("recipe search disabled")
	}

	if c, err := tavily.New(cfg.Search.APIKey); err == nil {
		lc.Search = c.WithBaseURL(cfg.Search.BaseURL).WithHTTPClient(hc).WithLimiter(newLimiter(cfg.Lookup.RatePerMinute))
	} else {
		logx.Warn().Err(err).Msg("recipe details search disabled")
	}

	if c, err := nutritionix.New(cfg.Nutrition.AppID, cfg.Nutrition.AppKey); err == nil {
		lc.Nutrition = c.WithBaseURL(cfg.Nutrition.BaseURL).WithHTTPClient(hc).WithLimiter(newLimiter(cfg.Lookup.RatePerMinute))
	} else {
		logx.Warn().Err(err).Msg("nutrition analysis disabled")
	}

	return NewLookupTools(lc)
}

// newLimiter converts a per-minute budget into a token bucket. A non-positive
// budget disables limiting.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
}
