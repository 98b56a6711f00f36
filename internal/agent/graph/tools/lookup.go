package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
	logx "github.com/recipe-genie/server/pkg/logger"
	"github.com/recipe-genie/server/pkg/nutritionix"
	"github.com/recipe-genie/server/pkg/spoonacular"
	"github.com/recipe-genie/server/pkg/tavily"
)

const (
	defaultRecipeResults = 5
	maxRecipeResults     = 20
	recipeDetailsPrompt  = "Find detailed instruction for the recipe: %s"
)

// RecipeSearcher is implemented by *spoonacular.Client.
type RecipeSearcher interface {
	SearchRecipes(ctx context.Context, req spoonacular.SearchRequest) (*spoonacular.SearchResponse, error)
}

// WebSearcher is implemented by *tavily.Client.
type WebSearcher interface {
	Search(ctx context.Context, req tavily.SearchRequest) (*tavily.SearchResponse, error)
}

// NutrientAnalyzer is implemented by *nutritionix.Client.
type NutrientAnalyzer interface {
	Nutrients(ctx context.Context, query string) (*nutritionix.NutrientsResponse, error)
}

// LookupConfig wires the external clients. Nil clients make the matching
// lookup fail with a 503 so the rest of the assistant keeps working.
type LookupConfig struct {
	Recipes          RecipeSearcher
	Search           WebSearcher
	Nutrition        NutrientAnalyzer
	RecipeResults    int
	SearchMaxResults int
	CacheSize        int
	CacheTTL         time.Duration
	Timeout          time.Duration
}

// LookupTools implements Toolbox over the recipe, web search and nutrition APIs.
type LookupTools struct {
	recipes          RecipeSearcher
	search           WebSearcher
	nutrition        NutrientAnalyzer
	recipeResults    int
	searchMaxResults int
	timeout          time.Duration
	cache            *expirable.LRU[string, any]
}

func NewLookupTools(cfg LookupConfig) *LookupTools {
	lt := &LookupTools{
		recipes:          cfg.Recipes,
		search:           cfg.Search,
		nutrition:        cfg.Nutrition,
		recipeResults:    clampInt(cfg.RecipeResults, 1, maxRecipeResults),
		searchMaxResults: cfg.SearchMaxResults,
		timeout:          cfg.Timeout,
	}
	if cfg.RecipeResults <= 0 {
		lt.recipeResults = defaultRecipeResults
	}
	if cfg.CacheSize > 0 {
		lt.cache = expirable.NewLRU[string, any](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return lt
}

func (lt *LookupTools) FindRecipes(ctx context.Context, q model.RecipeQuery) ([]string, error) {
	q = sanitizeRecipeQuery(q, lt.recipeResults)
	// same guard as the search endpoint: nothing to search for yields no matches
	if q.Query == "" && len(q.Ingredients) == 0 {
		return nil, nil
	}
	if lt.recipes == nil {
		return nil, notConfigured(errx.ServiceRecipes)
	}

	key := recipeCacheKey(q)
	if v, ok := lt.cached(key); ok {
		return slices.Clone(v.([]string)), nil
	}

	ctx, cancel := lt.withTimeout(ctx)
	defer cancel()

	resp, err := lt.recipes.SearchRecipes(ctx, spoonacular.SearchRequest{
		Query:              q.Query,
		IncludeIngredients: q.Ingredients,
		Cuisine:            q.Cuisine,
		Type:               q.MealType,
		Diet:               q.Diet,
		MaxCalories:        q.MaxCalories,
		Number:             q.Number,
	})
	if err != nil {
		logx.Error().Err(err).Str("tool", ToolFindRecipe).Msg("recipe search failed")
		return nil, errx.WrapUpstream(errx.ServiceRecipes, err)
	}

	titles := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if t := strings.TrimSpace(r.Title); t != "" {
			titles = append(titles, t)
		}
	}
	logx.Debug().Str("tool", ToolFindRecipe).Int("found", len(titles)).Msg("recipe search done")

	lt.store(key, slices.Clone(titles))
	return titles, nil
}

func (lt *LookupTools) RecipeDetails(ctx context.Context, title string) (*model.RecipeDetails, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	if lt.search == nil {
		return nil, notConfigured(errx.ServiceSearch)
	}

	key := ToolRecipeDetails + "|" + strings.ToLower(title)
	if v, ok := lt.cached(key); ok {
		return v.(*model.RecipeDetails).Clone(), nil
	}

	ctx, cancel := lt.withTimeout(ctx)
	defer cancel()

	resp, err := lt.search.Search(ctx, tavily.SearchRequest{
		Query:      fmt.Sprintf(recipeDetailsPrompt, title),
		Topic:      "general",
		MaxResults: lt.searchMaxResults,
	})
	if err != nil {
		logx.Error().Err(err).Str("tool", ToolRecipeDetails).Msg("recipe details search failed")
		return nil, errx.WrapUpstream(errx.ServiceSearch, err)
	}

	best := resp.Best()
	if best == nil {
		return nil, nil
	}
	details := &model.RecipeDetails{
		Title:        best.Title,
		Instructions: strings.TrimSpace(best.Content),
		SourceURL:    best.URL,
		Score:        best.Score,
	}
	logx.Debug().Str("tool", ToolRecipeDetails).Str("title", details.Title).Float64("score", details.Score).Msg("best recipe result")

	lt.store(key, details.Clone())
	return details, nil
}

func (lt *LookupTools) AnalyzeNutrition(ctx context.Context, description string) (*model.NutritionInfo, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil
	}
	if lt.nutrition == nil {
		return nil, notConfigured(errx.ServiceNutrition)
	}

	key := ToolAnalyzeNutrition + "|" + strings.ToLower(description)
	if v, ok := lt.cached(key); ok {
		return v.(*model.NutritionInfo).Clone(), nil
	}

	ctx, cancel := lt.withTimeout(ctx)
	defer cancel()

	resp, err := lt.nutrition.Nutrients(ctx, description)
	if errors.Is(err, nutritionix.ErrNoFoodsMatched) {
		return nil, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("tool", ToolAnalyzeNutrition).Msg("nutrition analysis failed")
		return nil, errx.WrapUpstream(errx.ServiceNutrition, err)
	}
	if len(resp.Foods) == 0 {
		return nil, nil
	}

	foods := make([]model.FoodNutrients, 0, len(resp.Foods))
	for _, f := range resp.Foods {
		foods = append(foods, model.FoodNutrients{
			Name:               f.FoodName,
			ServingQty:         f.ServingQty,
			ServingUnit:        f.ServingUnit,
			ServingWeightGrams: f.ServingWeightGrams,
			Calories:           f.Calories,
			Protein:            f.Protein,
			Fat:                f.TotalFat,
			SaturatedFat:       f.SaturatedFat,
			Cholesterol:        f.Cholesterol,
			Sodium:             f.Sodium,
			Carbs:              f.TotalCarbohydrate,
			Fiber:              f.DietaryFiber,
		})
	}
	info := model.NewNutritionInfo(foods)
	logx.Debug().Str("tool", ToolAnalyzeNutrition).Int("foods", len(foods)).Float64("calories", info.Calories).Msg("nutrition analysed")

	lt.store(key, info.Clone())
	return info, nil
}

func (lt *LookupTools) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if lt.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, lt.timeout)
}

func (lt *LookupTools) cached(key string) (any, bool) {
	if lt.cache == nil {
		return nil, false
	}
	v, ok := lt.cache.Get(key)
	if ok {
		logx.Debug().Str("key", key).Msg("lookup cache hit")
	}
	return v, ok
}

func (lt *LookupTools) store(key string, v any) {
	if lt.cache != nil {
		lt.cache.Add(key, v)
	}
}

func notConfigured(service string) error {
	return errx.New(fmt.Errorf("%s credentials are not configured", service), http.StatusServiceUnavailable, service+" is not configured")
}

// sanitizeRecipeQuery trims every field and clamps the result count.
func sanitizeRecipeQuery(q model.RecipeQuery, defaultNumber int) model.RecipeQuery {
	q.Query = strings.TrimSpace(q.Query)
	q.Cuisine = strings.TrimSpace(q.Cuisine)
	q.MealType = strings.TrimSpace(q.MealType)
	q.Ingredients = model.SplitList(strings.Join(q.Ingredients, ","))
	q.Diet = model.SplitList(strings.Join(q.Diet, ","))
	if q.MaxCalories < 0 {
		q.MaxCalories = 0
	}
	if q.Number <= 0 {
		q.Number = defaultNumber
	}
	q.Number = clampInt(q.Number, 1, maxRecipeResults)
	return q
}

func recipeCacheKey(q model.RecipeQuery) string {
	return strings.ToLower(strings.Join([]string{
		ToolFindRecipe,
		q.Query,
		strings.Join(q.Ingredients, ","),
		q.Cuisine,
		strings.Join(q.Diet, ","),
		q.MealType,
		strconv.Itoa(q.MaxCalories),
		strconv.Itoa(q.Number),
	}, "|"))
}

// clampInt returns v limited to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

var _ Toolbox = (*LookupTools)(nil)
