package spoonacular_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/recipe-genie/server/pkg/spoonacular"
)

func TestNewRequiresKey(t *testing.T) {
	_, err := spoonacular.New("")
	assert.Error(t, err)
}

func TestSearchRecipes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("apiKey"))
		assert.Equal(t, "chickpeas,spinach", q.Get("includeIngredients"))
		assert.Equal(t, "indian", q.Get("cuisine"))
		assert.Equal(t, "vegan", q.Get("diet"))
		assert.Equal(t, "main course", q.Get("type"))
		assert.Equal(t, "5", q.Get("number"))
		assert.Equal(t, "700", q.Get("maxCalories"))
		assert.False(t, q.Has("query"), "empty query is omitted")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":1,"title":"Chana Saag"},{"id":2,"title":"Chickpea Curry"}],"totalResults":2,"number":5}`))
	}))
	defer ts.Close()

	c, err := spoonacular.New("secret")
	require.NoError(t, err)
	c.WithBaseURL(ts.URL + "/").WithLimiter(rate.NewLimiter(rate.Inf, 1))

	resp, err := c.SearchRecipes(context.Background(), spoonacular.SearchRequest{
		IncludeIngredients: []string{"chickpeas", "spinach"},
		Cuisine:            "indian",
		Diet:               []string{"vegan"},
		Type:               "main course",
		MaxCalories:        700,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Chana Saag", resp.Results[0].Title)
	assert.Equal(t, 2, resp.TotalResults)
}

func TestSearchRecipesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"status":"failure","code":402,"message":"Your daily points limit of 150 has been reached."}`))
	}))
	defer ts.Close()

	c, _ := spoonacular.New("secret")
	c.WithBaseURL(ts.URL)

	_, err := c.SearchRecipes(context.Background(), spoonacular.SearchRequest{Query: "pasta"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
	assert.Contains(t, err.Error(), "daily points limit")
}

func TestSearchRecipesHonoursCancelledContext(t *testing.T) {
	c, _ := spoonacular.New("secret")
	c.WithBaseURL("http://127.0.0.1:1").WithLimiter(rate.NewLimiter(1, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SearchRecipes(ctx, spoonacular.SearchRequest{Query: "pasta"})
	assert.Error(t, err)
}
