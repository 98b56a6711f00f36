package nutritionix_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-genie/server/pkg/nutritionix"
)

func TestNutrients(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/natural/nutrients", r.URL.Path)
		assert.Equal(t, "app", r.Header.Get("x-app-id"))
		assert.Equal(t, "key", r.Header.Get("x-app-key"))

		var req nutritionix.NutrientsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2 eggs and a slice of toast", req.Query)

		w.Write([]byte(`{"foods":[
			{"food_name":"eggs","serving_qty":2,"serving_unit":"large","serving_weight_grams":100,"nf_calories":143,"nf_total_fat":9.5,"nf_protein":12.6,"nf_total_carbohydrate":0.7},
			{"food_name":"toast","serving_qty":1,"serving_unit":"slice","serving_weight_grams":28,"nf_calories":82,"nf_total_fat":1.1,"nf_protein":2.7,"nf_total_carbohydrate":15.2}
		]}`))
	}))
	defer ts.Close()

	c, err := nutritionix.New("app", "key")
	require.NoError(t, err)
	c.WithBaseURL(ts.URL)

	resp, err := c.Nutrients(context.Background(), "2 eggs and a slice of toast")
	require.NoError(t, err)
	require.Len(t, resp.Foods, 2)
	assert.Equal(t, "eggs", resp.Foods[0].FoodName)
	assert.InDelta(t, 143, resp.Foods[0].Calories, 0.001)
	assert.InDelta(t, 15.2, resp.Foods[1].TotalCarbohydrate, 0.001)
}

func TestNutrientsNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"We couldn't match any of your foods"}`))
	}))
	defer ts.Close()

	c, _ := nutritionix.New("app", "key")
	c.WithBaseURL(ts.URL)

	_, err := c.Nutrients(context.Background(), "asdfgh")
	assert.ErrorIs(t, err, nutritionix.ErrNoFoodsMatched)
}

func TestNutrientsServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"unauthorized"}`))
	}))
	defer ts.Close()

	c, _ := nutritionix.New("app", "key")
	c.WithBaseURL(ts.URL)

	_, err := c.Nutrients(context.Background(), "apple")
	require.Error(t, err)
	assert.NotErrorIs(t, err, nutritionix.ErrNoFoodsMatched)
	assert.Contains(t, err.Error(), "401")
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := nutritionix.New("app", "")
	assert.Error(t, err)
}
