package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Upstream services the assistant depends on.
const (
	ServiceRecipes   = "recipe search"
	ServiceSearch    = "web search"
	ServiceNutrition = "nutrition analysis"
	ServiceLLM       = "intent classifier"
)

// WrapUpstream maps a failed call to an external API to a 502 AppError.
// Deadline errors become 504 so callers can tell slow from broken.
func WrapUpstream(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return New(err, http.StatusGatewayTimeout, fmt.Sprintf("%s timed out", service))
	}
	return New(err, http.StatusBadGateway, fmt.Sprintf("%s unavailable", service))
}
