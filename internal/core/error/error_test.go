package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedis(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))

	err := WrapRedis(redis.Nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.True(t, errors.Is(err, redis.Nil))

	boom := errors.New("connection refused")
	err = WrapRedis(boom)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, RedisErrorMessage, MessageOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestWrapUpstream(t *testing.T) {
	assert.Nil(t, WrapUpstream(ServiceRecipes, nil))

	err := WrapUpstream(ServiceNutrition, errors.New("status 500"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, "nutrition analysis unavailable", MessageOf(err))

	err = WrapUpstream(ServiceSearch, fmt.Errorf("call: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, StatusOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatusOfPlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
	assert.Equal(t, SystemErrorMessage, MessageOf(errors.New("x")))

	wrapped := fmt.Errorf("outer: %w", NewValidation("query is %s", "empty"))
	assert.Equal(t, http.StatusBadRequest, StatusOf(wrapped))
	assert.Contains(t, wrapped.Error(), "query is empty")
}
