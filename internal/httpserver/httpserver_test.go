package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
)

type fakeConversations struct {
	got       model.QueryInput
	reply     *model.Reply
	history   []*schema.Message
	err       error
	clearedID string
}

func (f *fakeConversations) Invoke(_ context.Context, in model.QueryInput) (*model.Reply, error) {
	f.got = in
	return f.reply, f.err
}

func (f *fakeConversations) History(_ context.Context, id string) ([]*schema.Message, error) {
	return f.history, f.err
}

func (f *fakeConversations) Clear(_ context.Context, id string) error {
	f.clearedID = id
	return f.err
}

func newTestServer(t *testing.T, fc *fakeConversations) http.Handler {
	t.Helper()
	srv, err := New(Config{
		Port:          8080,
		Mode:          gin.TestMode,
		Environment:   "testing",
		Conversations: fc,
		NewID:         func() string { return "conv-1" },
	})
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &fakeConversations{})
	w, resp := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, ServiceName, data["service"])
}

func TestCreateConversation(t *testing.T) {
	h := newTestServer(t, &fakeConversations{})
	w, resp := do(t, h, http.MethodPost, "/api/v1/conversations", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "conv-1", resp["data"].(map[string]any)["conversation_id"])
}

func TestSendMessage(t *testing.T) {
	fc := &fakeConversations{reply: &model.Reply{
		ConversationID: "abc",
		Action:         model.ActionFindRecipe,
		Source:         model.SourceRule,
		Content:        "recipes",
		RecipeMatches:  []string{"Soup"},
	}}
	h := newTestServer(t, fc)

	w, resp := do(t, h, http.MethodPost, "/api/v1/conversations/abc/messages",
		`{"query":"dinner","ingredients":["egg","rice"],"cuisine":"korean","max_calories":500}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "abc", fc.got.ConversationID)
	assert.Equal(t, "dinner", fc.got.Query)
	assert.Equal(t, []string{"egg", "rice"}, fc.got.Ingredients)
	assert.Equal(t, "korean", fc.got.Cuisine)
	assert.Equal(t, 500, fc.got.MaxCalories)

	data := resp["data"].(map[string]any)
	assert.Equal(t, "find_recipe", data["action"])
	assert.Equal(t, "rule", data["source"])
	assert.Equal(t, []any{"Soup"}, data["recipe_matches"])
}

func TestSendMessage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"malformed body", `{"query":`, nil, http.StatusBadRequest, "invalid request: malformed body"},
		{"validation", `{"query":""}`, errx.NewValidation("query or ingredients are required"), http.StatusBadRequest, "invalid request: query or ingredients are required"},
		{"upstream", `{"query":"x"}`, errx.WrapUpstream(errx.ServiceRecipes, errors.New("dial tcp: refused")), http.StatusBadGateway, "recipe search unavailable"},
		{"unknown", `{"query":"x"}`, errors.New("secret internals"), http.StatusInternalServerError, errx.SystemErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakeConversations{err: tt.err})
			w, resp := do(t, h, http.MethodPost, "/api/v1/conversations/abc/messages", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, resp["message"], tt.wantMsg)
			assert.NotContains(t, resp["message"], "secret")
			assert.NotContains(t, resp["message"], "dial tcp")
		})
	}
}

func TestListMessages(t *testing.T) {
	fc := &fakeConversations{history: []*schema.Message{
		schema.AssistantMessage("hello", nil),
		nil,
		schema.UserMessage("hi"),
	}}
	h := newTestServer(t, fc)

	w, resp := do(t, h, http.MethodGet, "/api/v1/conversations/abc/messages", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].(map[string]any)
	assert.Equal(t, "abc", data["conversation_id"])
	msgs := data["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "assistant", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "hi", msgs[1].(map[string]any)["content"])
}

func TestClearConversation(t *testing.T) {
	fc := &fakeConversations{}
	h := newTestServer(t, fc)

	w, _ := do(t, h, http.MethodDelete, "/api/v1/conversations/abc", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", fc.clearedID)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Port: 8080, Mode: gin.TestMode})
	assert.Error(t, err)

	_, err = New(Config{Mode: gin.TestMode, Conversations: &fakeConversations{}})
	assert.Error(t, err)
}

func TestNewConversationID(t *testing.T) {
	a, b := NewConversationID(), NewConversationID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
