package prompts

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatClassifierMessages(t *testing.T) {
	history := []*schema.Message{
		schema.AssistantMessage("How can I assist you today?", nil),
		schema.UserMessage("what can I make with rice?"),
	}

	msgs, err := FormatClassifierMessages(context.Background(), history)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	sys := msgs[0]
	assert.Equal(t, schema.System, sys.Role)
	assert.Contains(t, sys.Content, "- find_recipe:")
	assert.Contains(t, sys.Content, "- recipe_details:")
	assert.Contains(t, sys.Content, "- analyze_nutrition:")
	assert.Contains(t, sys.Content, "(intent<||>find_recipe<||>0.95)##(slot<||>ingredients<||>chickpeas, spinach)")
	assert.Contains(t, sys.Content, "<|COMPLETE|>")
	assert.NotContains(t, sys.Content, "{{")

	assert.Equal(t, "what can I make with rice?", msgs[2].Content)
}

func TestFormatClassifierMessages_EmptyHistory(t *testing.T) {
	msgs, err := FormatClassifierMessages(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
