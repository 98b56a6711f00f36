package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/recipe-genie/server/internal/core/error"
)

// AnthropicMessages is the slice of the Anthropic client the adapter uses.
type AnthropicMessages interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// AnthropicChatModel adapts the Anthropic Messages API to Eino's chat model
// interface. Tool calling is not supported; the classifier never uses tools.
type AnthropicChatModel struct {
	messages AnthropicMessages
	config   AnthropicConfig
}

// NewAnthropicChatModel wraps client.Messages.
func NewAnthropicChatModel(client *anthropic.Client, config AnthropicConfig) (*AnthropicChatModel, error) {
	if client == nil {
		return nil, fmt.Errorf("anthropic client is nil")
	}
	return newAnthropicChatModel(&client.Messages, config)
}

func newAnthropicChatModel(messages AnthropicMessages, config AnthropicConfig) (*AnthropicChatModel, error) {
	if strings.TrimSpace(config.Model) == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 512
	}
	return &AnthropicChatModel{messages: messages, config: config}, nil
}

func (m *AnthropicChatModel) GetType() string { return "Anthropic" }

func (m *AnthropicChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	temperature := m.config.Temperature
	maxTokens := m.config.MaxTokens
	modelName := m.config.Model
	options := einomodel.GetCommonOptions(&einomodel.Options{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		Model:       &modelName,
	}, opts...)

	system, conv := toAnthropicMessages(input)
	if len(conv) == 0 {
		return nil, fmt.Errorf("anthropic: no user message to send")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(*options.Model),
		MaxTokens:   int64(*options.MaxTokens),
		Messages:    conv,
		Temperature: anthropic.Float(float64(*options.Temperature)),
	}
	if len(system) > 0 {
		params.System = system
	}

	msg, err := m.messages.New(ctx, params)
	if err != nil {
		return nil, errx.WrapUpstream(errx.ServiceLLM, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}

	out := schema.AssistantMessage(text.String(), nil)
	out.ResponseMeta = &schema.ResponseMeta{
		FinishReason: string(msg.StopReason),
		Usage: &schema.TokenUsage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
	return out, nil
}

// Stream returns the Generate result as a single-chunk stream.
func (m *AnthropicChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{out}), nil
}

// toAnthropicMessages moves system messages into the system prompt and merges
// consecutive turns of the same role. Leading assistant turns are dropped
// because the API expects the conversation to open with the user.
func toAnthropicMessages(input []*schema.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var (
		system []anthropic.TextBlockParam
		conv   []anthropic.MessageParam
	)
	for _, msg := range input {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			continue
		case schema.Assistant:
			if len(conv) == 0 {
				continue
			}
		}

		role := anthropic.MessageParamRoleUser
		if msg.Role == schema.Assistant {
			role = anthropic.MessageParamRoleAssistant
		}
		block := anthropic.NewTextBlock(msg.Content)
		if n := len(conv); n > 0 && conv[n-1].Role == role {
			conv[n-1].Content = append(conv[n-1].Content, block)
			continue
		}
		conv = append(conv, anthropic.MessageParam{Role: role, Content: []anthropic.ContentBlockParamUnion{block}})
	}
	return system, conv
}
