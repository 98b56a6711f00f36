package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
	logx "github.com/recipe-genie/server/pkg/logger"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	GeminiAPIKey    string
	GeminiBaseURL   string
	AnthropicAPIKey string
	Classifier      *model.ClassifierModelConfig
}

// ChatModels holds the classifier chat model
type ChatModels struct {
	Classifier          einomodel.BaseChatModel
	ClassifierModelName string
}

// NewChatModels creates the classifier chat model for the configured provider
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.Classifier == nil {
		return nil, fmt.Errorf("classifier config is nil")
	}

	provider := strings.ToLower(strings.TrimSpace(config.Classifier.Provider))
	var (
		cm  einomodel.BaseChatModel
		err error
	)
	switch provider {
	case "", ProviderGemini:
		cm, err = newGeminiClassifier(ctx, config)
	case ProviderAnthropic:
		cm, err = newAnthropicClassifier(config)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Classifier.Provider)
	}
	if err != nil {
		return nil, err
	}

	logx.Debug().Str("provider", provider).Str("model", config.Classifier.Model).Msg("Classifier model ready")
	return &ChatModels{
		Classifier:          cm,
		ClassifierModelName: config.Classifier.Model,
	}, nil
}

func newGeminiClassifier(ctx context.Context, config ChatModelConfig) (*gemini.ChatModel, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.GeminiBaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.GeminiBaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	// Classification is a short labelling task; thinking is switched off.
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Classifier.Model,
		Temperature: &config.Classifier.Temperature,
		MaxTokens:   &config.Classifier.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}
	return chatModel, nil
}

func newAnthropicClassifier(config ChatModelConfig) (*AnthropicChatModel, error) {
	if config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(config.AnthropicAPIKey))
	return NewAnthropicChatModel(&client, AnthropicConfig{
		Model:       config.Classifier.Model,
		MaxTokens:   config.Classifier.MaxTokens,
		Temperature: config.Classifier.Temperature,
	})
}

// upstreamChatModel reports provider failures as upstream errors (502, or 504
// on deadline) whatever the provider.
type upstreamChatModel struct {
	inner einomodel.BaseChatModel
}

// WithUpstreamErrors wraps cm so that Generate and Stream failures carry an
// errx status. Errors that already are an *errx.AppError pass through.
func WithUpstreamErrors(cm einomodel.BaseChatModel) einomodel.BaseChatModel {
	if cm == nil {
		return nil
	}
	if _, ok := cm.(*upstreamChatModel); ok {
		return cm
	}
	return &upstreamChatModel{inner: cm}
}

func (m *upstreamChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	out, err := m.inner.Generate(ctx, input, opts...)
	if err != nil {
		return nil, wrapClassifierError(err)
	}
	return out, nil
}

func (m *upstreamChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := m.inner.Stream(ctx, input, opts...)
	if err != nil {
		return nil, wrapClassifierError(err)
	}
	return out, nil
}

func (m *upstreamChatModel) GetType() string {
	if typ, ok := components.GetType(m.inner); ok {
		return typ
	}
	return "ClassifierChatModel"
}

// IsCallbacksEnabled mirrors the wrapped model so callbacks fire exactly once.
func (m *upstreamChatModel) IsCallbacksEnabled() bool {
	return components.IsCallbacksEnabled(m.inner)
}

func wrapClassifierError(err error) error {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return errx.WrapUpstream(errx.ServiceLLM, err)
}
