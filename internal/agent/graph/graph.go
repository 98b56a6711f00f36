package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/recipe-genie/server/internal/agent/graph/conversations"
	"github.com/recipe-genie/server/internal/agent/graph/nodes"
	"github.com/recipe-genie/server/internal/agent/graph/observers"
	"github.com/recipe-genie/server/internal/agent/graph/tools"
	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
	logx "github.com/recipe-genie/server/pkg/logger"
)

// maxRunSteps bounds one cycle; the longest path has eight nodes.
const maxRunSteps = 20

// Runner executes one conversation cycle and exposes the stored conversation.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (*model.Reply, error)
	History(ctx context.Context, conversationID string) ([]*schema.Message, error)
	Clear(ctx context.Context, conversationID string) error
}

// Config holds everything needed to compose the recipe graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs ChatModels and MessagesManager.
type Config struct {
	GeminiAPIKey     string
	GeminiBaseURL    string
	AnthropicAPIKey  string
	Classifier       model.ClassifierModelConfig
	Conversation     model.ConversationConfig
	RecipeResults    int
	ConversationRepo model.ConversationRepository
	Toolbox          tools.Toolbox
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	Toolbox         tools.Toolbox
	RecipeResults   int
}

// GraphBuilder handles the construction of the recipe conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *model.Reply]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *model.Reply]
	mm       *conversations.MessagesManager
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (*model.Reply, error) {
	in.ConversationID = strings.TrimSpace(in.ConversationID)
	in.Query = strings.TrimSpace(in.Query)
	if in.ConversationID == "" {
		return nil, errx.NewValidation("conversation id is required")
	}
	if in.Query == "" && len(in.Ingredients) == 0 {
		return nil, errx.NewValidation("query or ingredients are required")
	}
	if in.Query == "" {
		in.Query = "Find a recipe with " + strings.Join(in.Ingredients, ", ")
	}
	if in.MaxCalories < 0 {
		return nil, errx.NewValidation("max calories must not be negative")
	}

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		logx.Error().Str("conversation_id", in.ConversationID).Err(err).Msg("Cycle failed")
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("graph returned no reply")
	}
	return out, nil
}

func (r *graphRunner) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errx.NewValidation("conversation id is required")
	}
	return r.mm.History(ctx, conversationID)
}

func (r *graphRunner) Clear(ctx context.Context, conversationID string) error {
	if strings.TrimSpace(conversationID) == "" {
		return errx.NewValidation("conversation id is required")
	}
	return r.mm.Clear(ctx, conversationID)
}

// BuildRecipeGraph composes ChatModels, MessagesManager and the toolbox, builds the graph, and returns a Runner.
func BuildRecipeGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}
	if cfg.Toolbox == nil {
		return nil, fmt.Errorf("toolbox is nil")
	}

	// Create chat models
	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiBaseURL:   cfg.GeminiBaseURL,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		Classifier:      &cfg.Classifier,
	})
	if err != nil {
		return nil, err
	}

	// Create messages manager
	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	// Build runnable graph
	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		MessagesManager: mm,
		Toolbox:         cfg.Toolbox,
		RecipeResults:   cfg.RecipeResults,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Recipe graph built successfully")
	return &graphRunner{runnable: runnable, mm: mm}, nil
}

// BuildGraph constructs and returns the compiled recipe graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *model.Reply], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Classifier == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Toolbox == nil {
		return nil, fmt.Errorf("toolbox is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *model.Reply](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	mm := b.config.MessagesManager
	tb := b.config.Toolbox
	replyPost := compose.WithStatePostHandler(nodes.NewReplyPostHandler(mm))

	steps := []struct {
		key string
		add func(key string) error
	}{
		{nodes.NodeGreet, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewGreetNode(mm),
				compose.WithNodeName(k), compose.WithStatePreHandler(nodes.NewGreetPreHandler()))
		}},
		{nodes.NodeTruncateHistory, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewTruncateHistoryNode(mm),
				compose.WithNodeName(k), compose.WithStatePostHandler(nodes.NewTruncateHistoryPostHandler()))
		}},
		{nodes.NodeKeywordRouter, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewKeywordRouterNode(), compose.WithNodeName(k))
		}},
		{nodes.NodeClassifierInput, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewClassifierInputNode(), compose.WithNodeName(k))
		}},
		{nodes.NodeClassifierChatModel, func(k string) error {
			return b.graph.AddChatModelNode(k, nodes.WithUpstreamErrors(b.config.ChatModels.Classifier),
				compose.WithNodeName(k), compose.WithStatePostHandler(nodes.NewClassifierChatModelPostHandler(b.config.ChatModels.ClassifierModelName)))
		}},
		{nodes.NodeIntentParser, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewIntentParserNode(),
				compose.WithNodeName(k), compose.WithStatePostHandler(nodes.NewIntentParserPostHandler()))
		}},
		{nodes.NodeFindRecipe, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewFindRecipeNode(tb, b.config.RecipeResults), compose.WithNodeName(k), replyPost)
		}},
		{nodes.NodeRecipeDetails, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewRecipeDetailsNode(tb), compose.WithNodeName(k), replyPost)
		}},
		{nodes.NodeAnalyzeNutrition, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewAnalyzeNutritionNode(tb), compose.WithNodeName(k), replyPost)
		}},
		{nodes.NodeFallback, func(k string) error {
			return b.graph.AddLambdaNode(k, nodes.NewFallbackNode(), compose.WithNodeName(k), replyPost)
		}},
	}

	for _, s := range steps {
		if err := s.add(s.key); err != nil {
			logx.Error().Err(err).Str("node", s.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", s.key, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeGreet},
		{nodes.NodeGreet, nodes.NodeTruncateHistory},
		{nodes.NodeTruncateHistory, nodes.NodeKeywordRouter},
		{nodes.NodeClassifierInput, nodes.NodeClassifierChatModel},
		{nodes.NodeClassifierChatModel, nodes.NodeIntentParser},
		{nodes.NodeFindRecipe, compose.END},
		{nodes.NodeRecipeDetails, compose.END},
		{nodes.NodeAnalyzeNutrition, compose.END},
		{nodes.NodeFallback, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	keywordBranch := compose.NewGraphBranch(
		nodes.NewKeywordRouteCondition(),
		map[string]bool{
			nodes.NodeClassifierInput:  true,
			nodes.NodeFindRecipe:       true,
			nodes.NodeRecipeDetails:    true,
			nodes.NodeAnalyzeNutrition: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeKeywordRouter, keywordBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding keyword branch")
		return fmt.Errorf("error adding keyword branch: %w", err)
	}

	intentBranch := compose.NewGraphBranch(
		nodes.NewIntentRouteCondition(),
		map[string]bool{
			nodes.NodeFindRecipe:       true,
			nodes.NodeRecipeDetails:    true,
			nodes.NodeAnalyzeNutrition: true,
			nodes.NodeFallback:         true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeIntentParser, intentBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding intent branch")
		return fmt.Errorf("error adding intent branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *model.Reply], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxRunSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
