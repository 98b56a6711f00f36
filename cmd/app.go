package cmd

import (
	"context"
	"fmt"

	"github.com/recipe-genie/server/internal/agent/graph"
	"github.com/recipe-genie/server/internal/agent/graph/tools"
	"github.com/recipe-genie/server/internal/agent/model"
	"github.com/recipe-genie/server/internal/agent/repo"
	logx "github.com/recipe-genie/server/pkg/logger"
)

type app struct {
	runner graph.Runner
	close  func()
}

// newApp is swapped in tests.
var newApp = buildApp

func buildApp(ctx context.Context, cfg *AppConfig) (*app, error) {
	var (
		convRepo model.ConversationRepository
		closeFn  = func() {}
	)
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		logx.Debug().Msg("Connected to Redis successfully")
		convRepo = repo.NewRedisConversationRepository(rdb, cfg.Conversation.TTL, cfg.Conversation.MaxStored)
		closeFn = func() { _ = rdb.Close() }
	} else {
		logx.Warn().Msg("REDIS_URL not set, conversations are kept in memory")
		convRepo = repo.NewMemoryConversationRepository(cfg.Conversation)
	}

	toolbox := tools.NewLookupToolsFromConfig(tools.APIConfig{
		Recipes:   cfg.Recipes,
		Search:    cfg.Search,
		Nutrition: cfg.Nutrition,
		Lookup:    cfg.Lookup,
	})

	runner, err := graph.BuildRecipeGraph(ctx, graph.Config{
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiBaseURL:    cfg.GeminiBaseURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		Classifier:       cfg.Classifier,
		Conversation:     cfg.Conversation,
		RecipeResults:    cfg.Recipes.Results,
		ConversationRepo: convRepo,
		Toolbox:          toolbox,
	})
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	return &app{runner: runner, close: closeFn}, nil
}
