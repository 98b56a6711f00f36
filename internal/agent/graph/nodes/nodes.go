package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/recipe-genie/server/internal/agent/graph/conversations"
	"github.com/recipe-genie/server/internal/agent/graph/parsers"
	"github.com/recipe-genie/server/internal/agent/graph/prompts"
	"github.com/recipe-genie/server/internal/agent/graph/routers"
	"github.com/recipe-genie/server/internal/agent/graph/tools"
	"github.com/recipe-genie/server/internal/agent/model"
	logx "github.com/recipe-genie/server/pkg/logger"
)

// NewGreetPreHandler resets the per-cycle state from the caller's input.
func NewGreetPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.Reset(in)
		return in, nil
	}
}

// NewGreetNode opens the cycle: the stored conversation plus the greeting
// (first cycle only) and the user turn. Both are stored with the reply.
func NewGreetNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		turn, err := mm.StartTurn(ctx, input.ConversationID, input.Query)
		if err != nil {
			return nil, fmt.Errorf("error starting turn: %w", err)
		}

		if turn.Greeting != "" {
			logx.Debug().Str("conversation_id", input.ConversationID).Msg("New conversation - greeting added")
			err = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
				s.Greeting = turn.Greeting
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to access state: %w", err)
			}
		}
		return turn.History, nil
	})
}

// NewTruncateHistoryNode keeps the most recent turns for classification.
func NewTruncateHistoryNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, history []*schema.Message) ([]*schema.Message, error) {
		return mm.Truncate(history), nil
	})
}

// NewTruncateHistoryPostHandler stores the classification window in state.
func NewTruncateHistoryPostHandler() func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, out []*schema.Message, s *model.AppState) ([]*schema.Message, error) {
		s.History = out
		logx.Debug().
			Str("conversation_id", s.ConversationID).
			Int("history_len", len(out)).
			Msg("History truncated")
		return out, nil
	}
}

// NewKeywordRouterNode applies the deterministic routing rules. An Intent with
// ActionNone means no rule matched and the classifier must decide.
func NewKeywordRouterNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ []*schema.Message) (*model.Intent, error) {
		intent := &model.Intent{}
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			action, ok := routers.MatchKeywordRoute(s.Slots)
			if !ok {
				return nil
			}
			s.Route(action, model.SourceRule)
			intent.Action = action
			intent.Confidence = 1
			intent.Slots = s.Slots
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return intent, nil
	})
}

// NewKeywordRouteCondition sends rule matches straight to their terminal and
// everything else to the classifier.
func NewKeywordRouteCondition() func(context.Context, *model.Intent) (string, error) {
	return func(ctx context.Context, in *model.Intent) (string, error) {
		next := nodeForAction(in.Action, NodeClassifierInput)
		logx.Debug().Str("action", string(in.Action)).Str("next", next).Msg("Keyword routing")
		return next, nil
	}
}

// NewClassifierInputNode builds the classifier prompt over the truncated history.
func NewClassifierInputNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *model.Intent) ([]*schema.Message, error) {
		var history []*schema.Message
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			history = s.History
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		// Generate messages via Eino prompt component (enables prompt callbacks)
		messages, err := prompts.FormatClassifierMessages(ctx, history)
		if err != nil {
			return nil, fmt.Errorf("render classifier prompt: %w", err)
		}
		return messages, nil
	})
}

// NewClassifierChatModelPostHandler computes and logs usage cost for the classifier model.
func NewClassifierChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost"] = map[string]any{
				"currency":          "USD",
				"model":             modelName,
				"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
				"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
				"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
				"input_cost":        inC,
				"output_cost":       outC,
				"total_cost":        totalC,
			}
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("node", NodeClassifierChatModel).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")

			// Accumulate only total cost into state
			state.TotalCostUSD += totalC
		}
		return out, nil
	}
}

// NewIntentParserNode parses the classifier output.
func NewIntentParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (*model.Intent, error) {
		if resp == nil {
			return &model.Intent{}, nil
		}
		result, err := parsers.ParseIntent(resp.Content)
		if err != nil {
			logx.Error().Err(err).Msg("Error parsing classifier response")
			return nil, err
		}
		return result, nil
	})
}

// NewIntentParserPostHandler merges extracted slots into state and records the route.
func NewIntentParserPostHandler() func(context.Context, *model.Intent, *model.AppState) (*model.Intent, error) {
	return func(ctx context.Context, out *model.Intent, state *model.AppState) (*model.Intent, error) {
		state.Intent = out
		state.Slots.Fill(out.Slots)

		if _, ok := TerminalNodes[out.Action]; ok {
			state.Route(out.Action, model.SourceClassifier)
		} else {
			state.Route(model.ActionFallback, model.SourceFallback)
		}

		ev := logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("action", string(state.Action)).
			Float64("confidence", out.Confidence)
		if errs, ok := out.ParsingMetadata["parsing_errors"].([]string); ok {
			ev = ev.Strs("parsing_errors", errs)
		}
		ev.Msg("Intent classified")
		return out, nil
	}
}

// NewIntentRouteCondition routes the classified intent, or to fallback when
// the classifier gave no usable label.
func NewIntentRouteCondition() func(context.Context, *model.Intent) (string, error) {
	return func(ctx context.Context, in *model.Intent) (string, error) {
		return nodeForAction(in.Action, NodeFallback), nil
	}
}

// NewFindRecipeNode searches recipes with the cycle's slots.
func NewFindRecipeNode(tb tools.Toolbox, results int) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *model.Intent) (*model.Reply, error) {
		slots, err := readSlots(ctx)
		if err != nil {
			return nil, err
		}

		matches, err := tb.FindRecipes(ctx, model.RecipeQuery{
			Query:       routers.RecipeSearchTerm(slots),
			Ingredients: slots.Ingredients,
			Cuisine:     slots.Cuisine,
			Diet:        slots.DietaryRestrictions,
			MealType:    slots.MealType,
			MaxCalories: slots.MaxCalories,
			Number:      results,
		})
		if err != nil {
			return nil, err
		}

		return &model.Reply{
			Action:        model.ActionFindRecipe,
			Content:       formatRecipeMatches(matches),
			RecipeMatches: matches,
		}, nil
	})
}

// NewRecipeDetailsNode looks up instructions for one recipe.
func NewRecipeDetailsNode(tb tools.Toolbox) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *model.Intent) (*model.Reply, error) {
		slots, err := readSlots(ctx)
		if err != nil {
			return nil, err
		}

		title := routers.RecipeTitle(slots)
		if title == "" {
			return &model.Reply{Action: model.ActionRecipeDetails, Content: MissingTitleReply}, nil
		}

		details, err := tb.RecipeDetails(ctx, title)
		if err != nil {
			return nil, err
		}

		return &model.Reply{
			Action:        model.ActionRecipeDetails,
			Content:       formatRecipeDetails(title, details),
			RecipeDetails: details,
		}, nil
	})
}

// NewAnalyzeNutritionNode totals the nutrients of a described dish.
func NewAnalyzeNutritionNode(tb tools.Toolbox) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *model.Intent) (*model.Reply, error) {
		slots, err := readSlots(ctx)
		if err != nil {
			return nil, err
		}

		text := routers.NutritionText(slots)
		if text == "" {
			return &model.Reply{Action: model.ActionAnalyzeNutrition, Content: MissingFoodReply}, nil
		}

		info, err := tb.AnalyzeNutrition(ctx, text)
		if err != nil {
			return nil, err
		}

		return &model.Reply{
			Action:        model.ActionAnalyzeNutrition,
			Content:       formatNutrition(info),
			NutritionInfo: info,
		}, nil
	})
}

// NewFallbackNode apologises when no route applies.
func NewFallbackNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *model.Intent) (*model.Reply, error) {
		return &model.Reply{Action: model.ActionFallback, Content: FallbackReply}, nil
	})
}

// NewReplyPostHandler is shared by every terminal node. It claims the result
// slots for this cycle, stamps the reply with state, and stores the user and
// assistant turns.
func NewReplyPostHandler(mm *conversations.MessagesManager) func(context.Context, *model.Reply, *model.AppState) (*model.Reply, error) {
	return func(ctx context.Context, out *model.Reply, state *model.AppState) (*model.Reply, error) {
		if err := state.Complete(out.Action); err != nil {
			return nil, err
		}
		state.RecipeMatches = out.RecipeMatches
		state.RecipeDetails = out.RecipeDetails
		state.NutritionInfo = out.NutritionInfo

		out.ConversationID = state.ConversationID
		out.Source = state.ActionSource
		out.Greeting = state.Greeting
		out.CostUSD = state.TotalCostUSD

		greeted, err := mm.CommitTurn(ctx, state.ConversationID, state.Query, out.Content)
		if err != nil {
			logx.Error().
				Str("conversation_id", state.ConversationID).
				Err(err).
				Msg("Error saving conversation turn")
		} else if !greeted {
			// a concurrent first cycle stored the greeting
			out.Greeting = ""
		}

		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("action", string(out.Action)).
			Str("source", string(out.Source)).
			Float64("total_cost_usd", out.CostUSD).
			Msg("Reply ready")
		return out, nil
	}
}
