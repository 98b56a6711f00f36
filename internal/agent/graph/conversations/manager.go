package conversations

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
)

// Greeting is recorded once, as the first assistant turn of a conversation.
const Greeting = "👋 Hi! I'm your smart kitchen assistant.\n\n" +
	"Here's what I can help you with:\n" +
	"1. 🍽️ Find a recipe based on ingredients, cuisine, or dietary needs\n" +
	"2. 📋 Get detailed instructions for a recipe\n" +
	"3. 🧪 Analyze the nutrition info of a dish or ingredients\n\n" +
	"How can I assist you today?"

type MessagesManager struct {
	conversationRepo model.ConversationRepository
	historyMaxTurns  int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	maxTurns := config.HistoryMaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &MessagesManager{
		conversationRepo: conversationRepo,
		historyMaxTurns:  maxTurns,
	}
}

// Turn is what the greet step hands to the rest of the cycle.
type Turn struct {
	History  []*schema.Message
	Greeting string // non-empty only on the first cycle
}

// StartTurn returns the history the cycle works on: the stored turns, then the
// greeting (new conversations only), then the user message. Nothing is stored
// until CommitTurn, so a failed cycle leaves the conversation untouched.
func (cm *MessagesManager) StartTurn(ctx context.Context, conversationID string, query string) (*Turn, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errx.NewValidation("conversation id is required")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errx.NewValidation("query is required")
	}

	stored, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	turn := &Turn{}
	history := make([]*schema.Message, 0, len(stored.Messages)+2)
	history = append(history, stored.Messages...)
	if len(stored.Messages) == 0 {
		history = append(history, schema.AssistantMessage(Greeting, nil))
		turn.Greeting = Greeting
	}
	turn.History = append(history, schema.UserMessage(query))
	return turn, nil
}

// CommitTurn stores a finished cycle: the user message and the reply, preceded
// by the greeting when the conversation is still empty. The repository does
// this atomically, so concurrent first cycles greet once; greeted reports
// whether this call stored the greeting.
func (cm *MessagesManager) CommitTurn(ctx context.Context, conversationID, query, reply string) (greeted bool, err error) {
	msgs := []*schema.Message{schema.UserMessage(query)}
	if strings.TrimSpace(reply) != "" {
		msgs = append(msgs, schema.AssistantMessage(reply, nil))
	}
	return cm.conversationRepo.AppendTurn(ctx, conversationID, schema.AssistantMessage(Greeting, nil), msgs...)
}

// Truncate keeps the most recent turns used for classification.
func (cm *MessagesManager) Truncate(messages []*schema.Message) []*schema.Message {
	return trimTail(messages, cm.historyMaxTurns)
}

// History returns every stored turn of a conversation.
func (cm *MessagesManager) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return history.Messages, nil
}

func (cm *MessagesManager) Clear(ctx context.Context, conversationID string) error {
	return cm.conversationRepo.ClearHistory(ctx, conversationID)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns < 0 {
		maxTurns = 0
	}
	source := messages
	if len(messages) > maxTurns {
		source = messages[len(messages)-maxTurns:]
	}
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
