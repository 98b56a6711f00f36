package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/recipe-genie/server/internal/agent/model"
)

// MemoryConversationRepository keeps conversations in process. Used when no
// Redis URL is configured and in tests. Like the Redis store, a conversation
// expires TTL after its last write; beyond MaxInMemory conversations the least
// recently used one is dropped.
type MemoryConversationRepository struct {
	mu        sync.Mutex // serialises read-modify-write of a conversation
	convs     *expirable.LRU[string, []*schema.Message]
	maxStored int
}

// NewMemoryConversationRepository uses cfg.TTL, cfg.MaxStored and
// cfg.MaxInMemory. Zero values mean no limit.
func NewMemoryConversationRepository(cfg model.ConversationConfig) *MemoryConversationRepository {
	return &MemoryConversationRepository{
		convs:     expirable.NewLRU[string, []*schema.Message](cfg.MaxInMemory, nil, cfg.TTL),
		maxStored: cfg.MaxStored,
	}
}

func (r *MemoryConversationRepository) AddMessage(_ context.Context, conversationID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(conversationID, message)
	return nil
}

func (r *MemoryConversationRepository) AppendTurn(_ context.Context, conversationID string, greeting *schema.Message, messages ...*schema.Message) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	greeted := false
	if greeting != nil {
		if cur, ok := r.convs.Get(conversationID); !ok || len(cur) == 0 {
			messages = append([]*schema.Message{greeting}, messages...)
			greeted = true
		}
	}
	r.appendLocked(conversationID, messages...)
	return greeted, nil
}

// appendLocked never mutates the stored slice; LoadHistory callers may still hold it.
func (r *MemoryConversationRepository) appendLocked(conversationID string, messages ...*schema.Message) {
	cur, _ := r.convs.Get(conversationID)
	next := make([]*schema.Message, 0, len(cur)+len(messages))
	next = append(append(next, cur...), messages...)
	if r.maxStored > 0 && len(next) > r.maxStored {
		next = next[len(next)-r.maxStored:]
	}
	r.convs.Add(conversationID, next)
}

func (r *MemoryConversationRepository) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	cur, _ := r.convs.Get(conversationID)
	msgs := make([]*schema.Message, len(cur))
	copy(msgs, cur)
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.convs.Remove(conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetMessageCount(_ context.Context, conversationID string) (int, error) {
	cur, _ := r.convs.Get(conversationID)
	return len(cur), nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
