package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
	logx "github.com/recipe-genie/server/pkg/logger"
)

// appendTurnScript pushes a cycle's messages in one atomic step. ARGV[1] is
// the greeting ("" for none) and is pushed only into an empty list, ARGV[2]
// the LTRIM cap, ARGV[3] the TTL in milliseconds, ARGV[4:] the messages.
var appendTurnScript = redis.NewScript(`
local greeted = 0
if ARGV[1] ~= "" and redis.call("EXISTS", KEYS[1]) == 0 then
	redis.call("RPUSH", KEYS[1], ARGV[1])
	greeted = 1
end
for i = 4, #ARGV do
	redis.call("RPUSH", KEYS[1], ARGV[i])
end
local maxStored = tonumber(ARGV[2])
if maxStored > 0 then
	redis.call("LTRIM", KEYS[1], -maxStored, -1)
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call("PEXPIRE", KEYS[1], ttl)
end
return greeted
`)

type RedisConversationRepository struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	maxStored int
}

// NewRedisConversationRepository stores each conversation as a Redis list.
// maxStored <= 0 keeps every message.
func NewRedisConversationRepository(rdb redis.Cmdable, ttl time.Duration, maxStored int) *RedisConversationRepository {
	return &RedisConversationRepository{rdb: rdb, ttl: ttl, maxStored: maxStored}
}

func (r *RedisConversationRepository) conversationKey(conversationID string) string {
	return fmt.Sprintf("recipe-genie:conversation:%s:messages", conversationID)
}

func (r *RedisConversationRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to marshal message")
		return fmt.Errorf("marshal message: %w", err)
	}
	key := r.conversationKey(conversationID)

	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, b)
	if r.maxStored > 0 {
		pipe.LTrim(ctx, key, int64(-r.maxStored), -1)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to append message to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisConversationRepository) AppendTurn(ctx context.Context, conversationID string, greeting *schema.Message, messages ...*schema.Message) (bool, error) {
	args := make([]any, 0, len(messages)+3)
	greetingJSON := ""
	if greeting != nil {
		b, err := json.Marshal(greeting)
		if err != nil {
			return false, fmt.Errorf("marshal greeting: %w", err)
		}
		greetingJSON = string(b)
	}
	args = append(args, greetingJSON, r.maxStored, r.ttl.Milliseconds())
	for _, m := range messages {
		b, err := json.Marshal(m)
		if err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to marshal message")
			return false, fmt.Errorf("marshal message: %w", err)
		}
		args = append(args, string(b))
	}

	key := r.conversationKey(conversationID)
	greeted, err := appendTurnScript.Run(ctx, r.rdb, []string{key}, args...).Int()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to append turn to redis")
		return false, errx.WrapRedis(err)
	}
	return greeted == 1, nil
}

func (r *RedisConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	key := r.conversationKey(conversationID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &model.ConversationHistory{ConversationID: conversationID, Messages: []*schema.Message{}}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation history from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs, err := decodeMessages(rows)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to decode conversation history")
		return nil, err
	}
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *RedisConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	key := r.conversationKey(conversationID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete conversation history from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisConversationRepository) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	key := r.conversationKey(conversationID)
	n, err := r.rdb.LLen(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to get message count from redis")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

func decodeMessages(rows []string) ([]*schema.Message, error) {
	msgs := make([]*schema.Message, 0, len(rows))
	for i, s := range rows {
		var m schema.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

var _ model.ConversationRepository = (*RedisConversationRepository)(nil)
