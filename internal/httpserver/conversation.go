package httpserver

import (
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
)

// NewConversationID returns a random conversation id.
func NewConversationID() string {
	return uuid.NewString()
}

type createConversationResp struct {
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type sendMessageReq struct {
	Query               string   `json:"query"`
	Cuisine             string   `json:"cuisine"`
	Ingredients         []string `json:"ingredients"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	MealType            string   `json:"meal_type"`
	MaxCalories         int      `json:"max_calories"`
}

func (r sendMessageReq) toInput(conversationID string) model.QueryInput {
	return model.QueryInput{
		ConversationID:      conversationID,
		Query:               r.Query,
		Cuisine:             r.Cuisine,
		Ingredients:         r.Ingredients,
		DietaryRestrictions: r.DietaryRestrictions,
		MealType:            r.MealType,
		MaxCalories:         r.MaxCalories,
	}
}

type messageResp struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type listMessagesResp struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []messageResp `json:"messages"`
}

func toMessageResps(msgs []*schema.Message) []messageResp {
	out := make([]messageResp, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		out = append(out, messageResp{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func (srv *HTTPServer) createConversation(c *gin.Context) {
	Created(c, createConversationResp{
		ConversationID: srv.newID(),
		CreatedAt:      time.Now().UTC(),
	})
}

func (srv *HTTPServer) sendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, errx.NewValidation("malformed body: %v", err))
		return
	}

	reply, err := srv.conversations.Invoke(c.Request.Context(), req.toInput(c.Param("id")))
	if err != nil {
		Error(c, err)
		return
	}
	OK(c, reply)
}

func (srv *HTTPServer) listMessages(c *gin.Context) {
	id := c.Param("id")
	msgs, err := srv.conversations.History(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	OK(c, listMessagesResp{ConversationID: id, Messages: toMessageResps(msgs)})
}

func (srv *HTTPServer) clearConversation(c *gin.Context) {
	id := c.Param("id")
	if err := srv.conversations.Clear(c.Request.Context(), id); err != nil {
		Error(c, err)
		return
	}
	OK(c, gin.H{"conversation_id": id, "cleared": true})
}
