package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pkg/errors"

	"github.com/todoai/todoai/server/metrics"
	"github.com/todoai/todoai/store"
)

// ─────────────────────────────────────────────────────────────────────────────
// Request / Response types
// ─────────────────────────────────────────────────────────────────────────────

type chatRequest struct {
	Message        *string `json:"message" validate:"required,max=10000"`
	ConversationID *int32  `json:"conversation_id"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ConversationID int32  `json:"conversation_id"`
}

type conversationResponse struct {
	ID        int32     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID        int32     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Route registration (called from v1.go)
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) registerChatRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/", s.handleChat)
	g.POST("/chat", s.handleChat)
	g.GET("/conversations", s.listConversations)
	g.GET("/conversations/:id/messages", s.listConversationMessages)
}

// ─────────────────────────────────────────────────────────────────────────────
// Conversation replay
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) listConversations(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	conversations, err := s.Store.ListConversations(c.Request().Context(), &store.FindConversation{
		OwnerID: &userID,
	})
	if err != nil {
		return errors.Wrap(err, "failed to list conversations")
	}
	resp := make([]conversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		resp = append(resp, conversationResponse{
			ID:        conversation.ID,
			CreatedAt: time.Unix(conversation.CreatedTs, 0).UTC(),
			UpdatedAt: time.Unix(conversation.UpdatedTs, 0).UTC(),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) listConversationMessages(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return newValidationError(ValidationDetail{
			Loc:  []string{"path", "id"},
			Msg:  "must be an integer",
			Type: "int_parsing",
		})
	}
	conversationID := int32(id)

	ctx := c.Request().Context()
	// Another owner's conversation is reported as missing.
	conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{ID: &conversationID, OwnerID: &userID})
	if err != nil {
		return errors.Wrap(err, "failed to find conversation")
	}
	if conversation == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
	}
	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ConversationID: conversation.ID})
	if err != nil {
		return errors.Wrap(err, "failed to list messages")
	}
	resp := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		resp = append(resp, messageResponse{
			ID:        message.ID,
			Role:      string(message.Role),
			Content:   message.Content,
			CreatedAt: time.Unix(message.CreatedTs, 0).UTC(),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// ─────────────────────────────────────────────────────────────────────────────
// Main chat handler
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) handleChat(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	message := *req.Message
	ctx := c.Request().Context()

	// ── 1. Resolve conversation ───────────────────────────────────────────────
	// A missing or foreign conversation id silently starts a new conversation.
	conversation, err := s.Store.GetOrCreateConversation(ctx, userID, req.ConversationID)
	if err != nil {
		return errors.Wrap(err, "failed to resolve conversation")
	}

	// ── 2. Load history from DB ───────────────────────────────────────────────
	history, err := s.Store.ListMessages(ctx, &store.FindMessage{ConversationID: conversation.ID})
	if err != nil {
		return errors.Wrap(err, "failed to load history")
	}

	// ── 3. Persist user message ───────────────────────────────────────────────
	if _, err := s.Store.CreateMessage(ctx, &store.CreateMessage{
		ConversationID: conversation.ID,
		OwnerID:        userID,
		Role:           store.RoleUser,
		Content:        message,
	}); err != nil {
		return errors.Wrap(err, "failed to persist user message")
	}

	// ── 4. Interpret against the history loaded before step 3 ─────────────────
	reply := s.Interpreter.Interpret(ctx, userID, message, history)

	// ── 5. Persist assistant message ──────────────────────────────────────────
	if _, err := s.Store.CreateMessage(ctx, &store.CreateMessage{
		ConversationID: conversation.ID,
		OwnerID:        userID,
		Role:           store.RoleAssistant,
		Content:        reply,
	}); err != nil {
		return errors.Wrap(err, "failed to persist assistant message")
	}

	// ── 6. Touch conversation ─────────────────────────────────────────────────
	if _, err := s.Store.TouchConversation(ctx, conversation.ID); err != nil {
		return errors.Wrap(err, "failed to update conversation")
	}

	metrics.ObserveChatTurn()
	return c.JSON(http.StatusOK, chatResponse{Response: reply, ConversationID: conversation.ID})
}
