package store

import (
	"context"

	"github.com/pkg/errors"
)

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is a single chat thread owned by one user.
type Conversation struct {
	ID        int32
	OwnerID   int32
	CreatedTs int64
	UpdatedTs int64
}

// Message is a single entry within a conversation. Messages are append-only.
type Message struct {
	ID             int32
	ConversationID int32
	OwnerID        int32
	Role           Role
	Content        string
	CreatedTs      int64
}

// FindConversation filters for ListConversations.
type FindConversation struct {
	ID      *int32
	OwnerID *int32
}

// UpdateConversation carries fields accepted by UpdateConversation.
type UpdateConversation struct {
	ID        int32
	UpdatedTs int64
}

// FindMessage filters for ListMessages.
type FindMessage struct {
	ConversationID int32
}

// CreateMessage is the payload for CreateMessage.
type CreateMessage struct {
	ConversationID int32
	OwnerID        int32
	Role           Role
	Content        string
	CreatedTs      int64
}

// ListConversations lists conversations, most recently updated first.
func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

// GetConversation returns the first conversation matching the given filter, or nil.
func (s *Store) GetConversation(ctx context.Context, find *FindConversation) (*Conversation, error) {
	list, err := s.driver.ListConversations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// GetOrCreateConversation returns the conversation with the given id when it
// is owned by ownerID. Any miss, including a stale id or another owner's
// conversation, silently starts a new conversation for ownerID.
func (s *Store) GetOrCreateConversation(ctx context.Context, ownerID int32, conversationID *int32) (*Conversation, error) {
	if conversationID != nil {
		conversation, err := s.GetConversation(ctx, &FindConversation{ID: conversationID, OwnerID: &ownerID})
		if err != nil {
			return nil, err
		}
		if conversation != nil {
			return conversation, nil
		}
	}
	ts := s.timestamp()
	return s.driver.CreateConversation(ctx, &Conversation{
		OwnerID:   ownerID,
		CreatedTs: ts,
		UpdatedTs: ts,
	})
}

// TouchConversation bumps the conversation's updated timestamp.
func (s *Store) TouchConversation(ctx context.Context, id int32) (*Conversation, error) {
	return s.driver.UpdateConversation(ctx, &UpdateConversation{ID: id, UpdatedTs: s.timestamp()})
}

// CreateMessage appends a message to a conversation. It does not touch the conversation.
func (s *Store) CreateMessage(ctx context.Context, create *CreateMessage) (*Message, error) {
	if create.Role != RoleUser && create.Role != RoleAssistant {
		return nil, errors.Wrapf(ErrInvalidMessage, "unknown role %q", create.Role)
	}
	create.CreatedTs = s.timestamp()
	return s.driver.CreateMessage(ctx, create)
}

// ListMessages returns all messages for a conversation, oldest first.
func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}
