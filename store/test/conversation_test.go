package test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/todoai/todoai/store"
)

func TestConversationStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	user := createTestingUser(ctx, t, ts, "chat@example.com")

	conversation, err := ts.GetOrCreateConversation(ctx, user.ID, nil)
	require.NoError(t, err)
	require.NotZero(t, conversation.ID)
	require.Equal(t, user.ID, conversation.OwnerID)

	same, err := ts.GetOrCreateConversation(ctx, user.ID, &conversation.ID)
	require.NoError(t, err)
	require.Equal(t, conversation.ID, same.ID)

	for _, create := range []*store.CreateMessage{
		{ConversationID: conversation.ID, OwnerID: user.ID, Role: store.RoleUser, Content: "add task"},
		{ConversationID: conversation.ID, OwnerID: user.ID, Role: store.RoleAssistant, Content: "What task would you like to add?"},
		{ConversationID: conversation.ID, OwnerID: user.ID, Role: store.RoleUser, Content: "buy milk"},
	} {
		_, err := ts.CreateMessage(ctx, create)
		require.NoError(t, err)
	}

	messages, err := ts.ListMessages(ctx, &store.FindMessage{ConversationID: conversation.ID})
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, "add task", messages[0].Content)
	require.Equal(t, store.RoleAssistant, messages[1].Role)
	require.Equal(t, "buy milk", messages[2].Content)

	touched, err := ts.TouchConversation(ctx, conversation.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, touched.UpdatedTs, conversation.UpdatedTs)
}

func TestConversationStoreFallsBackToCreate(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	owner := createTestingUser(ctx, t, ts, "owner@example.com")
	other := createTestingUser(ctx, t, ts, "other@example.com")

	mine, err := ts.GetOrCreateConversation(ctx, owner.ID, nil)
	require.NoError(t, err)

	stale := mine.ID + 1000
	fresh, err := ts.GetOrCreateConversation(ctx, owner.ID, &stale)
	require.NoError(t, err)
	require.NotEqual(t, stale, fresh.ID)
	require.Equal(t, owner.ID, fresh.OwnerID)

	// Another owner's id never resolves to that conversation.
	theirs, err := ts.GetOrCreateConversation(ctx, other.ID, &mine.ID)
	require.NoError(t, err)
	require.NotEqual(t, mine.ID, theirs.ID)
	require.Equal(t, other.ID, theirs.OwnerID)

	list, err := ts.ListConversations(ctx, &store.FindConversation{OwnerID: &owner.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestMessageStoreRejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	user := createTestingUser(ctx, t, ts, "role@example.com")
	conversation, err := ts.GetOrCreateConversation(ctx, user.ID, nil)
	require.NoError(t, err)

	_, err = ts.CreateMessage(ctx, &store.CreateMessage{
		ConversationID: conversation.ID,
		OwnerID:        user.ID,
		Role:           "tool",
		Content:        "nope",
	})
	require.True(t, errors.Is(err, store.ErrInvalidMessage))
}
