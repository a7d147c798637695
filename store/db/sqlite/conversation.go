package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/todoai/todoai/store"
)

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	stmt := "INSERT INTO `conversation` (`owner_id`, `created_ts`, `updated_ts`) VALUES (?, ?, ?) RETURNING `id`"
	if err := d.db.QueryRowContext(ctx, stmt, create.OwnerID, create.CreatedTs, create.UpdatedTs).Scan(&create.ID); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "`id` = ?"), append(args, *v)
	}
	if v := find.OwnerID; v != nil {
		where, args = append(where, "`owner_id` = ?"), append(args, *v)
	}
	query := fmt.Sprintf("SELECT `id`, `owner_id`, `created_ts`, `updated_ts` FROM `conversation` WHERE %s ORDER BY `updated_ts` DESC, `id` DESC", strings.Join(where, " AND "))
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*store.Conversation, 0)
	for rows.Next() {
		var conversation store.Conversation
		if err := rows.Scan(&conversation.ID, &conversation.OwnerID, &conversation.CreatedTs, &conversation.UpdatedTs); err != nil {
			return nil, err
		}
		list = append(list, &conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	stmt := "UPDATE `conversation` SET `updated_ts` = ? WHERE `id` = ? RETURNING `id`, `owner_id`, `created_ts`, `updated_ts`"
	conversation := &store.Conversation{}
	if err := d.db.QueryRowContext(ctx, stmt, update.UpdatedTs, update.ID).
		Scan(&conversation.ID, &conversation.OwnerID, &conversation.CreatedTs, &conversation.UpdatedTs); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (d *DB) CreateMessage(ctx context.Context, create *store.CreateMessage) (*store.Message, error) {
	stmt := "INSERT INTO `message` (`conversation_id`, `owner_id`, `role`, `content`, `created_ts`) VALUES (?, ?, ?, ?, ?) RETURNING `id`"
	message := &store.Message{
		ConversationID: create.ConversationID,
		OwnerID:        create.OwnerID,
		Role:           create.Role,
		Content:        create.Content,
		CreatedTs:      create.CreatedTs,
	}
	if err := d.db.QueryRowContext(ctx, stmt, create.ConversationID, create.OwnerID, create.Role, create.Content, create.CreatedTs).Scan(&message.ID); err != nil {
		return nil, err
	}
	return message, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	query := "SELECT `id`, `conversation_id`, `owner_id`, `role`, `content`, `created_ts` FROM `message` WHERE `conversation_id` = ? ORDER BY `created_ts` ASC, `id` ASC"
	rows, err := d.db.QueryContext(ctx, query, find.ConversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*store.Message, 0)
	for rows.Next() {
		var message store.Message
		if err := rows.Scan(&message.ID, &message.ConversationID, &message.OwnerID, &message.Role, &message.Content, &message.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
