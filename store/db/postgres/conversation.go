package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/todoai/todoai/store"
)

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	stmt := `INSERT INTO conversation (owner_id, created_ts, updated_ts)
	         VALUES ($1, $2, $3)
	         RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, create.OwnerID, create.CreatedTs, create.UpdatedTs).Scan(&create.ID); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.OwnerID; v != nil {
		where, args = append(where, "owner_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, owner_id, created_ts, updated_ts
		 FROM conversation WHERE %s ORDER BY updated_ts DESC, id DESC`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Conversation
	for rows.Next() {
		c := &store.Conversation{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.CreatedTs, &c.UpdatedTs); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (d *DB) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	stmt := `UPDATE conversation SET updated_ts = $1 WHERE id = $2
	         RETURNING id, owner_id, created_ts, updated_ts`
	c := &store.Conversation{}
	if err := d.db.QueryRowContext(ctx, stmt, update.UpdatedTs, update.ID).
		Scan(&c.ID, &c.OwnerID, &c.CreatedTs, &c.UpdatedTs); err != nil {
		return nil, err
	}
	return c, nil
}

func (d *DB) CreateMessage(ctx context.Context, create *store.CreateMessage) (*store.Message, error) {
	stmt := `INSERT INTO message (conversation_id, owner_id, role, content, created_ts)
	         VALUES ($1, $2, $3, $4, $5)
	         RETURNING id`
	m := &store.Message{
		ConversationID: create.ConversationID,
		OwnerID:        create.OwnerID,
		Role:           create.Role,
		Content:        create.Content,
		CreatedTs:      create.CreatedTs,
	}
	if err := d.db.QueryRowContext(ctx, stmt, create.ConversationID, create.OwnerID, create.Role, create.Content, create.CreatedTs).
		Scan(&m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	query := `SELECT id, conversation_id, owner_id, role, content, created_ts
	          FROM message WHERE conversation_id = $1 ORDER BY created_ts ASC, id ASC`
	rows, err := d.db.QueryContext(ctx, query, find.ConversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Message
	for rows.Next() {
		m := &store.Message{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.OwnerID, &m.Role, &m.Content, &m.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
