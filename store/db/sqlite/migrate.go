package sqlite

import "context"

func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS `user` (" + `
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT    NOT NULL UNIQUE,
			password_hash TEXT    NOT NULL,
			created_ts    BIGINT  NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE TABLE IF NOT EXISTS task (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id    INTEGER NOT NULL,
			title       TEXT    NOT NULL,
			description TEXT,
			completed   INTEGER NOT NULL DEFAULT 0,
			created_ts  BIGINT  NOT NULL DEFAULT (strftime('%s', 'now')),
			updated_ts  BIGINT  NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_task_owner ON task(owner_id)`,
		`CREATE TABLE IF NOT EXISTS conversation (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id   INTEGER NOT NULL,
			created_ts BIGINT  NOT NULL DEFAULT (strftime('%s', 'now')),
			updated_ts BIGINT  NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversation_owner ON conversation(owner_id)`,
		`CREATE TABLE IF NOT EXISTS message (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL REFERENCES conversation(id) ON DELETE CASCADE,
			owner_id        INTEGER NOT NULL,
			role            TEXT    NOT NULL,
			content         TEXT    NOT NULL,
			created_ts      BIGINT  NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_message_conversation ON message(conversation_id)`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
