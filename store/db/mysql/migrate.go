package mysql

import "context"

func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS `user` (" + `
			id            INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_ts    BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS task (
			id          INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			owner_id    INT NOT NULL,
			title       VARCHAR(256) NOT NULL,
			description TEXT NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			created_ts  BIGINT NOT NULL,
			updated_ts  BIGINT NOT NULL,
			KEY idx_task_owner (owner_id)
		)`,
		`CREATE TABLE IF NOT EXISTS conversation (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			owner_id   INT NOT NULL,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			KEY idx_conversation_owner (owner_id)
		)`,
		`CREATE TABLE IF NOT EXISTS message (
			id              INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			conversation_id INT NOT NULL,
			owner_id        INT NOT NULL,
			role            VARCHAR(20) NOT NULL,
			content         MEDIUMTEXT NOT NULL,
			created_ts      BIGINT NOT NULL,
			KEY idx_message_conversation (conversation_id),
			CONSTRAINT fk_message_conversation FOREIGN KEY (conversation_id) REFERENCES conversation(id) ON DELETE CASCADE
		)`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
