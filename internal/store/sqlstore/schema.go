package sqlstore

// Schema is portable across SQLite and PostgreSQL. Timestamps are stored as
// Unix microseconds, string lists and metadata as JSON text.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		content         TEXT NOT NULL,
		tags            TEXT NOT NULL,
		is_idea         BOOLEAN NOT NULL DEFAULT FALSE,
		is_pinned       BOOLEAN NOT NULL DEFAULT FALSE,
		is_favorite     BOOLEAN NOT NULL DEFAULT FALSE,
		is_archived     BOOLEAN NOT NULL DEFAULT FALSE,
		is_deleted      BOOLEAN NOT NULL DEFAULT FALSE,
		linked_item_ids TEXT NOT NULL,
		created_at      BIGINT NOT NULL,
		updated_at      BIGINT NOT NULL,
		archived_at     BIGINT,
		deleted_at      BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS items_state_idx ON items (is_deleted, is_archived)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		item_type   TEXT NOT NULL,
		item_id     TEXT NOT NULL,
		item_title  TEXT NOT NULL,
		description TEXT NOT NULL,
		metadata    TEXT NOT NULL,
		ts          BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS activities_item_ts_idx ON activities (item_id, ts)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		pref_key   TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
}
