package storage

import "fmt"

// migrate creates missing tables and indexes. Tables are created with
// IF NOT EXISTS so the call is safe on every startup.
func (s *SQLiteStore) migrate() error {
	const settingsSchema = `
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    mytoken TEXT NOT NULL,
    profile_token TEXT NOT NULL,
    sub_converter TEXT NOT NULL DEFAULT '',
    sub_config TEXT NOT NULL DEFAULT '',
    file_name TEXT NOT NULL DEFAULT '',
    sub_update_interval INTEGER NOT NULL DEFAULT 60,
    notify_enabled INTEGER NOT NULL DEFAULT 0,
    tg_bot_token TEXT NOT NULL DEFAULT '',
    tg_chat_id TEXT NOT NULL DEFAULT ''
);
`
	if _, err := s.db.Exec(settingsSchema); err != nil {
		return fmt.Errorf("migrate settings: %w", err)
	}

	const subscriptionsSchema = `
CREATE TABLE IF NOT EXISTS subscriptions (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    url TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    upload INTEGER NOT NULL DEFAULT 0,
    download INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL DEFAULT 0,
    expire_at TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_enabled ON subscriptions(enabled);
`
	if _, err := s.db.Exec(subscriptionsSchema); err != nil {
		return fmt.Errorf("migrate subscriptions: %w", err)
	}

	const profilesSchema = `
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    custom_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    expires_at TIMESTAMP,
    subscriptions_json TEXT NOT NULL DEFAULT '[]',
    manual_nodes_json TEXT NOT NULL DEFAULT '[]',
    sub_converter TEXT NOT NULL DEFAULT '',
    sub_config TEXT NOT NULL DEFAULT '',
    prefix_json TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_custom_id ON profiles(custom_id) WHERE custom_id != '';
`
	if _, err := s.db.Exec(profilesSchema); err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}

	return nil
}
