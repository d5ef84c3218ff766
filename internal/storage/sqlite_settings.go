package storage

func (s *SQLiteStore) GetSettings() *Settings {
	row := s.db.QueryRow(`SELECT mytoken, profile_token,
		sub_converter, sub_config, file_name,
		sub_update_interval,
		notify_enabled, tg_bot_token, tg_chat_id
		FROM settings WHERE id = 1`)

	settings := &Settings{}
	var notifyEnabled int
	err := row.Scan(
		&settings.MyToken, &settings.ProfileToken,
		&settings.SubConverter, &settings.SubConfig, &settings.FileName,
		&settings.SubUpdateInterval,
		&notifyEnabled, &settings.TGBotToken, &settings.TGChatID,
	)
	if err != nil {
		return DefaultSettings()
	}

	settings.NotifyEnabled = notifyEnabled != 0
	settings.Normalize()

	return settings
}

func (s *SQLiteStore) UpdateSettings(settings *Settings) error {
	settings.Normalize()

	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (id,
		mytoken, profile_token,
		sub_converter, sub_config, file_name,
		sub_update_interval,
		notify_enabled, tg_bot_token, tg_chat_id)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settings.MyToken, settings.ProfileToken,
		settings.SubConverter, settings.SubConfig, settings.FileName,
		settings.SubUpdateInterval,
		boolToInt(settings.NotifyEnabled), settings.TGBotToken, settings.TGChatID)
	return err
}
