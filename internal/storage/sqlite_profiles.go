package storage

import (
	"database/sql"
	"encoding/json"
	"time"
)

const profileColumns = `id, custom_id, name, enabled, expires_at,
	subscriptions_json, manual_nodes_json, sub_converter, sub_config, prefix_json, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var (
		p          Profile
		enabled    int
		expiresAt  sql.NullTime
		subsJSON   string
		nodesJSON  string
		prefixJSON string
	)
	if err := row.Scan(&p.ID, &p.CustomID, &p.Name, &enabled, &expiresAt,
		&subsJSON, &nodesJSON, &p.SubConverter, &p.SubConfig, &prefixJSON, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Enabled = enabled != 0
	p.ExpiresAt = scanNullTime(expiresAt)
	p.Subscriptions = decodeStrings(subsJSON)
	p.ManualNodes = decodeStrings(nodesJSON)
	if prefixJSON != "" {
		var prefix PrefixSettings
		if err := json.Unmarshal([]byte(prefixJSON), &prefix); err == nil {
			p.Prefix = &prefix
		}
	}
	return &p, nil
}

func encodePrefix(prefix *PrefixSettings) string {
	if prefix == nil {
		return ""
	}
	data, err := json.Marshal(prefix)
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *SQLiteStore) GetProfiles() []Profile {
	rows, err := s.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY updated_at ASC, id ASC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			continue
		}
		profiles = append(profiles, *p)
	}
	return profiles
}

func (s *SQLiteStore) GetProfile(id string) *Profile {
	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil
	}
	return p
}

func (s *SQLiteStore) AddProfile(profile Profile) error {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO profiles (id, custom_id, name, enabled, expires_at,
		subscriptions_json, manual_nodes_json, sub_converter, sub_config, prefix_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.CustomID, profile.Name, boolToInt(profile.Enabled),
		nullableTime(profile.ExpiresAt),
		encodeStrings(profile.Subscriptions), encodeStrings(profile.ManualNodes),
		profile.SubConverter, profile.SubConfig, encodePrefix(profile.Prefix),
		profile.UpdatedAt.UTC())
	return err
}

func (s *SQLiteStore) UpdateProfile(profile Profile) error {
	profile.UpdatedAt = time.Now()
	_, err := s.db.Exec(`UPDATE profiles SET custom_id = ?, name = ?, enabled = ?, expires_at = ?,
		subscriptions_json = ?, manual_nodes_json = ?, sub_converter = ?, sub_config = ?, prefix_json = ?, updated_at = ?
		WHERE id = ?`,
		profile.CustomID, profile.Name, boolToInt(profile.Enabled),
		nullableTime(profile.ExpiresAt),
		encodeStrings(profile.Subscriptions), encodeStrings(profile.ManualNodes),
		profile.SubConverter, profile.SubConfig, encodePrefix(profile.Prefix),
		profile.UpdatedAt.UTC(),
		profile.ID)
	return err
}

func (s *SQLiteStore) DeleteProfile(id string) error {
	_, err := s.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	return err
}
