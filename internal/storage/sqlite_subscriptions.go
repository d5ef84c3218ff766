package storage

import (
	"database/sql"
	"time"
)

const subscriptionColumns = `id, name, url, enabled, upload, download, total, expire_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }) (*Subscription, error) {
	var (
		sub      Subscription
		enabled  int
		expireAt sql.NullTime
	)
	if err := row.Scan(&sub.ID, &sub.Name, &sub.URL, &enabled,
		&sub.Upload, &sub.Download, &sub.Total, &expireAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	sub.Enabled = enabled != 0
	sub.ExpireAt = scanNullTime(expireAt)
	return &sub, nil
}

func (s *SQLiteStore) GetSubscriptions() []Subscription {
	rows, err := s.db.Query(`SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY updated_at ASC, id ASC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			continue
		}
		subs = append(subs, *sub)
	}
	return subs
}

func (s *SQLiteStore) GetSubscription(id string) *Subscription {
	row := s.db.QueryRow(`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil
	}
	return sub
}

func (s *SQLiteStore) AddSubscription(sub Subscription) error {
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO subscriptions (id, name, url, enabled, upload, download, total, expire_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.URL, boolToInt(sub.Enabled),
		sub.Upload, sub.Download, sub.Total, nullableTime(sub.ExpireAt), sub.UpdatedAt.UTC())
	return err
}

func (s *SQLiteStore) UpdateSubscription(sub Subscription) error {
	sub.UpdatedAt = time.Now()
	_, err := s.db.Exec(`UPDATE subscriptions SET name = ?, url = ?, enabled = ?,
		upload = ?, download = ?, total = ?, expire_at = ?, updated_at = ?
		WHERE id = ?`,
		sub.Name, sub.URL, boolToInt(sub.Enabled),
		sub.Upload, sub.Download, sub.Total, nullableTime(sub.ExpireAt), sub.UpdatedAt.UTC(),
		sub.ID)
	return err
}

func (s *SQLiteStore) DeleteSubscription(id string) error {
	_, err := s.db.Exec(`DELETE FROM subscriptions WHERE id = ?`, id)
	return err
}
