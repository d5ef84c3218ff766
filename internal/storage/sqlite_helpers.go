package storage

import (
	"database/sql"
	"encoding/json"
	"time"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableTime converts an optional time for binding; nil maps to SQL NULL.
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func scanNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// encodeStrings serializes a string slice column, defaulting to "[]".
func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeStrings(encoded string) []string {
	var values []string
	if encoded != "" {
		json.Unmarshal([]byte(encoded), &values)
	}
	if values == nil {
		values = []string{}
	}
	return values
}
