package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const upsertKV = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// GetString returns the raw value stored under key.
func (d *Database) GetString(ctx context.Context, key string) (string, bool, error) {
	type result struct {
		value string
		found bool
	}
	res, err := withDBContextResult(d, ctx, func(ctx context.Context) (result, error) {
		var value string
		err := d.DB.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return result{}, nil
		}
		if err != nil {
			return result{}, opErr("get", "key", key, err)
		}
		return result{value: value, found: true}, nil
	})
	return res.value, res.found, err
}

// SetString stores value under key, replacing any previous value.
func (d *Database) SetString(ctx context.Context, key, value string) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		_, err := d.DB.ExecContext(ctx, upsertKV, key, value)
		return opErr("set", "key", key, err)
	})
}

// GetJSON decodes the value under key into dst. found is false when the key is absent.
func (d *Database) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := d.GetString(ctx, key)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, opErr("decode", "key", key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func (d *Database) PutJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return opErr("encode", "key", key, err)
	}
	return d.SetString(ctx, key, string(payload))
}

// PutJSONBatch writes several keys atomically.
func (d *Database) PutJSONBatch(ctx context.Context, entries map[string]any) error {
	encoded := make(map[string]string, len(entries))
	for key, v := range entries {
		payload, err := json.Marshal(v)
		if err != nil {
			return opErr("encode", "key", key, err)
		}
		encoded[key] = string(payload)
	}
	return d.WithTx(ctx, func(tx *sql.Tx) error {
		for key, value := range encoded {
			if _, err := tx.ExecContext(ctx, upsertKV, key, value); err != nil {
				return opErr("set", "key", key, err)
			}
		}
		return nil
	})
}

// Delete removes key; deleting a missing key is not an error.
func (d *Database) Delete(ctx context.Context, key string) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		_, err := d.DB.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
		return opErr("delete", "key", key, err)
	})
}

// Keys lists every stored key in lexical order.
func (d *Database) Keys(ctx context.Context) ([]string, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) ([]string, error) {
		rows, err := d.DB.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
		if err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}
		defer rows.Close()
		var keys []string
		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				return nil, fmt.Errorf("scan key: %w", err)
			}
			keys = append(keys, key)
		}
		return keys, rows.Err()
	})
}
