package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T, ctx context.Context) *Database {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("db close failed: %v", err)
		}
	})
	return db
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	path := db.Path()
	if err := db.Close(); err != nil {
		t.Fatalf("db close failed: %v", err)
	}
	again, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open second run failed: %v", err)
	}
	defer again.Close()

	var version int
	if err := again.DB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version failed: %v", err)
	}
	if version != SchemaVersion() {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion(), version)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if _, err := db.DB.ExecContext(ctx, "PRAGMA user_version = 1"); err != nil {
		t.Fatalf("reset user_version failed: %v", err)
	}
	if err := db.migrate(ctx); err != nil {
		t.Fatalf("migrate after partial rollback failed: %v", err)
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.db")
	garbage := make([]byte, 4096)
	for i := range garbage {
		garbage[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, garbage, 0o600); err != nil {
		t.Fatalf("write garbage failed: %v", err)
	}
	_, err := Open(context.Background(), path)
	if !errors.Is(err, ErrDatabaseCorrupted) {
		t.Fatalf("expected ErrDatabaseCorrupted, got %v", err)
	}
}

func TestIsIgnorableMigrationErr(t *testing.T) {
	if !isIgnorableMigrationErr(errors.New("duplicate column name: project_id")) {
		t.Fatalf("expected duplicate column error to be ignorable")
	}
	if isIgnorableMigrationErr(errors.New("no such table: blobs")) {
		t.Fatalf("expected missing table error to be non-ignorable")
	}
}

func TestWithTxRollback(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO kv (key, value) VALUES (?, ?)", "tx", "1"); err != nil {
			return err
		}
		return fmt.Errorf("force rollback")
	})
	if err == nil {
		t.Fatalf("expected error from WithTx")
	}
	if _, found, err := db.GetString(ctx, "tx"); err != nil || found {
		t.Fatalf("expected rollback to discard key, found=%v err=%v", found, err)
	}
}

func TestOpErrorFormatting(t *testing.T) {
	err := opErr("get", "blob", "abc", ErrNotFound)
	if err.Error() != "get blob abc: not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var oe *OpError
	if !errors.As(err, &oe) || oe.Resource != "blob" {
		t.Fatalf("expected OpError, got %T", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound to unwrap")
	}
	if got := opErr("list", "blobs", "", errors.New("boom")).Error(); got != "list blobs: boom" {
		t.Fatalf("unexpected message without id %q", got)
	}
	if opErr("set", "key", "x", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}
