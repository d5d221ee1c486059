package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/akyairhashvil/studyboard/internal/database"
	"github.com/akyairhashvil/studyboard/internal/logging"
	"github.com/akyairhashvil/studyboard/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func setupTestDB(t *testing.T, ctx context.Context) *database.Database {
	t.Helper()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
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

func setupState(t *testing.T) (*State, *database.Database, *fakeClock) {
	t.Helper()
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	clock := &fakeClock{now: time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)}
	s, err := Load(ctx, db, WithClock(clock.Now), WithIDGenerator(sequentialIDs()), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s, db, clock
}

func reload(t *testing.T, db *database.Database) *State {
	t.Helper()
	s, err := Load(context.Background(), db, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	return s
}

var errDiskFull = errors.New("disk full")

// failingRepo rejects every state write while fail is set.
type failingRepo struct {
	database.Repository
	fail bool
}

func (r *failingRepo) PutJSONBatch(ctx context.Context, entries map[string]any) error {
	if r.fail {
		return errDiskFull
	}
	return r.Repository.PutJSONBatch(ctx, entries)
}

func setupFailingState(t *testing.T) (*State, *failingRepo, *database.Database) {
	t.Helper()
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	repo := &failingRepo{Repository: db}
	clock := &fakeClock{now: time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)}
	s, err := Load(ctx, repo, WithClock(clock.Now), WithIDGenerator(sequentialIDs()), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s, repo, db
}

// deepProjects copies every project so later in-place edits cannot leak into the copy.
func deepProjects(s *State) []models.Project {
	out := s.Projects()
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}
