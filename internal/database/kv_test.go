package database

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

type sampleDoc struct {
	Version int      `json:"version"`
	Names   []string `json:"names"`
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)

	var missing sampleDoc
	found, err := db.GetJSON(ctx, "projects", &missing)
	if err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}

	want := sampleDoc{Version: 2, Names: []string{"Calculus", "Physics"}}
	if err := db.PutJSON(ctx, "projects", want); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}
	var got sampleDoc
	found, err = db.GetJSON(ctx, "projects", &got)
	if err != nil || !found {
		t.Fatalf("GetJSON failed: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetJSON = %+v, want %+v", got, want)
	}
}

func TestSetStringOverwrites(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.SetString(ctx, "theme", "light"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if err := db.SetString(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetString overwrite failed: %v", err)
	}
	value, found, err := db.GetString(ctx, "theme")
	if err != nil || !found || value != "dark" {
		t.Fatalf("GetString = %q found=%v err=%v", value, found, err)
	}
	if err := db.Delete(ctx, "theme"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := db.Delete(ctx, "theme"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
	keys, err := db.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestGetJSONDecodeError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.SetString(ctx, "projects", "{not json"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	var doc sampleDoc
	found, err := db.GetJSON(ctx, "projects", &doc)
	if !found || err == nil {
		t.Fatalf("expected decode error, found=%v err=%v", found, err)
	}
}

func TestPutJSONBatch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	err := db.PutJSONBatch(ctx, map[string]any{
		"projects":          sampleDoc{Version: 1},
		"active_project_id": "p1",
	})
	if err != nil {
		t.Fatalf("PutJSONBatch failed: %v", err)
	}
	keys, err := db.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"active_project_id", "projects"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
	raw, _, _ := db.GetString(ctx, "active_project_id")
	if raw != `"p1"` {
		t.Fatalf("expected JSON-encoded string, got %q", raw)
	}
}

func TestConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := db.SetString(ctx, "notes", fmt.Sprintf("draft %d", i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}
}
