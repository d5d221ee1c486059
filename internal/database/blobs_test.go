package database

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestBlobLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)

	blob := Blob{
		BlobInfo: BlobInfo{ID: "f1", ProjectID: "p1", Name: "notes.pdf", MimeType: "application/pdf"},
		Data:     []byte("%PDF-1.4"),
	}
	if err := db.PutBlob(ctx, blob); err != nil {
		t.Fatalf("PutBlob failed: %v", err)
	}
	got, err := db.GetBlob(ctx, "f1")
	if err != nil {
		t.Fatalf("GetBlob failed: %v", err)
	}
	if !bytes.Equal(got.Data, blob.Data) || got.Size != int64(len(blob.Data)) || got.Name != "notes.pdf" {
		t.Fatalf("unexpected blob %+v", got.BlobInfo)
	}
	if ok, err := db.HasBlob(ctx, "f1"); err != nil || !ok {
		t.Fatalf("HasBlob = %v, %v", ok, err)
	}

	if err := db.DeleteBlob(ctx, "f1"); err != nil {
		t.Fatalf("DeleteBlob failed: %v", err)
	}
	_, err = db.GetBlob(ctx, "f1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBlobsByProject(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	for _, b := range []Blob{
		{BlobInfo: BlobInfo{ID: "a", ProjectID: "p1", Name: "a.txt"}, Data: []byte("a")},
		{BlobInfo: BlobInfo{ID: "b", ProjectID: "p1", Name: "b.txt"}, Data: []byte("b")},
		{BlobInfo: BlobInfo{ID: "c", ProjectID: "p2", Name: "c.txt"}, Data: []byte("c")},
	} {
		if err := db.PutBlob(ctx, b); err != nil {
			t.Fatalf("PutBlob %s failed: %v", b.ID, err)
		}
	}

	ids, err := db.ListBlobIDs(ctx, "p1")
	if err != nil {
		t.Fatalf("ListBlobIDs failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Fatalf("ListBlobIDs = %v", ids)
	}

	infos, err := db.ListBlobs(ctx, NewBlobQuery().WhereIDs([]string{"c", "missing"}))
	if err != nil {
		t.Fatalf("ListBlobs failed: %v", err)
	}
	if len(infos) != 1 || infos[0].ProjectID != "p2" {
		t.Fatalf("ListBlobs = %+v", infos)
	}

	removed, err := db.DeleteProjectBlobs(ctx, "p1")
	if err != nil {
		t.Fatalf("DeleteProjectBlobs failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	all, err := db.ListBlobIDs(ctx, "")
	if err != nil {
		t.Fatalf("ListBlobIDs failed: %v", err)
	}
	if !reflect.DeepEqual(all, []string{"c"}) {
		t.Fatalf("remaining blobs = %v", all)
	}
}

func TestBlobQueryBuild(t *testing.T) {
	query, args := NewBlobQuery().WhereProject("p1").WhereIDs([]string{"x", "y"}).OrderBy("id").Limit(5).Build()
	want := "SELECT " + blobInfoColumns + " FROM blobs WHERE project_id = ? AND id IN (?,?) ORDER BY id LIMIT 5"
	if query != want {
		t.Fatalf("Build() = %q\nwant %q", query, want)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	empty, _ := NewBlobQuery().WhereIDs(nil).Build()
	if empty != "SELECT "+blobInfoColumns+" FROM blobs WHERE 1 = 0" {
		t.Fatalf("empty ID list should match nothing, got %q", empty)
	}
}
