package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/akyairhashvil/studyboard/internal/database"
	"github.com/akyairhashvil/studyboard/internal/models"
)

func TestAttachAndRemoveLocalFile(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	f, err := s.AttachLocalFile(ctx, "/tmp/lecture.pdf", "", []byte("%PDF"))
	if err != nil {
		t.Fatalf("AttachLocalFile failed: %v", err)
	}
	if f.Name != "lecture.pdf" || f.MimeType != "application/pdf" || f.Size != 4 {
		t.Fatalf("unexpected file %+v", f)
	}
	_, data, err := s.FileData(ctx, f.ID)
	if err != nil || !bytes.Equal(data, []byte("%PDF")) {
		t.Fatalf("FileData = %q, %v", data, err)
	}
	report, err := s.VerifyFiles(ctx)
	if err != nil || !report.OK() {
		t.Fatalf("VerifyFiles = %+v, %v", report, err)
	}

	if err := s.RemoveFile(ctx, f.ID); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
	if _, err := db.GetBlob(ctx, f.ID); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected blob removed, got %v", err)
	}
	if len(s.Active().Files) != 0 {
		t.Fatalf("expected file record removed")
	}
}

func TestAttachLink(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupState(t)
	f, err := s.AttachLink(ctx, "", "https://example.com/syllabus")
	if err != nil {
		t.Fatalf("AttachLink failed: %v", err)
	}
	if f.Source != models.SourceLink || f.Name != "example.com/syllabus" {
		t.Fatalf("unexpected link %+v", f)
	}
	if _, _, err := s.FileData(ctx, f.ID); !errors.Is(err, ErrNotLocalFile) {
		t.Fatalf("expected ErrNotLocalFile, got %v", err)
	}
	if _, err := s.AttachLink(ctx, "bad", "ftp://example.com"); err == nil {
		t.Fatal("expected error for non-http link")
	}
}

func TestFileSizeLimit(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupState(t)
	s.maxFileBytes = 3
	if _, err := s.AttachLocalFile(ctx, "big.txt", "text/plain", []byte("four")); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestVerifyFilesReportsDivergence(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	f, err := s.AttachLocalFile(ctx, "a.txt", "text/plain", []byte("a"))
	if err != nil {
		t.Fatalf("AttachLocalFile failed: %v", err)
	}
	if err := db.DeleteBlob(ctx, f.ID); err != nil {
		t.Fatalf("DeleteBlob failed: %v", err)
	}
	orphan := database.Blob{BlobInfo: database.BlobInfo{ID: "stray", Name: "stray.bin"}, Data: []byte{1}}
	if err := db.PutBlob(ctx, orphan); err != nil {
		t.Fatalf("PutBlob failed: %v", err)
	}
	report, err := s.VerifyFiles(ctx)
	if err != nil {
		t.Fatalf("VerifyFiles failed: %v", err)
	}
	if len(report.MissingBlobs) != 1 || report.MissingBlobs[0] != f.ID {
		t.Fatalf("expected missing %q, got %+v", f.ID, report)
	}
	if len(report.OrphanBlobs) != 1 || report.OrphanBlobs[0] != "stray" {
		t.Fatalf("expected orphan stray, got %+v", report)
	}
}
