package store

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/akyairhashvil/studyboard/internal/database"
	"github.com/akyairhashvil/studyboard/internal/models"
)

// AttachLocalFile stores data in the blob store and records the file on the active project.
func (s *State) AttachLocalFile(ctx context.Context, name, mimeType string, data []byte) (models.ProjectFile, error) {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." {
		return models.ProjectFile{}, ErrEmptyTitle
	}
	if s.maxFileBytes > 0 && int64(len(data)) > s.maxFileBytes {
		return models.ProjectFile{}, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, name, len(data), s.maxFileBytes)
	}
	if mimeType == "" {
		mimeType = guessMime(name)
	}
	p := s.active()
	file := models.ProjectFile{
		ID:       s.newID(),
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Source:   models.SourceLocal,
	}
	if err := s.putBlob(ctx, p.ID, file, data); err != nil {
		return models.ProjectFile{}, err
	}
	snap := s.snapshot()
	p.Files = append(p.Files, file)
	if err := s.commit(ctx, snap); err != nil {
		if delErr := s.repo.DeleteBlob(ctx, file.ID); delErr != nil {
			s.logger.Warn("rollback blob failed", "file", file.ID, "error", delErr)
		}
		return models.ProjectFile{}, err
	}
	return file, nil
}

// AttachLink records an external link on the active project.
func (s *State) AttachLink(ctx context.Context, name, rawURL string) (models.ProjectFile, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.ProjectFile{}, fmt.Errorf("invalid link %q", rawURL)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = u.Host + u.Path
	}
	file := models.ProjectFile{
		ID:     s.newID(),
		Name:   name,
		Source: models.SourceLink,
		URL:    u.String(),
	}
	snap := s.snapshot()
	p := s.active()
	p.Files = append(p.Files, file)
	if err := s.commit(ctx, snap); err != nil {
		return models.ProjectFile{}, err
	}
	return file, nil
}

// RemoveFile deletes the file record and, for local files, its blob. The record is saved
// first; a blob left behind by a failed delete shows up as an orphan in VerifyFiles.
func (s *State) RemoveFile(ctx context.Context, id string) error {
	p := s.active()
	idx := p.FileIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	file := p.Files[idx]
	snap := s.snapshot()
	p.Files = append(p.Files[:idx:idx], p.Files[idx+1:]...)
	if err := s.commit(ctx, snap); err != nil {
		return err
	}
	if file.Source != models.SourceLocal {
		return nil
	}
	if err := s.repo.DeleteBlob(ctx, id); err != nil {
		s.logger.Warn("delete file blob failed", "file", id, "error", err)
	}
	return nil
}

// RehydrateFile supplies the content of a local file that was imported without it.
func (s *State) RehydrateFile(ctx context.Context, id string, data []byte) error {
	p := s.active()
	idx := p.FileIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	file := &p.Files[idx]
	if file.Source != models.SourceLocal {
		return ErrNotLocalFile
	}
	if s.maxFileBytes > 0 && int64(len(data)) > s.maxFileBytes {
		return fmt.Errorf("%w: %s", ErrFileTooLarge, file.Name)
	}
	updated := *file
	updated.Size = int64(len(data))
	updated.NeedsRehydration = false
	if err := s.putBlob(ctx, p.ID, updated, data); err != nil {
		return err
	}
	snap := s.snapshot()
	*file = updated
	return s.commit(ctx, snap)
}

// FileData loads the content of a local file on the active project.
func (s *State) FileData(ctx context.Context, id string) (models.ProjectFile, []byte, error) {
	p := s.active()
	idx := p.FileIndex(id)
	if idx < 0 {
		return models.ProjectFile{}, nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	file := p.Files[idx]
	if file.Source != models.SourceLocal {
		return file, nil, ErrNotLocalFile
	}
	blob, err := s.repo.GetBlob(ctx, id)
	if err != nil {
		return file, nil, err
	}
	return file, blob.Data, nil
}

func (s *State) putBlob(ctx context.Context, projectID string, f models.ProjectFile, data []byte) error {
	return s.repo.PutBlob(ctx, database.Blob{
		BlobInfo: database.BlobInfo{
			ID:        f.ID,
			ProjectID: projectID,
			Name:      f.Name,
			MimeType:  f.MimeType,
			Size:      int64(len(data)),
		},
		Data: data,
	})
}

// FileReport lists divergences between file records and the blob store.
type FileReport struct {
	MissingBlobs []string
	OrphanBlobs  []string
	Pending      []string
}

func (r FileReport) OK() bool {
	return len(r.MissingBlobs) == 0 && len(r.OrphanBlobs) == 0
}

// VerifyFiles checks every project: local files need a blob unless awaiting rehydration,
// and every blob needs a local file record.
func (s *State) VerifyFiles(ctx context.Context) (FileReport, error) {
	var report FileReport
	known := map[string]struct{}{}
	for _, p := range s.projects {
		for _, f := range p.Files {
			if f.Source != models.SourceLocal {
				continue
			}
			known[f.ID] = struct{}{}
			if f.NeedsRehydration {
				report.Pending = append(report.Pending, f.ID)
				continue
			}
			ok, err := s.repo.HasBlob(ctx, f.ID)
			if err != nil {
				return report, err
			}
			if !ok {
				report.MissingBlobs = append(report.MissingBlobs, f.ID)
			}
		}
	}
	ids, err := s.repo.ListBlobIDs(ctx, "")
	if err != nil {
		return report, err
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			report.OrphanBlobs = append(report.OrphanBlobs, id)
		}
	}
	if !report.OK() {
		s.logger.Warn("file store diverged", "missing", len(report.MissingBlobs), "orphans", len(report.OrphanBlobs))
	}
	return report, nil
}

// IsMissingBlob reports whether err means a blob was not found.
func IsMissingBlob(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

func guessMime(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}
