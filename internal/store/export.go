package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/util"
)

const (
	exportFormat  = "studyboard-project"
	exportVersion = 1
)

type exportDoc struct {
	Format     string        `json:"format"`
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Project    exportProject `json:"project"`
}

type exportProject struct {
	Name          string               `json:"name"`
	Notes         string               `json:"notes"`
	Timer         models.TimerSettings `json:"timerSettings"`
	PomodoroCount int                  `json:"pomodoroCount"`
	Tasks         []exportTask         `json:"tasks"`
	Files         []exportFile         `json:"files"`
	Decks         []exportDeck         `json:"decks,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type exportTask struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Status          models.TaskStatus  `json:"status"`
	Priority        models.Priority    `json:"priority"`
	EstimateMinutes int                `json:"estimatedTime"`
	DueDate         *time.Time         `json:"dueDate,omitempty"`
	Subtasks        []exportSubtask    `json:"subtasks,omitempty"`
	Flashcards      []models.Flashcard `json:"flashcards,omitempty"`
	SprintDay       int                `json:"sprintDay,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

type exportSubtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type exportFile struct {
	Name     string            `json:"name"`
	MimeType string            `json:"type"`
	Size     int64             `json:"size"`
	Source   models.FileSource `json:"source"`
	URL      string            `json:"url,omitempty"`
	Contents string            `json:"contents,omitempty"`
}

type exportDeck struct {
	Title     string             `json:"title"`
	Cards     []models.Flashcard `json:"cards"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ExportOptions controls what goes into an export file.
type ExportOptions struct {
	WithFiles  bool
	Passphrase string
}

// Export serializes a project without identifiers. Local file contents are embedded only
// with WithFiles; a passphrase encrypts the whole document.
func (s *State) Export(ctx context.Context, projectID string, opts ExportOptions) ([]byte, error) {
	p, err := s.Project(projectID)
	if err != nil {
		return nil, err
	}
	if opts.Passphrase != "" {
		if err := util.ValidatePassphrase(opts.Passphrase); err != nil {
			return nil, err
		}
	}

	doc := exportDoc{
		Format:     exportFormat,
		Version:    exportVersion,
		ExportedAt: s.now().UTC(),
		Project: exportProject{
			Name:          p.Name,
			Notes:         p.Notes,
			Timer:         p.Timer,
			PomodoroCount: p.PomodoroCount,
			Tasks:         make([]exportTask, 0, len(p.Tasks)),
			Files:         make([]exportFile, 0, len(p.Files)),
			CreatedAt:     p.CreatedAt,
		},
	}
	for _, t := range p.Tasks {
		et := exportTask{
			Title:           t.Title,
			Description:     t.Description,
			Status:          t.Status,
			Priority:        t.Priority,
			EstimateMinutes: t.EstimateMinutes,
			DueDate:         t.DueDate,
			Flashcards:      t.Flashcards,
			SprintDay:       t.SprintDay,
			CreatedAt:       t.CreatedAt,
		}
		for _, st := range t.Subtasks {
			et.Subtasks = append(et.Subtasks, exportSubtask{Text: st.Text, Completed: st.Completed})
		}
		doc.Project.Tasks = append(doc.Project.Tasks, et)
	}
	for _, f := range p.Files {
		ef := exportFile{Name: f.Name, MimeType: f.MimeType, Size: f.Size, Source: f.Source, URL: f.URL}
		if opts.WithFiles && f.Source == models.SourceLocal && !f.NeedsRehydration {
			blob, err := s.repo.GetBlob(ctx, f.ID)
			if err != nil {
				return nil, fmt.Errorf("export file %s: %w", f.Name, err)
			}
			ef.Contents = base64.StdEncoding.EncodeToString(blob.Data)
		}
		doc.Project.Files = append(doc.Project.Files, ef)
	}
	for _, d := range p.Decks {
		doc.Project.Decks = append(doc.Project.Decks, exportDeck{Title: d.Title, Cards: d.Cards, CreatedAt: d.CreatedAt})
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	if opts.Passphrase == "" {
		return payload, nil
	}
	return encryptExport(payload, opts.Passphrase)
}

// IsEncryptedExport reports whether data is an encrypted export envelope.
func IsEncryptedExport(data []byte) bool {
	var head struct {
		Encrypted bool `json:"encrypted"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return false
	}
	return head.Encrypted
}

// Import adds the exported project as a new project with fresh identifiers and makes it
// active. Local files without embedded contents are flagged for rehydration.
func (s *State) Import(ctx context.Context, data []byte, passphrase string) (models.Project, error) {
	data = bytes.TrimSpace(data)
	if IsEncryptedExport(data) {
		if passphrase == "" {
			return models.Project{}, ErrPassphraseRequired
		}
		plain, err := decryptExport(data, passphrase)
		if err != nil {
			return models.Project{}, err
		}
		data = plain
	}

	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Project{}, fmt.Errorf("%w: %v", ErrUnsupportedExport, err)
	}
	if doc.Format != exportFormat || doc.Version < 1 || doc.Version > exportVersion {
		return models.Project{}, fmt.Errorf("%w: format %q version %d", ErrUnsupportedExport, doc.Format, doc.Version)
	}

	name := strings.TrimSpace(doc.Project.Name)
	if name == "" {
		name = "Imported project"
	}
	p := s.newProject(name)
	p.Notes = doc.Project.Notes
	p.PomodoroCount = doc.Project.PomodoroCount
	if doc.Project.Timer.FocusMinutes > 0 {
		p.Timer = doc.Project.Timer
	}
	if !doc.Project.CreatedAt.IsZero() {
		p.CreatedAt = doc.Project.CreatedAt
	}
	for _, et := range doc.Project.Tasks {
		t := models.Task{
			ID:              s.newID(),
			Title:           et.Title,
			Description:     et.Description,
			Status:          et.Status,
			Priority:        et.Priority,
			EstimateMinutes: et.EstimateMinutes,
			DueDate:         et.DueDate,
			Flashcards:      et.Flashcards,
			SprintDay:       et.SprintDay,
			CreatedAt:       et.CreatedAt,
		}
		for _, st := range et.Subtasks {
			t.Subtasks = append(t.Subtasks, models.Subtask{ID: s.newID(), Text: st.Text, Completed: st.Completed})
		}
		prepared, err := s.prepareTask(t)
		if err != nil {
			return models.Project{}, fmt.Errorf("import task %q: %w", et.Title, err)
		}
		p.Tasks = append(p.Tasks, prepared)
	}

	var blobs []pendingBlob
	for _, ef := range doc.Project.Files {
		f := models.ProjectFile{
			ID:       s.newID(),
			Name:     ef.Name,
			MimeType: ef.MimeType,
			Size:     ef.Size,
			Source:   ef.Source,
			URL:      ef.URL,
		}
		if f.Source == models.SourceLocal {
			if ef.Contents == "" {
				f.NeedsRehydration = true
			} else {
				content, err := base64.StdEncoding.DecodeString(ef.Contents)
				if err != nil {
					return models.Project{}, fmt.Errorf("decode file %s: %w", ef.Name, err)
				}
				f.Size = int64(len(content))
				blobs = append(blobs, pendingBlob{file: f, data: content})
			}
		}
		p.Files = append(p.Files, f)
	}
	for _, d := range doc.Project.Decks {
		p.Decks = append(p.Decks, models.FlashcardDeck{ID: s.newID(), Title: d.Title, Cards: normalizeCards(d.Cards), CreatedAt: d.CreatedAt})
	}

	for i, b := range blobs {
		if err := s.putBlob(ctx, p.ID, b.file, b.data); err != nil {
			for _, done := range blobs[:i] {
				_ = s.repo.DeleteBlob(ctx, done.file.ID)
			}
			return models.Project{}, err
		}
	}
	snap := s.snapshot()
	s.projects = append(s.projects, p)
	s.activeID = p.ID
	if err := s.commit(ctx, snap); err != nil {
		_, _ = s.repo.DeleteProjectBlobs(ctx, p.ID)
		return models.Project{}, err
	}
	s.logger.Info("project imported", "project", p.ID, "tasks", len(p.Tasks), "files", len(p.Files))
	return p, nil
}

type pendingBlob struct {
	file models.ProjectFile
	data []byte
}
