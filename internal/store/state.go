// Package store owns the application state: every project, the active selection and the
// theme. Each mutation is followed by an explicit save to the database.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/database"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/google/uuid"
)

// Theme is the persisted light/dark preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// State is the single in-memory copy of everything the user sees.
type State struct {
	repo          database.Repository
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
	timerDefaults models.TimerSettings
	maxFileBytes  int64

	projects []models.Project
	activeID string
	theme    Theme
	pending  *pendingDelete
}

// Option customizes a State.
type Option func(*State)

func WithLogger(logger *slog.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock injects the time source used for timestamps and the undo window.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *State) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithTimerDefaults sets the timer presets given to new projects.
func WithTimerDefaults(settings models.TimerSettings) Option {
	return func(s *State) {
		s.timerDefaults = settings
	}
}

// WithMaxFileBytes caps the size of local file uploads; zero disables the cap.
func WithMaxFileBytes(limit int64) Option {
	return func(s *State) {
		s.maxFileBytes = limit
	}
}

// Load reads persisted state, migrating older schemas and repairing the active project.
func Load(ctx context.Context, repo database.Repository, opts ...Option) (*State, error) {
	s := &State{
		repo:          repo,
		logger:        slog.Default(),
		now:           time.Now,
		newID:         uuid.NewString,
		timerDefaults: models.DefaultTimerSettings(),
		theme:         ThemeDark,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")

	dirty, err := s.loadProjects(ctx)
	if err != nil {
		return nil, err
	}

	var activeID string
	if _, err := repo.GetJSON(ctx, keyActiveID, &activeID); err != nil {
		return nil, fmt.Errorf("load active project: %w", err)
	}
	s.activeID = activeID

	var theme string
	if _, err := repo.GetJSON(ctx, keyTheme, &theme); err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if Theme(theme) == ThemeLight {
		s.theme = ThemeLight
	}

	if s.ensureActive() {
		dirty = true
	}
	if dirty {
		if err := s.save(ctx); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("state loaded", "projects", len(s.projects), "active", s.activeID)
	return s, nil
}

func (s *State) loadProjects(ctx context.Context) (bool, error) {
	raw, found, err := s.repo.GetString(ctx, keyProjects)
	if err != nil {
		return false, fmt.Errorf("load projects: %w", err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	docs, version, err := decodeProjects([]byte(strings.TrimSpace(raw)))
	if err != nil {
		return false, err
	}
	if err := migrate(docs, version); err != nil {
		return false, err
	}
	if err := remarshal(docs, &s.projects); err != nil {
		return false, fmt.Errorf("decode migrated projects: %w", err)
	}
	for i := range s.projects {
		normalizeProject(&s.projects[i])
	}
	if version != CurrentSchemaVersion {
		s.logger.Info("migrated persisted projects", "from", version, "to", CurrentSchemaVersion)
		return true, nil
	}
	return false, nil
}

func normalizeProject(p *models.Project) {
	if p.Tasks == nil {
		p.Tasks = []models.Task{}
	}
	if p.Files == nil {
		p.Files = []models.ProjectFile{}
	}
	for i := range p.Tasks {
		for j := range p.Tasks[i].Flashcards {
			c := &p.Tasks[i].Flashcards[j]
			c.Status = c.Status.Normalize()
		}
	}
}

// ensureActive makes activeID resolve to an existing project, synthesizing one if needed.
// It reports whether anything changed.
func (s *State) ensureActive() bool {
	if len(s.projects) == 0 {
		p := s.newProject(config.DefaultProjectName)
		s.projects = append(s.projects, p)
		s.activeID = p.ID
		return true
	}
	if s.projectIndex(s.activeID) >= 0 {
		return false
	}
	s.activeID = s.projects[0].ID
	return true
}

func (s *State) newProject(name string) models.Project {
	return models.Project{
		ID:        s.newID(),
		Name:      name,
		Tasks:     []models.Task{},
		Timer:     s.timerDefaults,
		Files:     []models.ProjectFile{},
		CreatedAt: s.now().UTC(),
	}
}

// save writes the whole state back. Every mutating method calls it before returning.
func (s *State) save(ctx context.Context) error {
	payload, err := marshalRaw(s.projects)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	err = s.repo.PutJSONBatch(ctx, map[string]any{
		keyProjects: envelope{Version: CurrentSchemaVersion, Projects: payload},
		keyActiveID: s.activeID,
		keyTheme:    string(s.theme),
	})
	if err != nil {
		s.logger.Error("save state failed", "error", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// snapshot captures everything save writes, plus the pending undo.
type snapshot struct {
	projects []models.Project
	activeID string
	theme    Theme
	pending  *pendingDelete
}

func (s *State) snapshot() snapshot {
	projects := make([]models.Project, len(s.projects))
	for i, p := range s.projects {
		projects[i] = p.Clone()
	}
	return snapshot{projects: projects, activeID: s.activeID, theme: s.theme, pending: s.pending}
}

// commit saves the state. When the write fails the in-memory state is reset to snap, so
// memory never runs ahead of the database.
func (s *State) commit(ctx context.Context, snap snapshot) error {
	if err := s.save(ctx); err != nil {
		s.projects = snap.projects
		s.activeID = snap.activeID
		s.theme = snap.theme
		s.pending = snap.pending
		return err
	}
	return nil
}

func (s *State) projectIndex(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

// project returns the live project with id.
func (s *State) project(id string) (*models.Project, error) {
	idx := s.projectIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return &s.projects[idx], nil
}

func (s *State) active() *models.Project {
	return &s.projects[s.projectIndex(s.activeID)]
}

// Projects returns a snapshot of every project in order.
func (s *State) Projects() []models.Project {
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Active returns a snapshot of the active project.
func (s *State) Active() models.Project {
	return *s.active()
}

func (s *State) ActiveID() string {
	return s.activeID
}

// Project returns a snapshot of the project with id.
func (s *State) Project(id string) (models.Project, error) {
	idx := s.projectIndex(id)
	if idx < 0 {
		return models.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return s.projects[idx], nil
}

// FindProject resolves a project by id or case-insensitive name.
func (s *State) FindProject(ref string) (models.Project, error) {
	if idx := s.projectIndex(ref); idx >= 0 {
		return s.projects[idx], nil
	}
	for _, p := range s.projects {
		if strings.EqualFold(p.Name, strings.TrimSpace(ref)) {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, ref)
}

func (s *State) Theme() Theme {
	return s.theme
}

func (s *State) SetTheme(ctx context.Context, theme Theme) error {
	if theme != ThemeLight {
		theme = ThemeDark
	}
	snap := s.snapshot()
	s.theme = theme
	return s.commit(ctx, snap)
}
