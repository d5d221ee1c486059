package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/akyairhashvil/studyboard/internal/models"
)

// CreateProject adds an empty project and makes it active.
func (s *State) CreateProject(ctx context.Context, name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, ErrEmptyTitle
	}
	snap := s.snapshot()
	p := s.newProject(name)
	s.projects = append(s.projects, p)
	s.activeID = p.ID
	if err := s.commit(ctx, snap); err != nil {
		return models.Project{}, err
	}
	s.logger.Info("project created", "project", p.ID, "name", name)
	return p, nil
}

func (s *State) RenameProject(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTitle
	}
	idx := s.projectIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	snap := s.snapshot()
	s.projects[idx].Name = name
	return s.commit(ctx, snap)
}

// SetActive selects the project the board shows.
func (s *State) SetActive(ctx context.Context, id string) error {
	if s.projectIndex(id) < 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	snap := s.snapshot()
	s.activeID = id
	return s.commit(ctx, snap)
}

// DeleteProject removes a project and the blobs of its local files. The last project
// cannot be deleted.
func (s *State) DeleteProject(ctx context.Context, id string) error {
	idx := s.projectIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if len(s.projects) == 1 {
		return ErrLastProject
	}
	snap := s.snapshot()
	removed := s.projects[idx]
	s.projects = append(s.projects[:idx:idx], s.projects[idx+1:]...)
	if s.pending != nil && s.pending.projectID == id {
		s.pending = nil
	}
	s.ensureActive()
	if err := s.commit(ctx, snap); err != nil {
		return err
	}

	for _, f := range removed.Files {
		if f.Source != models.SourceLocal {
			continue
		}
		if err := s.repo.DeleteBlob(ctx, f.ID); err != nil {
			s.logger.Warn("delete file blob failed", "project", id, "file", f.ID, "error", err)
		}
	}
	if n, err := s.repo.DeleteProjectBlobs(ctx, id); err != nil {
		s.logger.Warn("delete project blobs failed", "project", id, "error", err)
	} else if n > 0 {
		s.logger.Debug("removed orphaned blobs", "project", id, "count", n)
	}
	s.logger.Info("project deleted", "project", id, "name", removed.Name)
	return nil
}

// UpdateNotes replaces the active project's brain dump.
func (s *State) UpdateNotes(ctx context.Context, notes string) error {
	if s.active().Notes == notes {
		return nil
	}
	snap := s.snapshot()
	s.active().Notes = notes
	return s.commit(ctx, snap)
}

func (s *State) UpdateTimerSettings(ctx context.Context, settings models.TimerSettings) error {
	if settings.FocusMinutes <= 0 || settings.BreakMinutes <= 0 || settings.ExamMinutes <= 0 {
		return fmt.Errorf("timer presets must be positive")
	}
	snap := s.snapshot()
	s.active().Timer = settings
	return s.commit(ctx, snap)
}

// IncrementPomodoro records one completed focus session and returns the new count.
func (s *State) IncrementPomodoro(ctx context.Context) (int, error) {
	snap := s.snapshot()
	p := s.active()
	p.PomodoroCount++
	if err := s.commit(ctx, snap); err != nil {
		return s.active().PomodoroCount, err
	}
	return p.PomodoroCount, nil
}

// DisableRitual turns off the pre-start confirmation for the active project.
func (s *State) DisableRitual(ctx context.Context) error {
	if !s.active().Timer.RitualEnabled {
		return nil
	}
	snap := s.snapshot()
	s.active().Timer.RitualEnabled = false
	return s.commit(ctx, snap)
}
