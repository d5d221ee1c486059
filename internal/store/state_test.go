package store

import (
	"context"
	"errors"
	"testing"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/logging"
)

func TestLoadSynthesizesDefaultProject(t *testing.T) {
	s, db, _ := setupState(t)
	projects := s.Projects()
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].Name != config.DefaultProjectName {
		t.Fatalf("expected default name, got %q", projects[0].Name)
	}
	if s.ActiveID() != projects[0].ID {
		t.Fatalf("active id %q does not match project %q", s.ActiveID(), projects[0].ID)
	}
	if !projects[0].Timer.RitualEnabled || projects[0].Timer.FocusMinutes != 25 {
		t.Fatalf("unexpected timer defaults %+v", projects[0].Timer)
	}

	again := reload(t, db)
	if again.ActiveID() != s.ActiveID() {
		t.Fatalf("expected persisted active id %q, got %q", s.ActiveID(), again.ActiveID())
	}
}

func TestLoadFallsBackToFirstProject(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	first := s.ActiveID()
	if _, err := s.CreateProject(ctx, "Physics"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if err := db.PutJSON(ctx, keyActiveID, "missing-project"); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}
	again := reload(t, db)
	if again.ActiveID() != first {
		t.Fatalf("expected fallback to first project %q, got %q", first, again.ActiveID())
	}
}

func TestDeleteActiveProjectSelectsFirstRemaining(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupState(t)
	first := s.ActiveID()
	second, err := s.CreateProject(ctx, "Chemistry")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if s.ActiveID() != second.ID {
		t.Fatalf("new project should become active")
	}
	if err := s.DeleteProject(ctx, second.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if s.ActiveID() != first {
		t.Fatalf("expected active to fall back to %q, got %q", first, s.ActiveID())
	}
	if err := s.DeleteProject(ctx, first); !errors.Is(err, ErrLastProject) {
		t.Fatalf("expected ErrLastProject, got %v", err)
	}
}

func TestDeleteProjectRemovesBlobs(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	keep := s.ActiveID()
	if _, err := s.CreateProject(ctx, "Biology"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	f, err := s.AttachLocalFile(ctx, "cells.txt", "", []byte("mitochondria"))
	if err != nil {
		t.Fatalf("AttachLocalFile failed: %v", err)
	}
	if err := s.DeleteProject(ctx, s.ActiveID()); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if ok, err := db.HasBlob(ctx, f.ID); err != nil || ok {
		t.Fatalf("expected blob removed, has=%v err=%v", ok, err)
	}
	if s.ActiveID() != keep {
		t.Fatalf("expected active %q, got %q", keep, s.ActiveID())
	}
}

func TestThemePersists(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	if s.Theme() != ThemeDark {
		t.Fatalf("expected dark default, got %q", s.Theme())
	}
	if err := s.SetTheme(ctx, s.Theme().Toggle()); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if got := reload(t, db).Theme(); got != ThemeLight {
		t.Fatalf("expected persisted light theme, got %q", got)
	}
}

func TestProjectSettings(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	if err := s.UpdateNotes(ctx, "remember: integrals"); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	count, err := s.IncrementPomodoro(ctx)
	if err != nil || count != 1 {
		t.Fatalf("IncrementPomodoro = %d, %v", count, err)
	}
	if err := s.DisableRitual(ctx); err != nil {
		t.Fatalf("DisableRitual failed: %v", err)
	}
	if err := s.RenameProject(ctx, s.ActiveID(), "Finals"); err != nil {
		t.Fatalf("RenameProject failed: %v", err)
	}
	p := reload(t, db).Active()
	if p.Notes != "remember: integrals" || p.PomodoroCount != 1 || p.Timer.RitualEnabled || p.Name != "Finals" {
		t.Fatalf("unexpected persisted project %+v", p)
	}
	if _, err := s.FindProject("finals"); err != nil {
		t.Fatalf("FindProject by name failed: %v", err)
	}
}

func TestLoadMigratesLegacyArray(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	legacy := `[{"id":"p1","name":"Old","tasks":[{"id":"t1","title":"Read","priority":1,"dueDate":"2024-01-02","flashcards":[{"question":"q","answer":"a"}]}]}]`
	if err := db.SetString(ctx, keyProjects, legacy); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	s, err := Load(ctx, db, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p := s.Active()
	if p.ID != "p1" || p.Timer.FocusMinutes != config.DefaultFocusMinutes {
		t.Fatalf("unexpected migrated project %+v", p)
	}
	task := p.Tasks[0]
	if task.Status != "todo" || task.Priority != "urgent-important" {
		t.Fatalf("unexpected migrated task %+v", task)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2024-01-02" {
		t.Fatalf("expected due date migrated, got %v", task.DueDate)
	}
	if task.Flashcards[0].Status != "new" {
		t.Fatalf("expected card status new, got %q", task.Flashcards[0].Status)
	}

	var env envelope
	if _, err := db.GetJSON(ctx, keyProjects, &env); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if env.Version != CurrentSchemaVersion {
		t.Fatalf("expected re-save at version %d, got %d", CurrentSchemaVersion, env.Version)
	}
}

func TestLoadRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.SetString(ctx, keyProjects, `{"version":99,"projects":[]}`); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if _, err := Load(ctx, db, WithLogger(logging.Discard())); err == nil {
		t.Fatal("expected error for newer schema")
	}
}

func TestMigrationsCoverEveryVersion(t *testing.T) {
	for v := 0; v < CurrentSchemaVersion; v++ {
		if _, ok := migrations[v]; !ok {
			t.Fatalf("missing migration from version %d", v)
		}
	}
}
