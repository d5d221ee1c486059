package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/testutil"
	"github.com/akyairhashvil/studyboard/internal/util"
)

func addThree(t *testing.T, s *State) []models.Task {
	t.Helper()
	added, err := s.AddTasks(context.Background(), []models.Task{
		testutil.NewTask().WithTitle("Read chapter 1").Build(),
		testutil.NewTask().WithTitle("Problem set").WithSubtasks("q1", "q2").WithFlashcard("2+2", "$4$").Build(),
		testutil.NewTask().WithTitle("Review notes").WithStatus(models.StatusDone).Build(),
	})
	if err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}
	return added
}

func TestAddTaskFillsDefaults(t *testing.T) {
	s, _, clock := setupState(t)
	task, err := s.AddTask(context.Background(), models.Task{Title: "  Lab report  "})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.ID == "" || task.Title != "Lab report" {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.Status != models.StatusTodo || task.Priority != models.PriorityNotUrgentImportant {
		t.Fatalf("unexpected defaults %+v", task)
	}
	if !task.CreatedAt.Equal(clock.now) {
		t.Fatalf("expected createdAt %v, got %v", clock.now, task.CreatedAt)
	}
}

func TestAddTasksAllOrNothing(t *testing.T) {
	s, _, _ := setupState(t)
	_, err := s.AddTasks(context.Background(), []models.Task{{Title: "ok"}, {Title: "  "}})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if n := len(s.Active().Tasks); n != 0 {
		t.Fatalf("expected no tasks added, got %d", n)
	}
}

func TestDeleteAndUndoRestoresAtIndex(t *testing.T) {
	ctx := context.Background()
	s, db, clock := setupState(t)
	added := addThree(t, s)
	target := added[1]

	if err := s.DeleteTask(ctx, target.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if s.Active().TaskIndex(target.ID) != -1 {
		t.Fatalf("task should be removed from the board")
	}
	if _, left, ok := s.PendingUndo(); !ok || left != 5*time.Second {
		t.Fatalf("expected 5s pending undo, got %v ok=%v", left, ok)
	}

	clock.Advance(4 * time.Second)
	restored, err := s.UndoDelete(ctx)
	if err != nil {
		t.Fatalf("UndoDelete failed: %v", err)
	}
	if !reflect.DeepEqual(restored, target) {
		t.Fatalf("restored task differs:\n got %+v\nwant %+v", restored, target)
	}
	p := reload(t, db).Active()
	if p.TaskIndex(target.ID) != 1 {
		t.Fatalf("expected task back at index 1, got %d", p.TaskIndex(target.ID))
	}
	if _, err := s.UndoDelete(ctx); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndoAfterWindowFails(t *testing.T) {
	ctx := context.Background()
	s, db, clock := setupState(t)
	added := addThree(t, s)
	if err := s.DeleteTask(ctx, added[0].ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	clock.Advance(5*time.Second + time.Millisecond)
	if _, err := s.UndoDelete(ctx); !errors.Is(err, ErrUndoExpired) {
		t.Fatalf("expected ErrUndoExpired, got %v", err)
	}
	if reload(t, db).Active().TaskIndex(added[0].ID) != -1 {
		t.Fatalf("expired task must not reappear")
	}
}

func TestUndoWindowIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	s, _, clock := setupState(t)
	added := addThree(t, s)
	if err := s.DeleteTask(ctx, added[2].ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	clock.Advance(5*time.Second - time.Nanosecond)
	if _, left, ok := s.PendingUndo(); !ok || left != time.Nanosecond {
		t.Fatalf("expected 1ns left, got %v ok=%v", left, ok)
	}
	clock.Advance(time.Nanosecond)
	if _, err := s.UndoDelete(ctx); !errors.Is(err, ErrUndoExpired) {
		t.Fatalf("expected ErrUndoExpired at the boundary, got %v", err)
	}
	if _, _, ok := s.PendingUndo(); ok {
		t.Fatalf("expected no pending undo after expiry")
	}
}

func TestScopedMutationsTargetTheirProject(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	home := s.ActiveID()
	task, err := s.AddTask(ctx, models.Task{Title: "Thermodynamics"})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	deck, err := s.AddDeck(ctx, "Entropy", []models.Flashcard{{Question: "S", Answer: "$k \\ln W$"}})
	if err != nil {
		t.Fatalf("AddDeck failed: %v", err)
	}
	if _, err := s.CreateProject(ctx, "History"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if _, err := s.AddTasksTo(ctx, home, []models.Task{{Title: "Carnot cycle"}}); err != nil {
		t.Fatalf("AddTasksTo failed: %v", err)
	}
	if err := s.AddSubtasksIn(ctx, home, task.ID, "first law"); err != nil {
		t.Fatalf("AddSubtasksIn failed: %v", err)
	}
	cards := []models.Flashcard{{Question: "U", Answer: "internal energy"}}
	if err := s.SetTaskFlashcardsIn(ctx, home, task.ID, cards); err != nil {
		t.Fatalf("SetTaskFlashcardsIn failed: %v", err)
	}
	if err := s.SetDeckCardsIn(ctx, home, deck.ID, cards); err != nil {
		t.Fatalf("SetDeckCardsIn failed: %v", err)
	}
	if _, err := s.AddDeckTo(ctx, home, "Heat engines", cards); err != nil {
		t.Fatalf("AddDeckTo failed: %v", err)
	}

	if n := len(s.Active().Tasks) + len(s.Active().Decks); n != 0 {
		t.Fatalf("active project should be untouched, has %d items", n)
	}
	p, err := reload(t, db).Project(home)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(p.Tasks) != 2 || len(p.Tasks[0].Subtasks) != 1 || len(p.Tasks[0].Flashcards) != 1 {
		t.Fatalf("unexpected tasks %+v", p.Tasks)
	}
	if len(p.Decks) != 2 || p.Decks[0].Cards[0].Question != "U" {
		t.Fatalf("unexpected decks %+v", p.Decks)
	}
	if _, err := s.AddTasksTo(ctx, "missing", []models.Task{{Title: "x"}}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestSecondDeleteReplacesPendingUndo(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupState(t)
	added := addThree(t, s)
	if err := s.DeleteTask(ctx, added[0].ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if err := s.DeleteTask(ctx, added[2].ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	restored, err := s.UndoDelete(ctx)
	if err != nil {
		t.Fatalf("UndoDelete failed: %v", err)
	}
	if restored.ID != added[2].ID {
		t.Fatalf("expected most recent deletion restored, got %q", restored.Title)
	}
}

func TestMoveAndPriority(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupState(t)
	added := addThree(t, s)
	if err := s.MoveTask(ctx, added[0].ID, models.StatusInProgress); err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	next, err := s.CyclePriority(ctx, added[0].ID)
	if err != nil {
		t.Fatalf("CyclePriority failed: %v", err)
	}
	if next != models.PriorityUrgentNotImportant {
		t.Fatalf("expected urgent-not-important, got %q", next)
	}
	task, _ := s.Task(added[0].ID)
	if task.Status != models.StatusInProgress {
		t.Fatalf("expected in progress, got %q", task.Status)
	}
	if err := s.MoveTask(ctx, "nope", models.StatusDone); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSubtasks(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupState(t)
	task, err := s.AddTask(ctx, models.Task{Title: "Essay"})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if err := s.AddSubtasks(ctx, task.ID, "Outline", " ", "Draft"); err != nil {
		t.Fatalf("AddSubtasks failed: %v", err)
	}
	task, _ = s.Task(task.ID)
	if len(task.Subtasks) != 2 {
		t.Fatalf("expected 2 subtasks, got %d", len(task.Subtasks))
	}
	if err := s.ToggleSubtask(ctx, task.ID, task.Subtasks[1].ID); err != nil {
		t.Fatalf("ToggleSubtask failed: %v", err)
	}
	task, _ = s.Task(task.ID)
	if done, total := task.SubtaskProgress(); done != 1 || total != 2 {
		t.Fatalf("progress %d/%d", done, total)
	}
	if err := s.ToggleSubtask(ctx, task.ID, "missing"); !errors.Is(err, ErrSubtaskNotFound) {
		t.Fatalf("expected ErrSubtaskNotFound, got %v", err)
	}
}

func TestFilterTasks(t *testing.T) {
	tasks := []models.Task{
		testutil.NewTask().WithTitle("Linear algebra").WithPriority(models.PriorityUrgentImportant).WithSprintDay(1).Build(),
		testutil.NewTask().WithTitle("Algebra quiz").WithStatus(models.StatusDone).WithSprintDay(2).Build(),
		testutil.NewTask().WithTitle("History essay").WithSubtasks("find algebra sources").Build(),
	}
	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"algebra", 3},
		{"status:done", 1},
		{"priority:urgent algebra", 1},
		{"day:2", 1},
		{"linear quiz", 0},
	}
	for _, tc := range cases {
		got := FilterTasks(tasks, util.ParseSearchQuery(tc.query))
		if len(got) != tc.want {
			t.Fatalf("FilterTasks(%q) = %d tasks, want %d", tc.query, len(got), tc.want)
		}
	}
}

func TestDecks(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupState(t)
	deck, err := s.AddDeck(ctx, "Derivatives", []models.Flashcard{{Question: "d/dx x^2", Answer: "$2x$"}})
	if err != nil {
		t.Fatalf("AddDeck failed: %v", err)
	}
	if deck.Cards[0].Status != models.ReviewNew {
		t.Fatalf("expected new status, got %q", deck.Cards[0].Status)
	}
	cards := append([]models.Flashcard(nil), deck.Cards...)
	cards[0].Status = models.ReviewLearned
	if err := s.SetDeckCards(ctx, deck.ID, cards); err != nil {
		t.Fatalf("SetDeckCards failed: %v", err)
	}
	if got := reload(t, db).Active().Decks[0].Cards[0].Status; got != models.ReviewLearned {
		t.Fatalf("expected persisted learned status, got %q", got)
	}
	if err := s.DeleteDeck(ctx, deck.ID); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if err := s.DeleteDeck(ctx, deck.ID); !errors.Is(err, ErrDeckNotFound) {
		t.Fatalf("expected ErrDeckNotFound, got %v", err)
	}
}
