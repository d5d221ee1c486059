package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/testutil"
)

type fakeCompleter struct {
	reply string
	err   error
	reqs  []Request
}

func (f *fakeCompleter) Complete(_ context.Context, req Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func newTestService(reply string) (*Service, *fakeCompleter) {
	fake := &fakeCompleter{reply: reply}
	n := 0
	svc := NewService(fake,
		WithIDs(func() string { n++; return fmt.Sprintf("gen-%d", n) }),
		WithNow(func() time.Time { return time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC) }),
	)
	return svc, fake
}

func TestBreakDownTask(t *testing.T) {
	for name, reply := range map[string]string{
		"object":     `{"subtasks":["Read chapter 1","  ","<b>Summarize</b> it"]}`,
		"bare array": `["Read chapter 1","Summarize it"]`,
		"code fence": "```json\n{\"subtasks\":[\"Read chapter 1\",\"Summarize it\"]}\n```",
	} {
		t.Run(name, func(t *testing.T) {
			svc, fake := newTestService(reply)
			task := testutil.NewTask().WithTitle("Study optics").WithSubtasks("Buy book").Build()
			got, err := svc.BreakDownTask(context.Background(), task)
			if err != nil {
				t.Fatalf("BreakDownTask failed: %v", err)
			}
			if strings.Join(got, "|") != "Read chapter 1|Summarize it" {
				t.Fatalf("unexpected subtasks %q", got)
			}
			req := fake.reqs[0]
			if req.Schema == nil || req.Schema.Name != "task_breakdown" {
				t.Fatalf("breakdown must declare its schema")
			}
			if !strings.Contains(req.Prompt, "Study optics") || !strings.Contains(req.Prompt, "Buy book") {
				t.Fatalf("prompt missing task context: %q", req.Prompt)
			}
		})
	}
}

func TestBreakDownTaskMalformed(t *testing.T) {
	for name, reply := range map[string]string{
		"prose":         "I cannot do that",
		"wrong key":     `{"steps":["a"]}`,
		"wrong type":    `{"subtasks":"a, b"}`,
		"only blanks":   `{"subtasks":["", " "]}`,
		"empty payload": "",
	} {
		t.Run(name, func(t *testing.T) {
			svc, _ := newTestService(reply)
			_, err := svc.BreakDownTask(context.Background(), testutil.NewTask().Build())
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestGenerateSprint(t *testing.T) {
	reply := `{"tasks":[
		{"title":"Limits","description":"Read 2.1","priority":"urgent-important","estimatedMinutes":45,"day":1},
		{"title":"Derivatives","description":"Practice &amp; review","priority":"high","estimatedMinutes":-5,"day":9},
		{"title":"Rest","description":"","priority":"whenever","estimatedMinutes":0,"day":0}
	]}`
	svc, fake := newTestService(reply)
	attachments := []Attachment{{Name: "syllabus", URL: "https://example.com/s"}}

	tasks, err := svc.GenerateSprint(context.Background(), "Pass calculus", 3, attachments)
	if err != nil {
		t.Fatalf("GenerateSprint failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if len(fake.reqs[0].Attachments) != 1 {
		t.Fatalf("attachments not forwarded")
	}

	first, second, third := tasks[0], tasks[1], tasks[2]
	if first.ID != "gen-1" || first.Status != models.StatusTodo || first.EstimateMinutes != 45 || first.SprintDay != 1 {
		t.Fatalf("unexpected first task %+v", first)
	}
	if second.Priority != models.PriorityUrgentImportant || second.EstimateMinutes != 0 || second.SprintDay != 3 {
		t.Fatalf("second task not normalized: %+v", second)
	}
	if second.Description != "Practice & review" {
		t.Fatalf("entities should be unescaped, got %q", second.Description)
	}
	if third.Priority != models.PriorityNotUrgentImportant || third.SprintDay != 1 {
		t.Fatalf("third task not normalized: %+v", third)
	}
	if !first.CreatedAt.Equal(time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected CreatedAt %v", first.CreatedAt)
	}
}

func TestGenerateSprintRejects(t *testing.T) {
	svc, fake := newTestService(`{"tasks":[{"title":"  ","description":"x","priority":"low","estimatedMinutes":1,"day":1}]}`)
	if _, err := svc.GenerateSprint(context.Background(), "goal", 2, nil); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for missing title, got %v", err)
	}
	if _, err := svc.GenerateSprint(context.Background(), "goal", 0, nil); err == nil {
		t.Fatalf("expected error for zero days")
	}
	if _, err := svc.GenerateSprint(context.Background(), " ", 2, nil); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if len(fake.reqs) != 1 {
		t.Fatalf("invalid input must not reach the model, got %d requests", len(fake.reqs))
	}
}

func TestGenerateFlashcardsKeepsMath(t *testing.T) {
	reply := `{"flashcards":[
		{"question":"<i>Area</i> of a circle?","answer":"$A = \\pi r^2$ when $r<b$"},
		{"question":"Missing answer","answer":""}
	]}`
	svc, _ := newTestService(reply)
	cards, err := svc.GenerateFlashcards(context.Background(), "geometry", 0, nil)
	if err != nil {
		t.Fatalf("GenerateFlashcards failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("incomplete cards should be dropped, got %d", len(cards))
	}
	if cards[0].Question != "Area of a circle?" {
		t.Fatalf("markup not stripped: %q", cards[0].Question)
	}
	if cards[0].Answer != `$A = \pi r^2$ when $r<b$` {
		t.Fatalf("math changed: %q", cards[0].Answer)
	}
	if cards[0].Status != models.ReviewNew {
		t.Fatalf("new cards should be tagged new, got %q", cards[0].Status)
	}
}

func TestFixLatexAndAsk(t *testing.T) {
	svc, fake := newTestService("  \\frac{a}{b}  ")
	fixed, err := svc.FixLatex(context.Background(), `\frac{a}{b`, true)
	if err != nil || fixed != `\frac{a}{b}` {
		t.Fatalf("FixLatex = %q, %v", fixed, err)
	}
	if fake.reqs[0].Schema != nil || !strings.Contains(fake.reqs[0].Prompt, "display") {
		t.Fatalf("unexpected fix request %+v", fake.reqs[0])
	}

	fake.reply = "<script>x</script>Use $E=mc^2$."
	answer, err := svc.Ask(context.Background(), "energy?", nil)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer != "Use $E=mc^2$." {
		t.Fatalf("unexpected answer %q", answer)
	}

	fake.err = ErrBlocked
	if _, err := svc.Ask(context.Background(), "energy?", nil); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

type fakeLoader map[string][]byte

func (f fakeLoader) FileData(_ context.Context, id string) (models.ProjectFile, []byte, error) {
	data, ok := f[id]
	if !ok {
		return models.ProjectFile{}, nil, errors.New("no blob")
	}
	return models.ProjectFile{ID: id, Name: id + ".txt", MimeType: "text/plain"}, data, nil
}

func TestCollectAttachments(t *testing.T) {
	files := []models.ProjectFile{
		{ID: "a", Name: "a.txt", Source: models.SourceLocal, Size: 3},
		{ID: "b", Name: "big.bin", Source: models.SourceLocal, Size: 100},
		{ID: "c", Name: "c.txt", Source: models.SourceLocal, Size: 1, NeedsRehydration: true},
		{ID: "d", Name: "Docs", Source: models.SourceLink, URL: "https://example.com"},
	}
	got, err := CollectAttachments(context.Background(), fakeLoader{"a": []byte("abc")}, files, 10, nil)
	if err != nil {
		t.Fatalf("CollectAttachments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected local a and link d, got %+v", got)
	}
	if string(got[0].Data) != "abc" || got[1].URL != "https://example.com" {
		t.Fatalf("unexpected attachments %+v", got)
	}

	files[0].ID = "missing"
	if _, err := CollectAttachments(context.Background(), fakeLoader{}, files[:1], 10, nil); err == nil {
		t.Fatalf("expected error for a missing blob")
	}
}
