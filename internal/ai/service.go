package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/latex"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/util"
)

// Completer is the part of Client the service depends on.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Service generates study content.
type Service struct {
	client    Completer
	logger    *slog.Logger
	sanitizer *textSanitizer
	newID     func() string
	now       func() time.Time
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDs overrides the id generator for generated tasks.
func WithIDs(newID func() string) ServiceOption {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(client Completer, opts ...ServiceOption) *Service {
	s := &Service{
		client:    client,
		logger:    slog.Default(),
		sanitizer: newTextSanitizer(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "ai")
	return s
}

var _ latex.Fixer = (*Service)(nil)

// BreakDownTask asks for a list of subtasks for t.
func (s *Service) BreakDownTask(ctx context.Context, t models.Task) ([]string, error) {
	const op = "break down task"
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPrompt)
	}
	prompt := "Task: " + title
	if desc := strings.TrimSpace(t.Description); desc != "" {
		prompt += "\nDetails: " + desc
	}
	if len(t.Subtasks) > 0 {
		var existing []string
		for _, st := range t.Subtasks {
			existing = append(existing, "- "+st.Text)
		}
		prompt += "\nAlready planned (do not repeat):\n" + strings.Join(existing, "\n")
	}

	content, err := s.client.Complete(ctx, Request{System: breakdownSystemPrompt, Prompt: prompt, Schema: &breakdownSchema})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[string](op, "subtasks", content)
	if err != nil {
		return nil, err
	}
	var subtasks []string
	for _, item := range items {
		if text := s.sanitizer.Clean(item); text != "" {
			subtasks = append(subtasks, text)
		}
	}
	if len(subtasks) == 0 {
		return nil, malformed(op, "no subtasks", content, nil)
	}
	s.logger.Debug("task broken down", "task", t.ID, "subtasks", len(subtasks))
	return subtasks, nil
}

type sprintItem struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Priority         string `json:"priority"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Day              int    `json:"day"`
}

// GenerateSprint plans goal over days days. Tasks come back with fresh ids in todo.
func (s *Service) GenerateSprint(ctx context.Context, goal string, days int, attachments []Attachment) ([]models.Task, error) {
	const op = "generate sprint"
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPrompt)
	}
	if days < 1 || days > config.MaxSprintDays {
		return nil, fmt.Errorf("%s: days must be between 1 and %d, got %d", op, config.MaxSprintDays, days)
	}
	prompt := fmt.Sprintf("Goal: %s\nSprint length: %d days.", goal, days)

	content, err := s.client.Complete(ctx, Request{
		System:      sprintSystemPrompt,
		Prompt:      prompt,
		Attachments: attachments,
		Schema:      &sprintSchema,
	})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[sprintItem](op, "tasks", content)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, malformed(op, "no tasks", content, nil)
	}

	created := s.now().UTC()
	tasks := make([]models.Task, 0, len(items))
	for i, item := range items {
		title := s.sanitizer.Clean(item.Title)
		if title == "" {
			return nil, malformed(op, fmt.Sprintf("task %d has no title", i+1), content, nil)
		}
		priority, perr := models.ParsePriority(item.Priority)
		if perr != nil {
			s.logger.Debug("unknown sprint priority", "priority", item.Priority)
		}
		tasks = append(tasks, models.Task{
			ID:              s.newID(),
			Title:           title,
			Description:     s.sanitizer.Clean(item.Description),
			Status:          models.StatusTodo,
			Priority:        priority,
			EstimateMinutes: max(item.EstimatedMinutes, 0),
			SprintDay:       util.Clamp(item.Day, 1, days),
			CreatedAt:       created,
		})
	}
	s.logger.Info("sprint generated", "days", days, "tasks", len(tasks))
	return tasks, nil
}

type cardItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GenerateFlashcards asks for count cards about topic. Incomplete cards are dropped.
func (s *Service) GenerateFlashcards(ctx context.Context, topic string, count int, attachments []Attachment) ([]models.Flashcard, error) {
	const op = "generate flashcards"
	topic = strings.TrimSpace(topic)
	if topic == "" && len(attachments) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPrompt)
	}
	if count <= 0 {
		count = config.DefaultFlashcardCount
	}
	prompt := fmt.Sprintf("Write %d flashcards.", count)
	if topic != "" {
		prompt += "\nTopic: " + topic
	} else {
		prompt += "\nCover the attached material."
	}

	content, err := s.client.Complete(ctx, Request{
		System:      flashcardSystemPrompt,
		Prompt:      prompt,
		Attachments: attachments,
		Schema:      &flashcardSchema,
	})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[cardItem](op, "flashcards", content)
	if err != nil {
		return nil, err
	}
	cards := make([]models.Flashcard, 0, len(items))
	for _, item := range items {
		q, a := s.sanitizer.Clean(item.Question), s.sanitizer.Clean(item.Answer)
		if q == "" || a == "" {
			continue
		}
		cards = append(cards, models.Flashcard{Question: q, Answer: a, Status: models.ReviewNew})
	}
	if len(cards) == 0 {
		return nil, malformed(op, "no complete flashcards", content, nil)
	}
	return cards, nil
}

// FixLatex asks for a corrected version of a broken expression.
func (s *Service) FixLatex(ctx context.Context, expr string, display bool) (string, error) {
	const op = "fix latex"
	if strings.TrimSpace(expr) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPrompt)
	}
	mode := "inline"
	if display {
		mode = "display"
	}
	content, err := s.client.Complete(ctx, Request{
		System: latexFixSystemPrompt,
		Prompt: fmt.Sprintf("This %s expression fails to render:\n%s", mode, expr),
	})
	if err != nil {
		return "", err
	}
	fixed := strings.TrimSpace(content)
	if fixed == "" {
		return "", malformed(op, "empty expression", content, nil)
	}
	return fixed, nil
}

// Ask sends a free-form question.
func (s *Service) Ask(ctx context.Context, prompt string, attachments []Attachment) (string, error) {
	const op = "ask"
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPrompt)
	}
	content, err := s.client.Complete(ctx, Request{
		System:      askSystemPrompt,
		Prompt:      prompt,
		Attachments: attachments,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	answer := s.sanitizer.Clean(content)
	if answer == "" {
		return "", malformed(op, "empty answer", content, nil)
	}
	return answer, nil
}

// FileLoader reads the content of a local project file.
type FileLoader interface {
	FileData(ctx context.Context, id string) (models.ProjectFile, []byte, error)
}

// CollectAttachments turns project files into attachments. Links are passed by URL.
// Local files over maxBytes or still waiting for their content are skipped.
func CollectAttachments(ctx context.Context, loader FileLoader, files []models.ProjectFile, maxBytes int64, logger *slog.Logger) ([]Attachment, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var out []Attachment
	for _, f := range files {
		if f.Source == models.SourceLink {
			out = append(out, Attachment{Name: f.Name, URL: f.URL})
			continue
		}
		if f.NeedsRehydration {
			logger.Warn("attachment skipped, content missing", "file", f.Name)
			continue
		}
		if maxBytes > 0 && f.Size > maxBytes {
			logger.Warn("attachment skipped, too large", "file", f.Name, "size", f.Size, "limit", maxBytes)
			continue
		}
		file, data, err := loader.FileData(ctx, f.ID)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, fmt.Errorf("load attachment %s: %w", f.Name, err)
		}
		out = append(out, Attachment{Name: file.Name, MimeType: file.MimeType, Data: data})
	}
	return out, nil
}
