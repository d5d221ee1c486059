package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/review"
	"github.com/akyairhashvil/studyboard/internal/util"
)

// deckSource identifies where a set of cards is stored: a standalone deck or a task.
type deckSource struct {
	projectID string
	deckID    string
	taskID    string
}

type deckEntry struct {
	src   deckSource
	title string
	cards []models.Flashcard
}

// reviewState is the flashcard view: a list of decks, or a study session over one.
type reviewState struct {
	cursor int
	active bool
	src    deckSource
	title  string
	deck   *review.Deck
}

func (r *reviewState) close() {
	r.active = false
	r.deck = nil
	r.src = deckSource{}
	r.cursor = 0
}

// deckEntries lists standalone decks first, then tasks that carry cards.
func (m Model) deckEntries() []deckEntry {
	p := m.state().Active()
	var out []deckEntry
	for _, d := range p.Decks {
		out = append(out, deckEntry{src: deckSource{projectID: p.ID, deckID: d.ID}, title: d.Title, cards: d.Cards})
	}
	for _, t := range p.Tasks {
		if len(t.Flashcards) > 0 {
			out = append(out, deckEntry{src: deckSource{projectID: p.ID, taskID: t.ID}, title: t.Title, cards: t.Flashcards})
		}
	}
	return out
}

func (m Model) selectedDeck() (deckEntry, bool) {
	entries := m.deckEntries()
	if m.review.cursor < 0 || m.review.cursor >= len(entries) {
		return deckEntry{}, false
	}
	return entries[m.review.cursor], true
}

func (m Model) moveDeckCursor(delta int) (Model, tea.Cmd, bool) {
	if m.review.active {
		return m, nil, false
	}
	n := len(m.deckEntries())
	m.review.cursor = util.Clamp(m.review.cursor+delta, 0, max(n-1, 0))
	return m, nil, true
}

func handleDeckUp(m Model, _ string) (Model, tea.Cmd, bool)   { return m.moveDeckCursor(-1) }
func handleDeckDown(m Model, _ string) (Model, tea.Cmd, bool) { return m.moveDeckCursor(1) }

func handleStudyDeck(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.review.active {
		return m, nil, false
	}
	entry, ok := m.selectedDeck()
	if !ok {
		return m, nil, true
	}
	m.review.active = true
	m.review.src = entry.src
	m.review.title = entry.title
	m.review.deck = review.NewDeck(entry.cards)
	return m, nil, true
}

func handleLeaveStudy(m Model, _ string) (Model, tea.Cmd, bool) {
	if !m.review.active {
		return m, nil, false
	}
	m.review.active = false
	m.review.deck = nil
	return m, nil, true
}

func handleFlip(m Model, _ string) (Model, tea.Cmd, bool) {
	if !m.review.active {
		return m, nil, false
	}
	m.review.deck.Flip()
	return m, nil, true
}

func handleNextCard(m Model, _ string) (Model, tea.Cmd, bool) {
	if !m.review.active {
		return m, nil, false
	}
	m.review.deck.Next()
	return m, nil, true
}

func handlePrevCard(m Model, _ string) (Model, tea.Cmd, bool) {
	if !m.review.active {
		return m, nil, false
	}
	m.review.deck.Prev()
	return m, nil, true
}

func gradeHandler(status models.ReviewStatus) KeyHandler {
	return func(m Model, _ string) (Model, tea.Cmd, bool) {
		if !m.review.active {
			return m, nil, false
		}
		err := m.review.deck.Grade(status)
		switch {
		case errors.Is(err, review.ErrNotFlipped), errors.Is(err, review.ErrEmpty):
			m.Message = err.Error()
			return m, nil, true
		case err != nil:
			return m.alertErr("Could not grade card", err), nil, true
		}
		if err := m.saveCards(m.review.src, m.review.deck.Cards()); err != nil {
			return m.alertErr("Could not save grade", err), nil, true
		}
		return m, nil, true
	}
}

func handleCycleFilter(m Model, _ string) (Model, tea.Cmd, bool) {
	if !m.review.active {
		return m, nil, false
	}
	idx := 0
	for i, f := range review.Filters {
		if f == m.review.deck.Filter() {
			idx = i
		}
	}
	m.review.deck.SetFilter(review.Filters[util.Wrap(idx, 1, len(review.Filters))])
	return m, nil, true
}

func handleCorrectDeck(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.app.Corrector == nil {
		return m.alert("Math check unavailable", "The math engine is not configured."), nil, true
	}
	if m.busy != "" {
		m.Message = "Still working on " + m.busy + "..."
		return m, nil, true
	}
	src, cards := m.review.src, []models.Flashcard(nil)
	if m.review.active {
		cards = m.review.deck.Cards()
	} else {
		entry, ok := m.selectedDeck()
		if !ok {
			return m, nil, true
		}
		src, cards = entry.src, entry.cards
	}
	next, cmd := m.startBusy("checking math", correctionCmd(m.ctx, m.app.Corrector, src, cards))
	return next, cmd, true
}

func handleNewDeckForm(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.review.active {
		return m, nil, false
	}
	m.modals.Open(newForm(FormFlashcards, "New flashcard deck",
		newField("Topic", "Eigenvalues and eigenvectors", "", config.MaxPromptLength),
		newField("Cards", "12", strconv.Itoa(config.DefaultFlashcardCount), 3),
	))
	return m, textinput.Blink, true
}

func handleDeleteDeck(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.review.active {
		return m, nil, false
	}
	entry, ok := m.selectedDeck()
	if !ok {
		return m, nil, true
	}
	var err error
	if entry.src.deckID != "" {
		err = m.state().DeleteDeck(m.ctx, entry.src.deckID)
	} else {
		err = m.state().SetTaskFlashcards(m.ctx, entry.src.taskID, nil)
	}
	if err != nil {
		return m.alertErr("Could not delete deck", err), nil, true
	}
	m.Message = fmt.Sprintf("Deleted the cards of %q.", entry.title)
	n := len(m.deckEntries())
	m.review.cursor = util.Clamp(m.review.cursor, 0, max(n-1, 0))
	return m, nil, true
}

func (m Model) renderFlashcards() string {
	if m.review.active {
		return m.renderStudy()
	}
	entries := m.deckEntries()
	if len(entries) == 0 {
		return m.theme.Dim.Render("No flashcards yet. [N] generate a deck, or [f] on a board task.")
	}
	var lines []string
	lines = append(lines, m.theme.Header.Render("Decks"))
	for i, e := range entries {
		stats := review.NewDeck(e.cards).Stats()
		kind := "deck"
		if e.src.taskID != "" {
			kind = "task"
		}
		title := ansi.Truncate(e.title, config.TargetTitleWidth, config.TruncationSuffix)
		line := fmt.Sprintf("%-*s %s", config.TargetTitleWidth, title,
			m.theme.Dim.Render(fmt.Sprintf("%s · %d cards · %d learned", kind, stats.Total, stats.Learned)))
		if i == m.review.cursor {
			line = m.theme.Focused.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStudy() string {
	d := m.review.deck
	stats := d.Stats()
	header := fmt.Sprintf("%s · %s · %d/%d", m.review.title, d.Filter().Label(), d.Position(), d.Len())
	counts := fmt.Sprintf("new %d · needs review %d · learned %d", stats.New, stats.NeedsReview, stats.Learned)

	width := max(m.width-8, 40)
	card := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(m.theme.Border).
		Padding(1, 2).Width(min(width, 80))
	var body string
	if c, ok := d.Current(); !ok {
		body = m.theme.Dim.Render("No cards match this filter. [F] change filter")
	} else if d.Flipped() {
		body = m.theme.Dim.Render("Q: "+c.Question) + "\n\n" + m.theme.Success.Render(c.Answer)
	} else {
		body = c.Question + "\n\n" + m.theme.Dim.Render("[space] reveal")
	}
	return strings.Join([]string{
		m.theme.Header.Render(header),
		m.theme.Dim.Render(counts),
		card.Render(body),
	}, "\n")
}
