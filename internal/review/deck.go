// Package review drives flashcard study: filtering by status, a circular cursor, flipping
// and grading.
package review

import (
	"errors"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/util"
)

var (
	ErrNotFlipped = errors.New("flip the card before grading it")
	ErrEmpty      = errors.New("no cards match the current filter")
	ErrBadGrade   = errors.New("cards can only be graded as needs-review or learned")
)

// Filter selects which cards are visible. FilterAll shows every card.
type Filter string

const FilterAll Filter = "all"

// Filters lists the filter choices in menu order.
var Filters = []Filter{FilterAll, Filter(models.ReviewNew), Filter(models.ReviewNeedsReview), Filter(models.ReviewLearned)}

func (f Filter) Label() string {
	switch f {
	case Filter(models.ReviewNew):
		return "New"
	case Filter(models.ReviewNeedsReview):
		return "Needs review"
	case Filter(models.ReviewLearned):
		return "Learned"
	}
	return "All"
}

// Stats counts cards per status.
type Stats struct {
	Total       int
	New         int
	NeedsReview int
	Learned     int
}

// Deck is the study session over one set of cards.
type Deck struct {
	cards   []models.Flashcard
	filter  Filter
	visible []int
	cursor  int
	flipped bool
}

func NewDeck(cards []models.Flashcard) *Deck {
	d := &Deck{cards: make([]models.Flashcard, len(cards)), filter: FilterAll}
	for i, c := range cards {
		c.Status = c.Status.Normalize()
		d.cards[i] = c
	}
	d.recompute()
	return d
}

func (d *Deck) recompute() {
	d.visible = d.visible[:0]
	for i, c := range d.cards {
		if d.filter == FilterAll || Filter(c.Status) == d.filter {
			d.visible = append(d.visible, i)
		}
	}
}

// SetFilter changes the visible subset and moves the cursor to its first card.
func (d *Deck) SetFilter(f Filter) {
	d.filter = f
	d.recompute()
	d.cursor = 0
	d.flipped = false
}

func (d *Deck) Filter() Filter { return d.filter }

// Len is the number of visible cards.
func (d *Deck) Len() int { return len(d.visible) }

// Position returns the 1-based cursor position within the visible cards.
func (d *Deck) Position() int {
	if len(d.visible) == 0 {
		return 0
	}
	return d.cursor + 1
}

// Current returns the card under the cursor.
func (d *Deck) Current() (models.Flashcard, bool) {
	if len(d.visible) == 0 {
		return models.Flashcard{}, false
	}
	return d.cards[d.visible[d.cursor]], true
}

func (d *Deck) Flipped() bool { return d.flipped }

// Flip turns the current card over.
func (d *Deck) Flip() {
	if len(d.visible) > 0 {
		d.flipped = !d.flipped
	}
}

// Next advances the cursor, wrapping from the last card to the first.
func (d *Deck) Next() {
	d.move(1)
}

// Prev moves the cursor back, wrapping from the first card to the last.
func (d *Deck) Prev() {
	d.move(-1)
}

func (d *Deck) move(delta int) {
	if len(d.visible) == 0 {
		return
	}
	d.cursor = util.Wrap(d.cursor, delta, len(d.visible))
	d.flipped = false
}

// Grade tags the current card. It must be face-up. If the card no longer matches the
// filter it drops out and the cursor stays at the same index, clamped to the new end.
func (d *Deck) Grade(status models.ReviewStatus) error {
	if status != models.ReviewNeedsReview && status != models.ReviewLearned {
		return ErrBadGrade
	}
	if len(d.visible) == 0 {
		return ErrEmpty
	}
	if !d.flipped {
		return ErrNotFlipped
	}
	d.cards[d.visible[d.cursor]].Status = status
	d.recompute()
	if len(d.visible) == 0 {
		d.cursor = 0
	} else {
		d.cursor = util.Clamp(d.cursor, 0, len(d.visible)-1)
	}
	d.flipped = false
	return nil
}

// Cards returns a copy of every card including grades.
func (d *Deck) Cards() []models.Flashcard {
	out := make([]models.Flashcard, len(d.cards))
	copy(out, d.cards)
	return out
}

// Replace swaps in new card contents (for example after LaTeX correction), keeping the
// filter and cursor where possible.
func (d *Deck) Replace(cards []models.Flashcard) {
	d.cards = make([]models.Flashcard, len(cards))
	for i, c := range cards {
		c.Status = c.Status.Normalize()
		d.cards[i] = c
	}
	d.recompute()
	if len(d.visible) == 0 {
		d.cursor = 0
	} else {
		d.cursor = util.Clamp(d.cursor, 0, len(d.visible)-1)
	}
}

func (d *Deck) Stats() Stats {
	s := Stats{Total: len(d.cards)}
	for _, c := range d.cards {
		switch c.Status {
		case models.ReviewNeedsReview:
			s.NeedsReview++
		case models.ReviewLearned:
			s.Learned++
		default:
			s.New++
		}
	}
	return s
}
