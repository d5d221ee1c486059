package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/akyairhashvil/studyboard/internal/models"
)

// AddDeck stores a standalone deck on the active project.
func (s *State) AddDeck(ctx context.Context, title string, cards []models.Flashcard) (models.FlashcardDeck, error) {
	return s.AddDeckTo(ctx, s.activeID, title, cards)
}

func (s *State) AddDeckTo(ctx context.Context, projectID, title string, cards []models.Flashcard) (models.FlashcardDeck, error) {
	p, err := s.project(projectID)
	if err != nil {
		return models.FlashcardDeck{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.FlashcardDeck{}, ErrEmptyTitle
	}
	deck := models.FlashcardDeck{
		ID:        s.newID(),
		Title:     title,
		Cards:     normalizeCards(cards),
		CreatedAt: s.now().UTC(),
	}
	snap := s.snapshot()
	p.Decks = append(p.Decks, deck)
	if err := s.commit(ctx, snap); err != nil {
		return models.FlashcardDeck{}, err
	}
	return deck, nil
}

func (s *State) deckIndex(p *models.Project, id string) int {
	for i := range p.Decks {
		if p.Decks[i].ID == id {
			return i
		}
	}
	return -1
}

// SetDeckCards replaces the cards of a deck, typically after grading or LaTeX correction.
func (s *State) SetDeckCards(ctx context.Context, deckID string, cards []models.Flashcard) error {
	return s.SetDeckCardsIn(ctx, s.activeID, deckID, cards)
}

func (s *State) SetDeckCardsIn(ctx context.Context, projectID, deckID string, cards []models.Flashcard) error {
	p, err := s.project(projectID)
	if err != nil {
		return err
	}
	idx := s.deckIndex(p, deckID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, deckID)
	}
	snap := s.snapshot()
	p.Decks[idx].Cards = normalizeCards(cards)
	return s.commit(ctx, snap)
}

func (s *State) DeleteDeck(ctx context.Context, deckID string) error {
	p := s.active()
	idx := s.deckIndex(p, deckID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, deckID)
	}
	snap := s.snapshot()
	p.Decks = append(p.Decks[:idx:idx], p.Decks[idx+1:]...)
	return s.commit(ctx, snap)
}
