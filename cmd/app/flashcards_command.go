package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/models"
)

// cardSet is one group of cards and where to save them back.
type cardSet struct {
	name  string
	cards []models.Flashcard
	save  func(context.Context, []models.Flashcard) error
}

func projectCardSets(s *session, p models.Project) []cardSet {
	var sets []cardSet
	for _, d := range p.Decks {
		id := d.ID
		sets = append(sets, cardSet{name: "deck: " + d.Title, cards: d.Cards,
			save: func(c context.Context, cards []models.Flashcard) error { return s.state.SetDeckCards(c, id, cards) }})
	}
	for _, t := range p.Tasks {
		if len(t.Flashcards) == 0 {
			continue
		}
		id := t.ID
		sets = append(sets, cardSet{name: "task: " + t.Title, cards: t.Flashcards,
			save: func(c context.Context, cards []models.Flashcard) error {
				return s.state.SetTaskFlashcards(c, id, cards)
			}})
	}
	return sets
}

func newFlashcardsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flashcards",
		Short: "Flashcard utilities",
	}
	cmd.AddCommand(newFlashcardsCheckCommand(ctx))
	return cmd
}

func newFlashcardsCheckCommand(ctx *commandContext) *cobra.Command {
	var projectRef string
	var fix bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Find flashcard math that does not render, optionally repairing it with AI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				p, err := s.project(projectRef)
				if err != nil {
					return err
				}
				svc := s.aiService()
				if fix && svc == nil {
					return errors.New("--fix needs an AI API key; run `studyboard config set-api-key`")
				}
				pipeline := s.pipeline(svc)
				out := cmd.OutOrStdout()

				var rows [][]string
				var broken, fixed int
				for _, set := range projectCardSets(s, p) {
					problems, rep, err := pipeline.Verify(set.cards)
					if err != nil {
						return err
					}
					for _, pr := range problems {
						rows = append(rows, []string{set.name, strconv.Itoa(pr.Card + 1), pr.Field,
							ansi.Truncate(pr.Expr, 40, config.TruncationSuffix), pr.Err.Error()})
					}
					broken += rep.Broken
					if !fix || rep.Broken == 0 {
						continue
					}
					corrected, crep, err := pipeline.CorrectCards(c, set.cards)
					if err != nil {
						return err
					}
					if err := set.save(c, corrected); err != nil {
						return err
					}
					fixed += crep.Fixed
				}
				if len(rows) == 0 {
					fmt.Fprintf(out, "All flashcard math in %q renders\n", p.Name)
					return nil
				}
				fmt.Fprintln(out, renderTable([]string{"Cards", "#", "Field", "Expression", "Problem"}, rows, 1))
				if fix {
					fmt.Fprintf(out, "Repaired %d of %d broken expressions\n", fixed, broken)
				} else {
					fmt.Fprintf(out, "%d broken expressions; rerun with --fix to repair them\n", broken)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project name or id (default: active project)")
	cmd.Flags().BoolVar(&fix, "fix", false, "Repair broken expressions with AI and save the result")
	return cmd
}
