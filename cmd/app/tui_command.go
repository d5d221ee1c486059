package main

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/akyairhashvil/studyboard/internal/tui"
)

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runTUI(cmd *cobra.Command, c *commandContext) error {
	if !isTerminal(os.Stdin.Fd()) || !isTerminal(os.Stdout.Fd()) {
		return errors.New("studyboard needs an interactive terminal; see `studyboard --help` for scriptable commands")
	}
	ctx := cmd.Context()
	s, err := c.openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	deps := tui.Deps{
		State:              s.state,
		Blobs:              s.db,
		Sheets:             s.sheetImporter(),
		Logger:             s.logger,
		MaxAttachmentBytes: s.cfg.AI.MaxAttachmentBytes,
	}
	svc := s.aiService()
	if svc != nil {
		deps.Generator = svc
	}
	deps.Corrector = s.pipeline(svc)

	s.logger.Info("starting tui", "project", s.state.ActiveID(), "ai", yesNo(svc != nil))
	program := tea.NewProgram(tui.New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
