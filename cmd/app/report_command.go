package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/report"
	"github.com/akyairhashvil/studyboard/internal/util"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var projectRef, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report of a project board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(_ context.Context, s *session) error {
				p, err := s.project(projectRef)
				if err != nil {
					return err
				}
				now := time.Now()
				target := out
				if target == "" {
					target = filepath.Join(util.ReportsDir(config.AppName), report.DefaultFileName(p, now))
				} else if target, err = config.ExpandPath(target); err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return fmt.Errorf("create report directory: %w", err)
				}
				if err := report.WriteFile(target, p, now); err != nil {
					return err
				}
				sum := report.Summarize(p, now)
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d tasks)\n", target, sum.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project name or id (default: active project)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PDF path")
	return cmd
}
