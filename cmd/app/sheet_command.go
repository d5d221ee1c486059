package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSheetImportCommand(ctx *commandContext) *cobra.Command {
	var sheetURL, tab, projectRef string

	cmd := &cobra.Command{
		Use:   "sheet-import",
		Short: "Import tasks from a public Google Sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				if projectRef != "" {
					p, err := s.project(projectRef)
					if err != nil {
						return err
					}
					if err := s.state.SetActive(c, p.ID); err != nil {
						return err
					}
				}
				tasks, err := s.sheetImporter().Import(c, sheetURL, tab)
				if err != nil {
					return err
				}
				added, err := s.state.AddTasks(c, tasks)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks into %q\n", len(added), s.state.Active().Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sheetURL, "url", "", "Spreadsheet URL or id")
	cmd.Flags().StringVar(&tab, "tab", "Sheet1", "Tab name")
	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project name or id (default: active project)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
