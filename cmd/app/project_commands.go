package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/store"
	"github.com/akyairhashvil/studyboard/internal/util"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(_ context.Context, s *session) error {
				activeID := s.state.ActiveID()
				var rows [][]string
				for _, p := range s.state.Projects() {
					done := len(p.TasksByStatus(models.StatusDone))
					rows = append(rows, []string{
						p.Name,
						p.ID,
						strconv.Itoa(len(p.Tasks)),
						strconv.Itoa(done),
						strconv.Itoa(len(p.Files)),
						strconv.Itoa(p.PomodoroCount),
						yesNo(p.ID == activeID),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Name", "ID", "Tasks", "Done", "Files", "Pomodoros", "Active"}, rows, 2, 3, 4, 5))
				return nil
			})
		},
	}
}

func newTasksCommand(ctx *commandContext) *cobra.Command {
	var projectRef, query string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(_ context.Context, s *session) error {
				p, err := s.project(projectRef)
				if err != nil {
					return err
				}
				tasks := store.FilterTasks(p.Tasks, util.ParseSearchQuery(query))
				rows := make([][]string, 0, len(tasks))
				for _, t := range tasks {
					due := ""
					if t.DueDate != nil {
						due = t.DueDate.Format("2006-01-02")
					}
					subDone, subTotal := t.SubtaskProgress()
					subtasks := ""
					if subTotal > 0 {
						subtasks = fmt.Sprintf("%d/%d", subDone, subTotal)
					}
					rows = append(rows, []string{
						t.Title,
						t.Status.Label(),
						t.Priority.Label(),
						strconv.Itoa(t.EstimateMinutes),
						due,
						subtasks,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%d tasks)\n", p.Name, len(tasks))
				fmt.Fprintln(out, renderTable([]string{"Title", "Status", "Priority", "Min", "Due", "Subtasks"}, rows, 3))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project name or id (default: active project)")
	cmd.Flags().StringVarP(&query, "filter", "f", "", "Filter such as \"status:todo priority:urgent lab\"")
	return cmd
}
