package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/store"
	"github.com/akyairhashvil/studyboard/internal/util"
)

// passphraseEnv lets scripts supply export passphrases without a prompt.
const passphraseEnv = "STUDYBOARD_EXPORT_PASSPHRASE"

func newExportCommand(ctx *commandContext) *cobra.Command {
	var projectRef string
	var withFiles, encrypt bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a project to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				p, err := s.project(projectRef)
				if err != nil {
					return err
				}
				target := filepath.Join(util.DocumentsDir(), util.SafeFileName(p.Name)+".json")
				if len(args) == 1 {
					if target, err = config.ExpandPath(args[0]); err != nil {
						return err
					}
				}
				opts := store.ExportOptions{WithFiles: withFiles}
				if encrypt {
					pass, err := passphrase(cmd, "Export passphrase: ", true)
					if err != nil {
						return err
					}
					if err := util.ValidatePassphrase(pass); err != nil {
						return fmt.Errorf("passphrase too weak: %w", err)
					}
					opts.Passphrase = pass
				}
				data, err := s.state.Export(c, p.ID, opts)
				if err != nil {
					return err
				}
				if err := os.WriteFile(target, data, 0o600); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", p.Name, target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project name or id (default: active project)")
	cmd.Flags().BoolVar(&withFiles, "with-files", false, "Embed local file contents")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "Encrypt the export with a passphrase")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a project export as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				var pass string
				if store.IsEncryptedExport(data) {
					if pass, err = passphrase(cmd, "Export passphrase: ", false); err != nil {
						return err
					}
				}
				p, err := s.state.Import(c, data, pass)
				if errors.Is(err, store.ErrWrongPassphrase) {
					return errors.New("incorrect passphrase")
				}
				if err != nil {
					return err
				}
				pending := 0
				for _, f := range p.Files {
					if f.NeedsRehydration {
						pending++
					}
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %q with %d tasks\n", p.Name, len(p.Tasks))
				if pending > 0 {
					fmt.Fprintf(out, "%d files need their content re-attached in the Files view\n", pending)
				}
				return nil
			})
		},
	}
}

// passphrase reads from the environment or, on a terminal, without echo.
func passphrase(cmd *cobra.Command, prompt string, confirm bool) (string, error) {
	if v := strings.TrimSpace(os.Getenv(passphraseEnv)); v != "" {
		return v, nil
	}
	pass, err := readSecret(cmd, prompt)
	if err != nil {
		return "", err
	}
	if confirm {
		again, err := readSecret(cmd, "Repeat passphrase: ")
		if err != nil {
			return "", err
		}
		if again != pass {
			return "", errors.New("passphrases do not match")
		}
	}
	return pass, nil
}
