package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/akyairhashvil/studyboard/internal/ai"
	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/database"
	"github.com/akyairhashvil/studyboard/internal/latex"
	"github.com/akyairhashvil/studyboard/internal/logging"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/sheets"
	"github.com/akyairhashvil/studyboard/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// session is an open data directory: the instance lock, the database and loaded state.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	lock   *flock.Flock
	db     *database.Database
	state  *store.State
}

// openSession locks the data directory and loads the state. fileOnly keeps logs off
// the terminal.
func (c *commandContext) openSession(ctx context.Context, fileOnly bool) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, fileOnly)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another studyboard instance is using %s", cfg.Paths.DataDir)
	}

	db, err := database.Open(ctx, cfg.DatabasePath())
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	state, err := store.Load(ctx, db,
		store.WithLogger(logger),
		store.WithTimerDefaults(models.TimerSettings{
			FocusMinutes:  cfg.Timer.FocusMinutes,
			BreakMinutes:  cfg.Timer.BreakMinutes,
			ExamMinutes:   cfg.Timer.ExamMinutes,
			RitualEnabled: cfg.Timer.Ritual,
		}),
		store.WithMaxFileBytes(cfg.AI.MaxAttachmentBytes),
	)
	if err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	logger.Debug("session opened", "database", cfg.DatabasePath())
	return &session{cfg: cfg, logger: logger, lock: lock, db: db, state: state}, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("close database failed", "error", err)
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("release lock failed", "error", err)
	}
}

// withSession runs fn against an open session and closes it afterwards.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(context.Context, *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := c.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// aiService is nil when no API key is configured.
func (s *session) aiService() *ai.Service {
	if !s.cfg.HasAIKey() {
		return nil
	}
	client := ai.NewClient(ai.ConfigFrom(s.cfg.AI), ai.WithLogger(s.logger))
	return ai.NewService(client, ai.WithServiceLogger(s.logger))
}

func (s *session) sheetImporter() *sheets.Importer {
	return sheets.NewImporter(time.Duration(s.cfg.Sheets.TimeoutSeconds)*time.Second, sheets.WithLogger(s.logger))
}

func (s *session) pipeline(svc *ai.Service) *latex.Pipeline {
	var fixer latex.Fixer
	if svc != nil {
		fixer = svc
	}
	return latex.NewPipeline(latex.NewChecker(), fixer, s.logger)
}

// project resolves --project (name or id), defaulting to the active project.
func (s *session) project(ref string) (models.Project, error) {
	if strings.TrimSpace(ref) == "" {
		return s.state.Active(), nil
	}
	return s.state.FindProject(ref)
}

// loadDotEnv reads .env from the working directory when present.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
