package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/axel-lord/spel-katalog-script/internal/ctxlog"
	"github.com/axel-lord/spel-katalog-script/internal/dependency"
	"github.com/axel-lord/spel-katalog-script/internal/fsutil"
	"github.com/axel-lord/spel-katalog-script/internal/orchestrator"
	"github.com/axel-lord/spel-katalog-script/internal/script"
)

// Run discovers, validates and executes the configured batch of scripts.
func (a *App) Run(ctx context.Context) error {
	logger := a.logger.With("run_id", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	paths, err := fsutil.FindFilesByExtensions(a.config.ScriptsPath, script.Extensions()...)
	if err != nil {
		return fmt.Errorf("discover script files: %w", err)
	}
	if len(paths) == 0 {
		logger.Warn("No script files found, nothing to run.", "path", a.config.ScriptsPath)
		return nil
	}
	logger.Debug("Script files discovered.", "count", len(paths))

	files := make([]*script.File, 0, len(paths))
	for _, path := range paths {
		file, err := script.Load(path)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	logger.Info("Starting script batch.", "scripts", len(files), "timeout", a.config.Timeout)
	orch := orchestrator.New(command.Options{Timeout: a.config.Timeout})
	table, err := orch.RunAll(ctx, files)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	ran, skipped := 0, 0
	for _, outcome := range table {
		if outcome == dependency.Success {
			ran++
		} else {
			skipped++
		}
	}
	logger.Info("Script batch finished.", "ran", ran, "skipped", skipped)
	return nil
}
