package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/axel-lord/spel-katalog-script/internal/app"
	"github.com/axel-lord/spel-katalog-script/internal/cli"
)

// main is the entrypoint for the spel-katalog-script application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	scriptApp := app.NewApp(outW, appConfig)
	return scriptApp.Run(context.Background())
}
