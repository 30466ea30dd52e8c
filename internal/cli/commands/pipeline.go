package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/ingest"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

var logger = zap.NewNop()

// SetLogger sets the logger shared by all commands.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// Logger returns the logger shared by all commands.
func Logger() *zap.Logger {
	return logger
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadExport reads, decodes and parses an export with the parser settings of cfg.
func loadExport(cfg *config.Config, path string) (*ingest.Export, *chat.Result, error) {
	export, err := ingest.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	result, err := chat.New(cfg.ParserOptions(logger)...).Parse(export.Text)
	if err != nil {
		return export, nil, fmt.Errorf("%s: %w", path, err)
	}
	return export, result, nil
}

// isInputError reports whether err means the export itself cannot be analyzed,
// as opposed to a configuration or runtime failure.
func isInputError(err error) bool {
	var te *chat.TimestampError
	return errors.Is(err, chat.ErrEmptyOrUnrecognizedFormat) ||
		errors.Is(err, ingest.ErrUndecodable) ||
		errors.Is(err, ingest.ErrNoChatInArchive) ||
		errors.As(err, &te)
}

// rejectInput reports an unusable export and sets exit code 1. Other errors
// are returned unchanged so the root command exits with 2.
func rejectInput(cmd *cobra.Command, err error) error {
	if !isInputError(err) {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	ExitCode = 1
	return nil
}
