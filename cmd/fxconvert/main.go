package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fxconvert/internal/config"
)

var version = "v1.0.0"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout))
}

func execute(args []string, in io.Reader, out io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(out, "\n❌ Unexpected error: %v\n", r)
			code = 1
		}
	}()

	cmd := newRootCmd(in, out)
	cmd.SetArgs(args)
	cmd.SetOut(out)

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		_, _ = fmt.Fprintln(out, "\n\n👋 Program terminated by user")
	case errors.Is(err, errReported):
	default:
		_, _ = fmt.Fprintf(out, "\n❌ Unexpected error: %v\n", err)
	}
	return 1
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "fxconvert",
		Short:         "Interactive currency converter with offline rate cache",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			zapLogger, err := newLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = zapLogger.Sync() }()
			sugar := zapLogger.Sugar().With("run_id", uuid.New().String())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := NewApp(cfg, sugar, in, out)
			if err != nil {
				sugar.Errorw("Failed to initialize app", "error", err)
				return err
			}
			return app.Run(ctx)
		},
	}
}

// newLogger builds a logger writing to stderr so it stays apart from the prompts.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
