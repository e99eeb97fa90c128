package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/source"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		var coded *errors.Error
		if stderrors.As(err, &coded) {
			errors.Print(os.Stderr, coded)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// app is the state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
	prefix     string

	cfg    *config.Config
	logger *slog.Logger
	loader *source.Loader
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "vbind",
		Short: "Declarative data binding for HTML templates",
		Long: `vbind compiles HTML templates with {{ key }} interpolation and
v-text, v-html, v-model and v-on:<event> directives against a data file.

Templates and data files may be local paths or s3://bucket/key URIs.
Data files are JSON, or YAML when they end in .yaml or .yml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to vbind.json (default: nearest in a parent directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&a.prefix, "prefix", "", "Directive attribute prefix")
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(
		renderCmd(a),
		checkCmd(a),
		serveCmd(a),
		versionCmd(a),
	)
	return rootCmd
}

// setup loads the config, applies flag overrides and builds the logger.
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Log.Format = a.logFormat
	}
	if a.prefix != "" {
		a.cfg.Prefix = a.prefix
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = newLogger(a.stderr, a.cfg.LogLevel(), a.cfg.Log.Format)
	slog.SetDefault(a.logger)
	a.loader = source.NewLoader(
		source.WithS3Config(a.cfg.S3),
		source.WithLogger(a.logger.With("component", "source")),
	)
	if path := a.cfg.Path(); path != "" {
		a.logger.Debug("config loaded", "path", path)
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
