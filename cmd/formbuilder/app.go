package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
)

// app holds the flag values and collaborators shared by every command.
type app struct {
	configPath  string
	sources     []string
	document    string
	container   string
	setupPanel  string
	httpTimeout time.Duration
	sanitize    bool
	skipDefault bool
	verbose     bool

	logger *zap.Logger
	driver prompt.PromptDriver
	stdin  io.Reader
}

func newApp() *app {
	return &app{stdin: os.Stdin}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "formbuilder",
		Short: "Compose forms from HTML input templates",
		Long: `formbuilder loads HTML <template> documents describing input types,
composes instances of them into a form and prints the form state as JSON.

The bundled text, number, email and textarea types are always available
unless --skip-defaults is set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.logger != nil {
				return nil
			}
			cfg := zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if a.verbose {
				cfg = zap.NewDevelopmentConfig()
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (JSON or YAML)")
	flags.StringArrayVarP(&a.sources, "source", "s", nil, "template document path or URL (repeatable)")
	flags.StringVar(&a.document, "document", "", "host HTML document (default: built-in page)")
	flags.StringVar(&a.container, "container", "", "selector of the instance container")
	flags.StringVar(&a.setupPanel, "setup", "", "selector of the setup panel")
	flags.DurationVar(&a.httpTimeout, "http-timeout", config.DefaultHTTPTimeout, "timeout for remote template documents")
	flags.BoolVar(&a.sanitize, "sanitize", false, "sanitize template markup")
	flags.BoolVar(&a.skipDefault, "skip-defaults", false, "do not load the bundled templates")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(a.typesCommand(), a.buildCommand())
	return root
}

// loadConfig reads the config file, when given, and lets explicitly set
// flags override it.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Sources = append(cfg.Sources, a.sources...)
	}
	if flags.Changed("document") {
		cfg.Document = a.document
	}
	if flags.Changed("container") {
		cfg.Container = a.container
	}
	if flags.Changed("setup") {
		cfg.SetupPanel = a.setupPanel
	}
	if flags.Changed("http-timeout") {
		cfg.HTTPTimeout = config.Duration(a.httpTimeout)
	}
	if flags.Changed("sanitize") {
		cfg.Sanitize = a.sanitize
	}
	if flags.Changed("skip-defaults") {
		cfg.SkipDefaults = a.skipDefault
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (a *app) builder(ctx context.Context, cmd *cobra.Command) (*formbuilder.Builder, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("building form",
		zap.Strings("sources", cfg.Sources),
		zap.Bool("skipDefaults", cfg.SkipDefaults),
		zap.String("container", cfg.Container),
	)
	return formbuilder.New(ctx, cfg, formbuilder.WithLogger(a.logger))
}

func (a *app) readInput(path string) (string, error) {
	if strings.TrimSpace(path) == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
