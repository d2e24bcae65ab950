// Command parley is a terminal messaging simulator: several conversations,
// switchable at will, where every message you send is answered by a canned
// reply after a short random delay.
//
// Usage:
//
//	parley [flags]                 run the TUI
//	parley script [file] [flags]   drive a session headlessly from a script
//	parley catalogue export [file] write the resolved catalogue as JSON
//	parley version
//
// Flags:
//
//	--catalogue string     Glob of catalogue files (.json, .yaml, .yml)
//	--log-level string     debug, info, warn or error (default "info")
//	--log-file string      Write logs to a file
//	--seed uint            Seed for reply delays and response choice
//	--reply-target string  origin or active
//
// Every flag can also be set through a PARLEY_* environment variable, for
// example PARLEY_LOG_LEVEL=debug. A .env file in the working directory is
// loaded first if present.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/parley"
	bt "github.com/fwojciec/parley/bubbletea"
	"github.com/fwojciec/parley/fs"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

// config holds the resolved runtime settings.
type config struct {
	Catalogue   string
	LogLevel    string
	LogFile     string
	Seed        uint64
	SeedSet     bool
	ReplyTarget string
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "parley",
		Short:         "Terminal messaging simulator",
		Long:          `Parley simulates a messaging client: switch between conversations, send messages and watch canned replies arrive after a short random delay.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadDotEnv(".env")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), loadConfig(v))
		},
	}

	flags := root.PersistentFlags()
	flags.String("catalogue", "", "Glob of catalogue files (.json, .yaml, .yml)")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")
	flags.String("log-file", "", "Write logs to file")
	flags.Uint64("seed", 0, "Seed for reply delays and response choice")
	flags.String("reply-target", "", "Where replies land: origin or active")

	v.SetEnvPrefix("PARLEY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// BindPFlags only fails on a nil flag set.
	_ = v.BindPFlags(flags)

	root.AddCommand(newScriptCmd(v))
	root.AddCommand(newCatalogueCmd(v))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parley %s\n", version)
		},
	})
	return root
}

func loadConfig(v *viper.Viper) config {
	return config{
		Catalogue:   v.GetString("catalogue"),
		LogLevel:    v.GetString("log-level"),
		LogFile:     v.GetString("log-file"),
		Seed:        v.GetUint64("seed"),
		SeedSet:     v.IsSet("seed"),
		ReplyTarget: v.GetString("reply-target"),
	}
}

// loadDotEnv loads path into the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// newLogger builds a logger from the level and file settings. Without a
// file, logs go to fallback. The returned close function releases the file.
func newLogger(cfg config, fallback io.Writer) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if cfg.LogLevel != "" {
		l, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, parley.ErrValidation)
		}
		level = l
	}

	out := fallback
	closer := func() error { return nil }
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: cfg.LogFile != "",
		Prefix:          "parley",
	})
	return logger, closer, nil
}

// loadCatalogue returns the built-in catalogue, or the files matched by
// cfg.Catalogue merged over the built-in labels and delays. The reply target
// flag overrides whatever the files say.
func loadCatalogue(cfg config) (parley.Catalogue, error) {
	cat := parley.DefaultCatalogue()
	if cfg.Catalogue != "" {
		loaded, err := fs.LoadCatalogue(cfg.Catalogue)
		if err != nil {
			return parley.Catalogue{}, fmt.Errorf("load catalogue: %w", err)
		}
		cat.Conversations = nil
		cat.ResponsePool = nil
		cat = cat.Merge(loaded)
	}
	if cfg.ReplyTarget != "" {
		target, err := parley.ParseReplyTarget(cfg.ReplyTarget)
		if err != nil {
			return parley.Catalogue{}, err
		}
		cat.ReplyTarget = target
	}
	if err := cat.Validate(); err != nil {
		return parley.Catalogue{}, fmt.Errorf("catalogue: %w", err)
	}
	return cat, nil
}

func runTUI(ctx context.Context, cfg config) error {
	// The alternate screen owns the terminal, so logs only go to a file.
	logger, closeLog, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cat, err := loadCatalogue(cfg)
	if err != nil {
		return err
	}

	exec := bt.NewProgramExecutor()
	a, err := newApp(cat, exec, cfg, logger, nil)
	if err != nil {
		return err
	}
	logger.Info("starting TUI", "version", version, "conversations", len(cat.Conversations))

	if err := bt.Run(ctx, bt.New(a.session, parley.DefaultTheme()), exec); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
