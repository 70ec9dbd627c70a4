package main

import (
	"eventdesk/internal/config"
	"eventdesk/internal/kv"
	"eventdesk/internal/render"
	"eventdesk/internal/store"
	"eventdesk/internal/theme"
	"eventdesk/internal/view"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "eventdesk",
		Usage: "Keep a personal list of upcoming events.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "Storage backend: file, sqlite, postgres, redis or memory (overrides EVENTDESK_BACKEND)."},
			&cli.StringFlag{Name: "path", Usage: "Storage file for the file and sqlite backends (overrides EVENTDESK_PATH)."},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides LOG_LEVEL)."},
		},
		Commands: []*cli.Command{
			addCommand(),
			editCommand(),
			deleteCommand(),
			clearCommand(),
			listCommand(),
			sampleCommand(),
			themeCommand(),
			exportCommand(),
			importCommand(),
			authCommand(),
			importGoogleCommand(),
			publishCommand(),
		},
	}
}

// env is what every command runs against: configuration, the opened storage
// and the state restored from it.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	kv     kv.Store
	events *store.Store
	theme  *theme.Preference
	out    *render.Renderer

	changed bool
}

// withEnv opens storage, runs fn and, if fn changed the event list, prints
// the refreshed list labelled with the command name.
func withEnv(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		if err := fn(c, e); err != nil {
			return err
		}
		if e.changed {
			fmt.Fprintln(c.App.Writer)
			e.out.List(view.Project(e.events.All(), view.Query{}), c.Command.Name)
		}
		return nil
	}
}

func openEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if v := c.String("backend"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := c.String("path"); v != "" {
		cfg.Storage.Path = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	logger := setupLogger(cfg.LogLevel)

	kvs, err := kv.Open(c.Context, logger, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	events, err := store.New(c.Context, logger, kvs)
	if err != nil {
		kvs.Close()
		return nil, err
	}
	pref, err := theme.Load(c.Context, logger, kvs)
	if err != nil {
		kvs.Close()
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: logger,
		kv:     kvs,
		events: events,
		theme:  pref,
		out:    render.New(c.App.Writer, pref.Dark()),
	}
	events.Subscribe(func(ch store.Change) {
		e.changed = true
		logger.Debug("Event list changed.", "kind", ch.Kind, "ids", len(ch.IDs))
	})
	return e, nil
}

func (e *env) close() {
	if err := e.kv.Close(); err != nil {
		e.logger.Error("Failed to close storage", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
