package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/focusboard/internal/auth"
	"github.com/nhle/focusboard/internal/credential"
	"github.com/nhle/focusboard/internal/dashboard"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/stats"
	"github.com/nhle/focusboard/internal/store"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "focusboard:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "focusboard",
		Usage:   "goals, tasks and a focus timer in your terminal",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config file",
				Value:   model.DefaultConfigPath(),
				EnvVars: []string{"FOCUSBOARD_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			signupCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			goalCommand(),
			taskCommand(),
			activityCommand(),
			statsCommand(),
			timerCommand(),
			exportCommand(),
			importCommand(),
			usageCommand(),
			clearCommand(),
			themeCommand(),
			settingsCommand(),
		},
	}
}

// env holds the services one command invocation works with.
type env struct {
	cfg    *model.AppConfig
	logger *zap.Logger
	kv     *store.SQLiteKV
	store  *store.Store
	auth   *auth.Service
	dash   *dashboard.Service
	stats  *stats.Aggregator
}

// openEnv loads config and opens the database. tui routes logs to a file so
// they do not draw over the interface.
func openEnv(c *cli.Context, tui bool) (*env, error) {
	cfg, err := model.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, tui)
	if err != nil {
		return nil, err
	}

	kv, err := store.NewSQLiteKV(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	s := store.New(kv, store.WithLogger(logger))

	logger.Debug("environment ready", zap.String("db", cfg.Storage.Path))
	return &env{
		cfg:    cfg,
		logger: logger,
		kv:     kv,
		store:  s,
		auth:   auth.NewService(s, nil, logger),
		dash:   dashboard.NewService(s, nil, logger),
		stats:  stats.New(s, nil, logger),
	}, nil
}

func (e *env) Close() {
	if err := e.kv.Close(); err != nil {
		e.logger.Warn("closing database failed", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// currentUser returns the logged-in user or a hint to log in.
func (e *env) currentUser(ctx context.Context) (model.User, error) {
	u, err := e.auth.Current(ctx)
	if err != nil {
		return model.User{}, err
	}
	if u == nil {
		return model.User{}, cli.Exit("not logged in; run `focusboard login` first", 1)
	}
	return *u, nil
}

// keyring opens the credential store beside the database. A missing OS
// keyring is not fatal; callers skip remembering.
func (e *env) keyring() (*credential.Keyring, error) {
	dir := filepath.Dir(e.cfg.Storage.Path)
	if e.cfg.Storage.Path == ":memory:" {
		dir = os.TempDir()
	}
	kr, err := credential.Open(dir)
	if err != nil {
		e.logger.Debug("keyring unavailable", zap.Error(err))
		return nil, err
	}
	return kr, nil
}

// newLogger builds the zap logger from the log section of the config.
func newLogger(cfg *model.AppConfig, tui bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	path := cfg.Log.File
	if path == "" && tui {
		if cfg.Storage.Path == ":memory:" {
			return zap.NewNop(), nil
		}
		path = filepath.Join(filepath.Dir(cfg.Storage.Path), "focusboard.log")
	}
	if path == "" {
		path = "stderr"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	zcfg.Sampling = nil
	return zcfg.Build()
}

// withEnv wraps an action that needs the environment.
func withEnv(action func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := openEnv(c, false)
		if err != nil {
			return err
		}
		defer e.Close()
		return action(c, e)
	}
}

// errUsage reports a missing argument.
func errUsage(c *cli.Context) error {
	return cli.Exit(fmt.Sprintf("usage: %s %s", c.Command.HelpName, c.Command.ArgsUsage), 2)
}
