package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jgivc/toolmanifest/internal/adapter/fsadapter"
	"github.com/jgivc/toolmanifest/internal/adapter/gitadapter"
	"github.com/jgivc/toolmanifest/internal/config"
	"github.com/jgivc/toolmanifest/internal/entity"
	"github.com/jgivc/toolmanifest/internal/repository/manifest"
	sindex "github.com/jgivc/toolmanifest/internal/service/index"
	"github.com/jgivc/toolmanifest/internal/storage/index"
	"github.com/jgivc/toolmanifest/internal/ui"
	"github.com/spf13/afero"
)

// Options are the command-line inputs. Empty strings keep the value from
// the config file, env file or defaults.
type Options struct {
	ConfigPath string
	EnvPath    string
	Root       string
	Output     string
	LogLevel   string
	DryRun     bool
}

type App struct {
	opts   Options
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
}

func New(opts Options) *App {
	return NewWithFS(afero.NewOsFs(), opts, os.Stdout, os.Stderr)
}

func NewWithFS(fs afero.Fs, opts Options, stdout, stderr io.Writer) *App {
	return &App{
		opts:   opts,
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
	}
}

// Generate runs one scan and writes the manifest, or only reports what
// would be written in dry-run mode.
func (a *App) Generate(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel, a.stderr).With(slog.String("run_id", uuid.NewString()))
	log.Info("Generate manifest", slog.String("root", cfg.Root), slog.String("output", cfg.OutputPath()), slog.Bool("dry_run", a.opts.DryRun))

	var history fsadapter.HistoryProvider
	switch cfg.History {
	case config.HistoryNone:
		history = gitadapter.NewNoHistory()
	default:
		history = gitadapter.NewGitHistory(cfg.Root, log)
	}

	loader := fsadapter.NewFSAdapterWithFS(a.fs, cfg.LoaderConfig(), history, log)
	store := index.NewIndexStorage(a.fs, loader, cfg.LoaderConfig(), log)
	repo := manifest.NewManifestRepository(a.fs, cfg.OutputPath(), log)
	indexer := sindex.NewIndexService(store, repo, log)

	if a.opts.DryRun {
		m, err := indexer.Build(ctx)
		if err != nil {
			return err
		}

		mode := ui.SummaryDryRunChanged
		current, err := repo.Load(ctx)
		if err != nil {
			log.Warn("Cannot read current manifest", slog.Any("error", err))
		} else if sameContent(current, m) {
			mode = ui.SummaryDryRunUpToDate
		}

		ui.RenderSummary(a.stdout, m, repo.Path(), mode)

		return nil
	}

	m, err := indexer.Index(ctx)
	if err != nil {
		return err
	}

	ui.RenderSummary(a.stdout, m, repo.Path(), ui.SummaryWritten)

	return nil
}

func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.fs, a.opts.ConfigPath, a.opts.EnvPath)
	if err != nil {
		return nil, err
	}

	if a.opts.Root != "" {
		cfg.Root = a.opts.Root
	}
	if a.opts.Output != "" {
		cfg.Output = a.opts.Output
	}
	if a.opts.LogLevel != "" {
		cfg.LogLevel = a.opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	default:
		lo.Level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, lo))
}

// sameContent compares two manifests ignoring when they were generated.
func sameContent(current, next *entity.Manifest) bool {
	if current == nil {
		return false
	}

	a, b := *current, *next
	a.GeneratedAt, b.GeneratedAt = "", ""

	da, err := manifest.Encode(&a)
	if err != nil {
		return false
	}
	db, err := manifest.Encode(&b)
	if err != nil {
		return false
	}

	return bytes.Equal(da, db)
}
