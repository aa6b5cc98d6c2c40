package fsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jgivc/toolmanifest/internal/common"
	"github.com/jgivc/toolmanifest/internal/config"
	"github.com/jgivc/toolmanifest/internal/entity"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"go.abhg.dev/goldmark/frontmatter"
)

const (
	fileKindMain       = "main"
	fileKindAdditional = "additional"
)

type HistoryProvider interface {
	LastChange(ctx context.Context, path string) (string, error)
}

type Option func(*fsAdapter)

// WithClock replaces time.Now, used for the lastUpdated fallback.
func WithClock(now func() time.Time) Option {
	return func(a *fsAdapter) {
		a.now = now
	}
}

type fsAdapter struct {
	fs      afero.Fs
	cfg     *config.LoaderConfig
	history HistoryProvider
	md      goldmark.Markdown
	now     func() time.Time

	log *slog.Logger
}

func NewFSAdapter(cfg *config.LoaderConfig, history HistoryProvider, log *slog.Logger, opts ...Option) *fsAdapter {
	return NewFSAdapterWithFS(afero.NewOsFs(), cfg, history, log, opts...)
}

func NewFSAdapterWithFS(fs afero.Fs, cfg *config.LoaderConfig, history HistoryProvider, log *slog.Logger, opts ...Option) *fsAdapter {
	a := &fsAdapter{
		fs:      fs,
		cfg:     cfg,
		history: history,
		md: goldmark.New(
			goldmark.WithExtensions(
				&frontmatter.Extender{},
			),
		),
		now: time.Now,
		log: log.With(slog.String("item", "FSAdapter")),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

/*
ToEntry loads <root>/<category>/<tool>/<descriptor> and turns it into a
manifest entry:
 1. read and decode the descriptor;
 2. validate it;
 3. check that files.main and every files.additional exist;
 4. look up the last change of the tool directory, falling back to now.

Every error is prefixed with category/tool.
*/
func (a *fsAdapter) ToEntry(ctx context.Context, category entity.Category, toolName string) (*entity.ManifestEntry, error) {
	entry, err := a.toEntry(ctx, category, toolName)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", category, toolName, err)
	}

	return entry, nil
}

func (a *fsAdapter) toEntry(ctx context.Context, category entity.Category, toolName string) (*entity.ManifestEntry, error) {
	if toolName == "" || toolName == "." || toolName == ".." || strings.ContainsRune(toolName, filepath.Separator) {
		return nil, fmt.Errorf("invalid tool name %q", toolName)
	}

	toolRel := filepath.Join(category.String(), toolName)
	toolPath := filepath.Join(a.cfg.Root, toolRel)

	desc, err := a.readDescriptor(toolPath)
	if err != nil {
		return nil, err
	}

	if err := a.checkFile(toolPath, fileKindMain, desc.Files.Main); err != nil {
		return nil, err
	}

	for _, file := range desc.Files.Additional {
		if err := a.checkFile(toolPath, fileKindAdditional, file); err != nil {
			return nil, err
		}
	}

	if a.cfg.CheckFrontmatter && isMarkdown(desc.Files.Main) {
		a.checkFrontmatter(toolPath, desc)
	}

	return entity.NewManifestEntry(*desc, a.lastUpdated(ctx, toolRel)), nil
}

func (a *fsAdapter) readDescriptor(toolPath string) (*entity.ToolDescriptor, error) {
	data, err := afero.ReadFile(a.fs, filepath.Join(toolPath, a.cfg.DescFileName))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", common.ErrIO, a.cfg.DescFileName, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w %s: %w", common.ErrIO, a.cfg.DescFileName, err)
	}

	if err := Validate(raw); err != nil {
		return nil, err
	}

	var desc entity.ToolDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &common.ValidationError{
				Field:  typeErr.Field,
				Value:  typeErr.Value,
				Reason: "must be " + typeErr.Type.String(),
			}
		}

		return nil, fmt.Errorf("%w %s: %w", common.ErrIO, a.cfg.DescFileName, err)
	}

	return &desc, nil
}

func (a *fsAdapter) checkFile(toolPath, kind, file string) error {
	if !a.fileExists(filepath.Join(toolPath, file)) {
		return &common.MissingFileError{Kind: kind, Path: file}
	}

	return nil
}

func (a *fsAdapter) lastUpdated(ctx context.Context, toolRel string) string {
	ts, err := a.history.LastChange(ctx, toolRel)
	if err != nil {
		a.log.Warn("Cannot get history, using current time", slog.String("path", toolRel), slog.Any("error", err))

		return a.now().UTC().Format(entity.TimestampLayout)
	}

	return ts
}

func (a *fsAdapter) fileExists(path string) bool {
	_, err := a.fs.Stat(path)

	return err == nil
}
