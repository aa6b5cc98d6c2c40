package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/jgivc/toolmanifest/internal/common"
	"github.com/jgivc/toolmanifest/internal/config"
	"github.com/jgivc/toolmanifest/internal/entity"
	"github.com/spf13/afero"
)

type EntryLoader interface {
	ToEntry(ctx context.Context, category entity.Category, toolName string) (*entity.ManifestEntry, error)
}

type indexStorage struct {
	running atomic.Bool
	fs      afero.Fs
	loader  EntryLoader
	cfg     *config.LoaderConfig
	log     *slog.Logger
}

func NewIndexStorage(fs afero.Fs, loader EntryLoader, cfg *config.LoaderConfig, log *slog.Logger) *indexStorage {
	return &indexStorage{
		fs:     fs,
		loader: loader,
		cfg:    cfg,
		log:    log.With(slog.String("item", "IndexStorage")),
	}
}

/*
Scan loads every tool directory of one category, one at a time. A missing
category directory yields no entries. Plain files and hidden directories
are skipped. The first tool that fails to load aborts the scan: a partial
category is never returned.
*/
func (i *indexStorage) Scan(ctx context.Context, category entity.Category) ([]*entity.ManifestEntry, error) {
	if !i.running.CompareAndSwap(false, true) {
		return nil, common.ErrIndexingProcessHasAlreadyStarted
	}
	defer i.running.Store(false)

	log := i.log.With(slog.String("category", category.String()))
	categoryPath := filepath.Join(i.cfg.Root, category.String())

	stat, err := i.fs.Stat(categoryPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("Category directory does not exist, skipping", slog.String("path", categoryPath))

			return []*entity.ManifestEntry{}, nil
		}

		return nil, fmt.Errorf("cannot stat category %s: %w", category, err)
	}

	if !stat.IsDir() {
		return nil, fmt.Errorf("category %s: %s is not a directory", category, categoryPath)
	}

	entries, err := afero.ReadDir(i.fs, categoryPath)
	if err != nil {
		return nil, fmt.Errorf("cannot list category %s: %w", category, err)
	}

	tools := make([]*entity.ManifestEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if strings.HasPrefix(entry.Name(), ".") {
			log.Debug("Skip hidden directory", slog.String("tool", entry.Name()))

			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tool, err := i.loader.ToEntry(ctx, category, entry.Name())
		if err != nil {
			log.Error("Cannot load tool", slog.String("tool", entry.Name()), slog.Any("error", err))

			return nil, err
		}

		log.Info("Loaded tool", slog.String("tool", entry.Name()), slog.String("id", tool.ID))
		tools = append(tools, tool)
	}

	return tools, nil
}
