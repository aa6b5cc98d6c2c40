package index

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jgivc/toolmanifest/internal/entity"
	"github.com/jgivc/toolmanifest/internal/util"
)

type CategoryStorage interface {
	Scan(ctx context.Context, category entity.Category) ([]*entity.ManifestEntry, error)
}

type ManifestRepository interface {
	Save(ctx context.Context, m *entity.Manifest) error
}

type Option func(*IndexerService)

func WithClock(now func() time.Time) Option {
	return func(i *IndexerService) {
		i.now = now
	}
}

type IndexerService struct {
	store CategoryStorage
	repo  ManifestRepository
	now   func() time.Time
	log   *slog.Logger
}

func NewIndexService(store CategoryStorage, repo ManifestRepository, log *slog.Logger, opts ...Option) *IndexerService {
	i := &IndexerService{
		store: store,
		repo:  repo,
		now:   time.Now,
		log:   log.With(slog.String("item", "IndexService")),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Build scans every category in declared order and assembles a sorted
// manifest. Nothing is written.
func (i *IndexerService) Build(ctx context.Context) (*entity.Manifest, error) {
	var (
		tools  []*entity.ManifestEntry
		counts entity.CategoryCounts
	)

	for _, category := range entity.Categories {
		i.log.Info("Scan category", slog.String("category", category.String()))

		entries, err := i.store.Scan(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("cannot scan category %s: %w", category, err)
		}

		tools = append(tools, entries...)
		counts.Set(category, len(entries))
	}

	if tools == nil {
		tools = []*entity.ManifestEntry{}
	}

	SortEntries(tools)

	return &entity.Manifest{
		Version:     entity.ManifestVersion,
		GeneratedAt: i.now().UTC().Format(entity.TimestampLayout),
		TotalTools:  len(tools),
		Tools:       tools,
		Categories:  counts,
	}, nil
}

// Index builds the manifest and saves it. On any error the repository is
// not touched.
func (i *IndexerService) Index(ctx context.Context) (*entity.Manifest, error) {
	m, err := i.Build(ctx)
	if err != nil {
		i.log.Error("Cannot build manifest", slog.Any("error", err))

		return nil, err
	}

	i.log.Info("Manifest built", slog.Int("count", m.TotalTools))

	if err := i.repo.Save(ctx, m); err != nil {
		i.log.Error("Cannot save manifest", slog.Any("error", err))

		return nil, fmt.Errorf("cannot save manifest: %w", err)
	}

	return m, nil
}

// SortEntries puts featured tools first, then orders by name using locale
// collation. Equal entries keep their scan order.
func SortEntries(tools []*entity.ManifestEntry) {
	collator := util.NewNameCollator()

	slices.SortStableFunc(tools, func(a, b *entity.ManifestEntry) int {
		if fa, fb := a.IsFeatured(), b.IsFeatured(); fa != fb {
			if fa {
				return -1
			}

			return 1
		}

		return collator.Compare(a.Name, b.Name)
	})
}
