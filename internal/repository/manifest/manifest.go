package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jgivc/toolmanifest/internal/entity"
	"github.com/spf13/afero"
)

const (
	fileMode    = 0o644
	indentWidth = "  "
)

type manifestRepository struct {
	fs   afero.Fs
	path string
	log  *slog.Logger
}

func NewManifestRepository(fs afero.Fs, path string, log *slog.Logger) *manifestRepository {
	return &manifestRepository{
		fs:   fs,
		path: path,
		log:  log.With(slog.String("item", "ManifestRepository")),
	}
}

func (r *manifestRepository) Path() string {
	return r.path
}

/*
Save replaces the manifest file in one step. The document is written to a
temporary file in the destination directory, then renamed over the old
file, so readers see either the previous manifest or the new one.
*/
func (r *manifestRepository) Save(ctx context.Context, m *entity.Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	dir, base := filepath.Split(r.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(r.fs, dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()

	log := r.log.With(slog.String("op", "Save"), slog.String("path", r.path))
	log.Debug("Write new manifest", slog.String("temp", tmpName), slog.Int("bytes", len(data)))

	if err := r.writeTemp(tmp, data); err != nil {
		if rmErr := r.fs.Remove(tmpName); rmErr != nil {
			log.Error("Cannot remove temp file", slog.String("temp", tmpName), slog.Any("error", rmErr))
		}

		return err
	}

	if err := r.fs.Rename(tmpName, r.path); err != nil {
		if rmErr := r.fs.Remove(tmpName); rmErr != nil {
			log.Error("Cannot remove temp file", slog.String("temp", tmpName), slog.Any("error", rmErr))
		}

		return fmt.Errorf("cannot replace manifest: %w", err)
	}

	log.Info("Manifest saved", slog.Int("tools", m.TotalTools))

	return nil
}

func (r *manifestRepository) writeTemp(tmp afero.File, data []byte) error {
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("cannot write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()

		return fmt.Errorf("cannot sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close temp file: %w", err)
	}

	if err := r.fs.Chmod(tmp.Name(), fileMode); err != nil {
		return fmt.Errorf("cannot chmod temp file: %w", err)
	}

	return nil
}

// Load reads the current manifest. It returns (nil, nil) when there is none.
func (r *manifestRepository) Load(_ context.Context) (*entity.Manifest, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("cannot read manifest: %w", err)
	}

	var m entity.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot parse manifest %s: %w", r.path, err)
	}

	return &m, nil
}

// Encode renders the manifest as indented JSON with a trailing newline.
// HTML characters are kept as is.
func Encode(m *entity.Manifest) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indentWidth)

	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("cannot encode manifest: %w", err)
	}

	return buf.Bytes(), nil
}
