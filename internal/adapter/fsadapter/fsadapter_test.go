package fsadapter

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jgivc/toolmanifest/internal/common"
	"github.com/jgivc/toolmanifest/internal/config"
	"github.com/jgivc/toolmanifest/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const rootDir = "/catalog"

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)

type stubHistory struct {
	ts    map[string]string
	calls []string
}

func (h *stubHistory) LastChange(_ context.Context, path string) (string, error) {
	h.calls = append(h.calls, path)

	if ts, ok := h.ts[path]; ok {
		return ts, nil
	}

	return "", common.ErrHistoryUnavailable
}

func newTestAdapter(t *testing.T, files map[string]string, history HistoryProvider, logW io.Writer) *fsAdapter {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		full := filepath.Join(rootDir, path)
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), os.ModeDir|0o755))
		require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0o644))
	}

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Root = rootDir

	if logW == nil {
		logW = io.Discard
	}
	log := slog.New(slog.NewTextHandler(logW, &slog.HandlerOptions{}))

	return NewFSAdapterWithFS(fs, cfg.LoaderConfig(), history, log, WithClock(func() time.Time { return fixedNow }))
}

func TestToEntry(t *testing.T) {
	testCases := []struct {
		name        string
		files       map[string]string
		expectErr   error
		expectInMsg []string
	}{
		{
			name: "valid",
			files: map[string]string{
				"hooks/foo/metadata.json": validDescriptor,
				"hooks/foo/hook.sh":       "#!/bin/sh",
			},
		},
		{
			name: "descriptor missing",
			files: map[string]string{
				"hooks/foo/hook.sh": "#!/bin/sh",
			},
			expectErr:   common.ErrIO,
			expectInMsg: []string{"hooks/foo", "metadata.json"},
		},
		{
			name: "descriptor is not json",
			files: map[string]string{
				"hooks/foo/metadata.json": "{not json",
				"hooks/foo/hook.sh":       "#!/bin/sh",
			},
			expectErr:   common.ErrIO,
			expectInMsg: []string{"hooks/foo"},
		},
		{
			name: "main file missing",
			files: map[string]string{
				"hooks/foo/metadata.json": validDescriptor,
			},
			expectErr:   common.ErrMissingFile,
			expectInMsg: []string{"hooks/foo", "hook.sh", "main"},
		},
		{
			name: "additional file missing",
			files: map[string]string{
				"hooks/foo/metadata.json": `{"id":"foo","name":"Foo","category":"hooks","description":"d","author":"a","version":"1.0.0","tags":[],
					"files":{"main":"hook.sh","additional":["lib/a.sh","lib/b.sh"]},"installation":{"targetDir":"x"}}`,
				"hooks/foo/hook.sh":  "#!/bin/sh",
				"hooks/foo/lib/a.sh": "a",
			},
			expectErr:   common.ErrMissingFile,
			expectInMsg: []string{"hooks/foo", "lib/b.sh", "additional"},
		},
		{
			name: "missing required field",
			files: map[string]string{
				"hooks/foo/metadata.json": `{"id":"foo","name":"Foo","category":"hooks","description":"d","version":"1.0.0","tags":[],
					"files":{"main":"hook.sh"},"installation":{"targetDir":"x"}}`,
				"hooks/foo/hook.sh": "#!/bin/sh",
			},
			expectErr:   common.ErrValidation,
			expectInMsg: []string{"hooks/foo", `"author"`},
		},
		{
			name: "field of wrong type",
			files: map[string]string{
				"hooks/foo/metadata.json": `{"id":"foo","name":42,"category":"hooks","description":"d","author":"a","version":"1.0.0","tags":[],
					"files":{"main":"hook.sh"},"installation":{"targetDir":"x"}}`,
				"hooks/foo/hook.sh": "#!/bin/sh",
			},
			expectErr:   common.ErrValidation,
			expectInMsg: []string{"hooks/foo", `"name"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAdapter(t, tc.files, &stubHistory{}, nil)

			entry, err := a.ToEntry(context.Background(), entity.CategoryHooks, "foo")
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				require.Nil(t, entry)
				for _, s := range tc.expectInMsg {
					require.Contains(t, err.Error(), s)
				}

				return
			}

			require.NoError(t, err)
			require.Equal(t, "foo", entry.ID)
			require.Equal(t, "Foo", entry.Name)
			require.Equal(t, entity.CategoryHooks, entry.Category)
			require.Equal(t, []string{"a", "b"}, entry.Tags)
			require.Equal(t, ".claude/hooks", entry.Installation.TargetDir)
		})
	}
}

func TestToEntryDefaults(t *testing.T) {
	files := map[string]string{
		"skills/plain/metadata.json": `{"id":"plain","name":"Plain","category":"skills","description":"d","author":"a","version":"1.0.0","tags":[],
			"files":{"main":"SKILL.md"},"installation":{"targetDir":"x"}}`,
		"skills/plain/SKILL.md": "# Plain",
		"skills/star/metadata.json": `{"id":"star","name":"Star","category":"skills","description":"d","author":"a","version":"2.1.0","tags":["x"],
			"featured":true,"files":{"main":"SKILL.md"},"installation":{"targetDir":"x","instructions":"copy"},
			"repository":{"url":"https://example.com/star","stars":42,"forks":3}}`,
		"skills/star/SKILL.md": "# Star",
	}

	history := &stubHistory{ts: map[string]string{"skills/star": "2024-01-02T03:04:05+01:00"}}
	a := newTestAdapter(t, files, history, nil)

	plain, err := a.ToEntry(context.Background(), entity.CategorySkills, "plain")
	require.NoError(t, err)
	require.False(t, plain.IsFeatured())
	require.Equal(t, 0.0, plain.Downloads)
	require.Equal(t, 4.0, plain.Rating)
	require.Equal(t, "2025-03-04T05:06:07.890Z", plain.LastUpdated)

	star, err := a.ToEntry(context.Background(), entity.CategorySkills, "star")
	require.NoError(t, err)
	require.True(t, star.IsFeatured())
	require.Equal(t, 42.0, star.Downloads)
	require.Equal(t, 5.0, star.Rating)
	require.Equal(t, "2024-01-02T03:04:05+01:00", star.LastUpdated)
	require.Equal(t, "https://example.com/star", *star.Repository.URL)
	require.Equal(t, "copy", *star.Installation.Instructions)

	require.Equal(t, []string{"skills/plain", "skills/star"}, history.calls)
}

func TestToEntryToolNames(t *testing.T) {
	testCases := []struct {
		name      string
		toolName  string
		expectErr bool
	}{
		{name: "dots inside name", toolName: "my..tool"},
		{name: "trailing dots", toolName: "tool.."},
		{name: "parent directory", toolName: "..", expectErr: true},
		{name: "current directory", toolName: ".", expectErr: true},
		{name: "empty", toolName: "", expectErr: true},
		{name: "nested path", toolName: "a" + string(filepath.Separator) + "b", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			files := map[string]string{}
			if !tc.expectErr {
				files["hooks/"+tc.toolName+"/metadata.json"] = validDescriptor
				files["hooks/"+tc.toolName+"/hook.sh"] = "#!/bin/sh"
			}
			a := newTestAdapter(t, files, &stubHistory{}, nil)

			entry, err := a.ToEntry(context.Background(), entity.CategoryHooks, tc.toolName)
			if tc.expectErr {
				require.Error(t, err)
				require.Nil(t, entry)

				return
			}

			require.NoError(t, err)
			require.Equal(t, "foo", entry.ID)
		})
	}
}

func TestToEntryFractionalStarsAndDeclaredEmptyValues(t *testing.T) {
	files := map[string]string{
		"hooks/foo/metadata.json": `{"id":"foo","name":"Foo","category":"hooks","description":"d","author":"a","version":"1.0.0","tags":[],
			"files":{"main":"hook.sh","additional":[]},"installation":{"targetDir":"x","instructions":""},
			"repository":{"stars":4.5}}`,
		"hooks/foo/hook.sh": "#!/bin/sh",
	}
	a := newTestAdapter(t, files, &stubHistory{}, nil)

	entry, err := a.ToEntry(context.Background(), entity.CategoryHooks, "foo")
	require.NoError(t, err)
	require.Equal(t, 4.5, entry.Downloads)
	require.NotNil(t, entry.Files.Additional)
	require.Empty(t, entry.Files.Additional)
	require.NotNil(t, entry.Installation.Instructions)
	require.Empty(t, *entry.Installation.Instructions)
}

func TestFrontmatterCheck(t *testing.T) {
	descriptor := `{"id":"review","name":"Review","category":"agents","description":"d","author":"a","version":"1.0.0","tags":[],
		"files":{"main":"agent.md"},"installation":{"targetDir":"x"}}`

	testCases := []struct {
		name       string
		main       string
		expectWarn bool
	}{
		{
			name: "no frontmatter",
			main: "# Review\n",
		},
		{
			name: "matching id",
			main: "---\nname: review\ndescription: reviews code\n---\n# Review\n",
		},
		{
			name: "matching name",
			main: "---\nname: Review\n---\n# Review\n",
		},
		{
			name:       "mismatch",
			main:       "---\nname: code-reviewer\n---\n# Review\n",
			expectWarn: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			a := newTestAdapter(t, map[string]string{
				"agents/review/metadata.json": descriptor,
				"agents/review/agent.md":      tc.main,
			}, &stubHistory{}, &buf)

			_, err := a.ToEntry(context.Background(), entity.CategoryAgents, "review")
			require.NoError(t, err)

			if tc.expectWarn {
				require.Contains(t, buf.String(), "frontmatter name differs")
				require.Contains(t, buf.String(), "code-reviewer")
			} else {
				require.NotContains(t, buf.String(), "frontmatter name differs")
			}
		})
	}
}
