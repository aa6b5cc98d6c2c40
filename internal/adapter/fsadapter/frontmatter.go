package fsadapter

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jgivc/toolmanifest/internal/entity"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark/parser"
	"go.abhg.dev/goldmark/frontmatter"
)

// Frontmatter is the header of a Markdown main file (SKILL.md, agent.md...).
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func isMarkdown(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".md")
}

// checkFrontmatter warns when the main file declares a name that matches
// neither the descriptor id nor its name. It never fails the load.
func (a *fsAdapter) checkFrontmatter(toolPath string, desc *entity.ToolDescriptor) {
	mainPath := filepath.Join(toolPath, desc.Files.Main)
	log := a.log.With(slog.String("path", mainPath))

	fm, err := a.getFrontmatter(mainPath)
	if err != nil {
		log.Warn("Cannot read main file frontmatter", slog.Any("error", err))

		return
	}

	if fm == nil || fm.Name == "" || fm.Name == desc.ID || fm.Name == desc.Name {
		return
	}

	log.Warn("Main file frontmatter name differs from descriptor",
		slog.String("frontmatter_name", fm.Name),
		slog.String("id", desc.ID),
		slog.String("name", desc.Name),
	)
}

func (a *fsAdapter) getFrontmatter(fileName string) (*Frontmatter, error) {
	src, err := afero.ReadFile(a.fs, fileName)
	if err != nil {
		return nil, err
	}

	ctx := parser.NewContext()
	if err := a.md.Convert(src, io.Discard, parser.WithContext(ctx)); err != nil {
		return nil, err
	}

	data := frontmatter.Get(ctx)
	if data == nil {
		return nil, nil
	}

	var fm Frontmatter
	if err := data.Decode(&fm); err != nil {
		return nil, err
	}

	return &fm, nil
}
