package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/jgivc/toolmanifest/internal/entity"
)

const ruleWidth = 50

var categoryLabels = map[entity.Category]string{
	entity.CategoryHooks:         "Hooks",
	entity.CategorySkills:        "Skills",
	entity.CategoryAgents:        "Agents",
	entity.CategorySlashCommands: "Slash Commands",
}

type SummaryMode int

const (
	SummaryWritten SummaryMode = iota
	SummaryDryRunChanged
	SummaryDryRunUpToDate
)

// RenderSummary prints the totals of a manifest run.
func RenderSummary(w io.Writer, m *entity.Manifest, outputPath string, mode SummaryMode) {
	rule := mutedStyle.Render(strings.Repeat("=", ruleWidth))

	var headline string
	switch mode {
	case SummaryWritten:
		headline = successStyle.Render(SymbolSuccess + " Manifest generated successfully!")
	case SummaryDryRunChanged:
		headline = warningStyle.Render(SymbolWarning + " Dry run: manifest would change")
	case SummaryDryRunUpToDate:
		headline = successStyle.Render(SymbolSuccess + " Dry run: manifest is up to date")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, headline)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, boldStyle.Render(fmt.Sprintf("Total tools: %d", m.TotalTools)))

	for _, category := range entity.Categories {
		fmt.Fprintf(w, "  - %s: %d\n", categoryLabels[category], m.Categories.Get(category))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle.Render("Output: "+outputPath))
}
