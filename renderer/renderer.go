// Package renderer turns backtest results into human-readable artifacts:
// markdown reports for the terminal and PNG charts for files.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// HoldingRow is one asset line of the final-holdings table.
type HoldingRow struct {
	Asset    string
	Quantity string
	Value    string
}

// HistoryRow is one recorded movement of the trade-history table.
type HistoryRow struct {
	Time   string
	Kind   string
	Asset  string
	Amount string
}

// SeriesRow is one instant of the value-series table.
type SeriesRow struct {
	Time     string
	Value    string
	Unpriced bool
}

// BacktestReport is the data behind a backtest markdown report.
type BacktestReport struct {
	Reference string
	Start     string
	End       string
	Final     string
	Holdings  []HoldingRow
	History   []HistoryRow
	Series    []SeriesRow
}

// BacktestMarkdown renders the report to a markdown string.
func BacktestMarkdown(r *BacktestReport) string {
	partials := map[string]string{
		"backtest_holdings": "templates/backtest_holdings.md",
		"backtest_history":  "templates/backtest_history.md",
		"backtest_series":   "templates/backtest_series.md",
	}
	return renderTemplate("backtest", "templates/backtest.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends
// on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
