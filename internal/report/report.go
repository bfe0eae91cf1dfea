// Package report renders markdown reports for tool results.
//
// Every tool returns exactly one markdown string. The helpers here keep
// the rendering deterministic: stable column order, fixed truncation
// widths, and a plain sentence instead of a header-only table when there
// is nothing to show.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesosphere/mcp-gitops/internal/status"
)

// Status icons used across all reports.
const (
	IconReady        = "✅"
	IconFailed       = "❌"
	IconSuspended    = "⏸️"
	IconUnknown      = "❓"
	IconProvisioning = "⏳"
	IconWarning      = "⚠️"
	IconInfo         = "ℹ️"
)

// Truncation widths for message columns.
const (
	MessageWidth          = 50
	ConditionMessageWidth = 60
)

// Icon returns the emoji for a resource classification.
func Icon(s status.Status) string {
	switch s {
	case status.StatusReady:
		return IconReady
	case status.StatusSuspended:
		return IconSuspended
	case status.StatusFailed:
		return IconFailed
	default:
		return IconUnknown
	}
}

// StatusCell renders a classification as "icon word" for table cells.
func StatusCell(s status.Status) string {
	return Icon(s) + " " + string(s)
}

// Truncate shortens s to at most maxLen characters, appending "..." when
// content was dropped. Widths below four characters return s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen < 4 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatAge renders the time since t in the largest applicable unit.
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// ShortRevision compresses a Flux revision string to its short commit SHA.
// Handles both the legacy "main/<sha>" and the current "main@sha1:<sha>"
// formats. Non-SHA revisions pass through unchanged.
func ShortRevision(revision string) string {
	if revision == "" {
		return "-"
	}
	sha := revision
	if idx := strings.LastIndex(sha, ":"); idx >= 0 {
		sha = sha[idx+1:]
	}
	if idx := strings.LastIndex(sha, "/"); idx >= 0 {
		sha = sha[idx+1:]
	}
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return sha
}

// EmptySentence is the report body when a query matches nothing.
func EmptySentence(what string) string {
	return fmt.Sprintf("No %s found.\n", what)
}

// Table accumulates rows and renders a markdown table.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Rows shorter than the header are padded with "-";
// longer rows are trimmed to the header width.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) && cells[i] != "" {
			row[i] = sanitizeCell(cells[i])
		} else {
			row[i] = "-"
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table as markdown.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(t.headers, " | ") + " |\n")

	separators := make([]string, len(t.headers))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("|" + strings.Join(separators, "|") + "|\n")

	for _, row := range t.rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

// sanitizeCell keeps cell content on one line and inside its column.
func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return s
}

// Builder assembles a markdown document section by section.
type Builder struct {
	b strings.Builder
}

// Headingf writes a markdown heading at the given level.
func (r *Builder) Headingf(level int, format string, args ...interface{}) {
	r.b.WriteString(strings.Repeat("#", level) + " " + fmt.Sprintf(format, args...) + "\n\n")
}

// Linef writes a formatted line.
func (r *Builder) Linef(format string, args ...interface{}) {
	r.b.WriteString(fmt.Sprintf(format, args...) + "\n")
}

// Fieldf writes a "**Label:** value" line.
func (r *Builder) Fieldf(label, format string, args ...interface{}) {
	r.b.WriteString("**" + label + ":** " + fmt.Sprintf(format, args...) + "\n")
}

// Blank writes an empty line.
func (r *Builder) Blank() {
	r.b.WriteString("\n")
}

// Table writes a rendered table followed by a blank line.
func (r *Builder) Table(t *Table) {
	r.b.WriteString(t.String())
	r.b.WriteString("\n")
}

// Raw writes s verbatim.
func (r *Builder) Raw(s string) {
	r.b.WriteString(s)
}

// String returns the assembled document.
func (r *Builder) String() string {
	return r.b.String()
}
