package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/sitefinder/pkg/scores"
	"github.com/matzehuels/sitefinder/pkg/sites"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconBar     = "█"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints search statistics on a single line.
func printStats(siteCount, cellCount int, cached bool) {
	fmt.Println(statsLine(siteCount, cellCount, cached))
}

func statsLine(siteCount, cellCount int, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d sites", siteCount),
		fmt.Sprintf("%d cells", cellCount),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line + StyleDim.Render(" · ") + statusStyle.Render(status)
}

// =============================================================================
// Tables
// =============================================================================

// renderSiteTable renders the ranking of doc: one row per site with its
// score, seed cell (global indices) and size.
func renderSiteTable(doc *sites.Document) string {
	rows := make([][]string, 0, len(doc.Sites))
	for _, s := range doc.Sites {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			strconv.Itoa(s.TotalScore),
			strconv.Itoa(s.Seed.GlobalRow),
			strconv.Itoa(s.Seed.GlobalCol),
			strconv.Itoa(s.Size()),
			s.Color,
		})
	}

	t := newTable("ID", "Score", "Row", "Col", "Cells", "Colour").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader.Padding(0, 1)
			}
			if col == 5 && row >= 0 && row < len(doc.Sites) {
				return styleTableCell.Foreground(lipgloss.Color(doc.Sites[row].Color))
			}
			if col == 1 {
				return styleTableCell.Foreground(colorCyan)
			}
			return styleTableCell
		})
	return t.Render()
}

// renderRecordTable renders saved runs, newest first.
func renderRecordTable(recs []store.Record) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		best := "—"
		n := 0
		if r.Document != nil {
			n = len(r.Document.Sites)
			if n > 0 {
				best = strconv.Itoa(r.Document.Sites[0].TotalScore)
			}
		}
		rows = append(rows, []string{
			r.ID,
			formatRelativeTime(r.CreatedAt),
			fmt.Sprintf("%d/%d", r.Options.TargetSize, r.Options.Count),
			strconv.Itoa(n),
			best,
			shortHash(r.MatrixHash),
		})
	}

	t := newTable("ID", "Created", "Size/Count", "Sites", "Best", "Matrix").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader.Padding(0, 1)
			}
			if col == 1 || col == 5 {
				return styleTableCell.Foreground(colorDim)
			}
			return styleTableCell
		})
	return t.Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...)
}

// renderHistogram draws one bar per bin scaled to width characters.
func renderHistogram(s scores.Summary, width int) string {
	if len(s.Histogram) == 0 {
		return ""
	}
	peak := 0.0
	for _, v := range s.Histogram {
		peak = max(peak, v)
	}

	var b strings.Builder
	for i, v := range s.Histogram {
		n := 0
		if peak > 0 {
			n = int(v / peak * float64(width))
		}
		label := fmt.Sprintf("%7.1f – %-7.1f", s.BinEdges[i], s.BinEdges[i+1])
		fmt.Fprintf(&b, "  %s %s %s\n",
			StyleDim.Render(label),
			StyleHighlight.Render(strings.Repeat(iconBar, n)),
			StyleNumber.Render(strconv.Itoa(int(v))))
	}
	return b.String()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
