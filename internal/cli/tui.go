package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sitefinder/pkg/sites"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SiteListModel - Interactive site browser
// =============================================================================

// SiteListModel is the bubbletea model for browsing the sites of a result
// document. The left column lists sites by rank; the detail pane shows the
// cells of the selected site.
type SiteListModel struct {
	Doc    *sites.Document
	Cursor int

	// Height is the number of cell lines shown in the detail pane.
	Height int
	// Offset is the first cell line shown.
	Offset int
}

// NewSiteListModel creates a browser for doc.
func NewSiteListModel(doc *sites.Document) SiteListModel {
	return SiteListModel{Doc: doc, Height: 12}
}

func (m SiteListModel) Init() tea.Cmd {
	return nil
}

func (m SiteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = 0
			}
		case "down", "j":
			if m.Cursor < len(m.Doc.Sites)-1 {
				m.Cursor++
				m.Offset = 0
			}
		case "pgdown", "l":
			if n := m.cellCount(); m.Offset+m.Height < n {
				m.Offset += m.Height
			}
		case "pgup", "h":
			m.Offset = max(0, m.Offset-m.Height)
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
	}
	return m, nil
}

func (m SiteListModel) cellCount() int {
	if len(m.Doc.Sites) == 0 {
		return 0
	}
	return len(m.Doc.Sites[m.Cursor].Cells)
}

func (m SiteListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Sites"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ site  ←/→ page cells  q quit"))
	b.WriteString("\n\n")

	if len(m.Doc.Sites) == 0 {
		b.WriteString(StyleWarning.Render("No sites found"))
		b.WriteString("\n")
		return b.String()
	}

	var list strings.Builder
	for i, s := range m.Doc.Sites {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("■")
		line := fmt.Sprintf("%s#%-3d %6d  %3d cells", cursor, s.ID, s.TotalScore, s.Size())
		if i == m.Cursor {
			list.WriteString(swatch + " " + listSelectedStyle.Render(line))
		} else {
			list.WriteString(swatch + " " + listNormalStyle.Render(line))
		}
		list.WriteString("\n")
	}

	detail := m.detailView(m.Doc.Sites[m.Cursor])
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "    ", detail))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Doc.Sites))))

	return b.String()
}

func (m SiteListModel) detailView(s sites.Site) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  seed (%d, %d)  score %s\n",
		StyleHighlight.Render(fmt.Sprintf("Site %d", s.ID)),
		s.Seed.GlobalRow, s.Seed.GlobalCol,
		StyleNumber.Render(fmt.Sprint(s.TotalScore)))

	end := min(m.Offset+m.Height, len(s.Cells))
	for _, c := range s.Cells[m.Offset:end] {
		line := fmt.Sprintf("  (%d, %d)  %d", c.GlobalRow, c.GlobalCol, c.Score)
		if c.X != nil && c.Y != nil {
			line += listDimStyle.Render(fmt.Sprintf("  %.1f, %.1f", *c.X, *c.Y))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(s.Cells) > m.Height {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  cells %d-%d of %d", m.Offset+1, end, len(s.Cells))))
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
