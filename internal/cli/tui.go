package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/svgmcp/pkg/tools"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ToolListModel - Interactive tool browser
// =============================================================================

// ToolListModel is the bubbletea model for browsing tools and their
// argument schemas.
type ToolListModel struct {
	Tools  []tools.Descriptor
	Cursor int
}

// NewToolListModel creates a new tool browser model.
func NewToolListModel(descs []tools.Descriptor) ToolListModel {
	return ToolListModel{Tools: descs}
}

func (m ToolListModel) Init() tea.Cmd {
	return nil
}

func (m ToolListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Tools)-1 {
				m.Cursor++
			}
		}
	}
	return m, nil
}

func (m ToolListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tools"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	for i, d := range m.Tools {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-14s", cursor, d.Name)))
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(d.Description))
		b.WriteString("\n")
	}

	if len(m.Tools) == 0 {
		return b.String()
	}

	selected := m.Tools[m.Cursor]
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render(selected.Schema.Title))
	if selected.Schema.Description != "" {
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(selected.Schema.Description))
	}
	b.WriteString("\n")
	b.WriteString(renderSchemaTable(selected.Schema))
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Tables
// =============================================================================

// renderToolTable renders one row per tool.
func renderToolTable(descs []tools.Descriptor) string {
	rows := make([][]string, 0, len(descs))
	for _, d := range descs {
		rows = append(rows, []string{
			d.Name,
			d.Format().Label(),
			strings.Join(d.Schema.Required, ", "),
			d.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Tool", "Output", "Required", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 {
				return StyleSuccess
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// renderSchemaTable renders one row per argument in declaration order.
func renderSchemaTable(s *tools.Schema) string {
	rows := make([][]string, 0, len(s.PropertyOrder))
	for _, name := range s.PropertyOrder {
		p := s.Properties[name]
		if p == nil {
			continue
		}
		required := ""
		if s.IsRequired(name) {
			required = "yes"
		}
		rows = append(rows, []string{
			name,
			strings.Join(p.Type, " | "),
			p.Format,
			schemaRange(p),
			required,
			p.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Argument", "Type", "Format", "Range", "Required", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 4 {
				return StyleWarning
			}
			if col == 2 || col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// schemaRange formats a property's numeric bounds, e.g. "0..255".
func schemaRange(s *tools.Schema) string {
	if s.Minimum == nil && s.Maximum == nil {
		return ""
	}
	bound := func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return bound(s.Minimum) + ".." + bound(s.Maximum)
}
