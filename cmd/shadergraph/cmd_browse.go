package main

import (
	"fmt"
	"strconv"
	"strings"

	"shadergraph/cmd/shadergraph/catalog"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := activeCatalog(cmd)
		if err != nil {
			return err
		}
		p := tea.NewProgram(newBrowseModel(cat), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleDetail = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 2).
			MarginLeft(2)
)

// statusFilters is the order the "s" key cycles through; nil shows all.
var statusFilters = []*catalog.Status{
	nil,
	statusPtr(catalog.StatusExplicit),
	statusPtr(catalog.StatusNoOp),
	statusPtr(catalog.StatusUnimplemented),
}

func statusPtr(s catalog.Status) *catalog.Status { return &s }

type browseModel struct {
	table   table.Model
	cat     *catalog.Catalog
	visible []*catalog.Template
	filter  int
	detail  bool
}

func newBrowseModel(cat *catalog.Catalog) browseModel {
	columns := []table.Column{
		{Title: "OPCODE", Width: 14},
		{Title: "STATUS", Width: 14},
		{Title: "ARITY", Width: 6},
		{Title: "NODES", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := browseModel{table: t, cat: cat}
	m.applyFilter()
	return m
}

func (m *browseModel) applyFilter() {
	only := statusFilters[m.filter]
	m.visible = nil
	for _, t := range m.cat.Templates() {
		if only == nil || t.Status == *only {
			m.visible = append(m.visible, t)
		}
	}
	m.table.SetRows(templateRows(m.visible))
	m.table.SetCursor(0)
}

func templateRows(templates []*catalog.Template) []table.Row {
	rows := make([]table.Row, len(templates))
	for i, t := range templates {
		arity := "-"
		if t.Arity > 0 {
			arity = strconv.Itoa(t.Arity)
		}
		rows[i] = table.Row{t.Opcode, t.Status.String(), arity, strconv.Itoa(t.NodeCount())}
	}
	return rows
}

// selected returns the template under the cursor.
func (m browseModel) selected() (*catalog.Template, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil, false
	}
	return m.visible[i], true
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.detail = !m.detail
			return m, nil
		case "esc":
			m.detail = false
			return m, nil
		case "s":
			m.filter = (m.filter + 1) % len(statusFilters)
			m.applyFilter()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) filterLabel() string {
	if only := statusFilters[m.filter]; only != nil {
		return only.String()
	}
	return "all"
}

func (m browseModel) View() string {
	title := styleTitle.Padding(0, 1).Render(fmt.Sprintf("%s catalog  [%s]  %d/%d opcodes",
		appName, m.filterLabel(), len(m.visible), m.cat.Len()))
	help := styleHelp.Padding(0, 1).Render("↑/↓ move • enter template • s status filter • q quit")
	body := styleBase.Render(m.table.View())

	if m.detail {
		if t, ok := m.selected(); ok {
			text := strings.TrimRight(catalog.FormatTemplate(t), "\n")
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, styleDetail.Render(text))
		}
	}
	return title + "\n" + body + "\n" + help + "\n"
}
