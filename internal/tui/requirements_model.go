package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/uywa/nutrienergia/internal/requirement"
)

// Layout constants.
const (
	defaultTableHeight = 15
	borderPadding      = 2
	defaultWidth       = 100
)

// RequirementsModel is the interactive before/after view of a scaled
// requirement table.
type RequirementsModel struct {
	table    table.Model
	before   []requirement.Row
	after    []requirement.Row
	target   float64
	decimals int
	width    int
	quitting bool
}

// NewRequirementsModel builds the model. before and after must be parallel
// slices as produced by requirement.Scale.
func NewRequirementsModel(before, after []requirement.Row, target float64, decimals int) *RequirementsModel {
	return &RequirementsModel{
		table:    newRequirementsTable(before, after, decimals, defaultTableHeight),
		before:   before,
		after:    after,
		target:   target,
		decimals: decimals,
		width:    defaultWidth,
	}
}

// Init implements tea.Model.
func (m *RequirementsModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *RequirementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(5, msg.Height-10))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *RequirementsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderRequirementsSummary(m.before, m.after, m.target, m.width))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("↑/↓ scroll · q quit"))
	return b.String()
}

// renderRequirementsSummary boxes the scaling headline: target density, row
// count, and how many rows actually moved.
func renderRequirementsSummary(before, after []requirement.Row, target float64, width int) string {
	changed := 0
	for i := range after {
		if after[i].ValuePerKg != before[i].ValuePerKg {
			changed++
		}
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("REQUIREMENT SCALING"))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Target energy: "))
	content.WriteString(ValueStyle.Render(fmt.Sprintf("%.0f kcal/kg", target)))
	content.WriteString(LabelStyle.Render("    Nutrients: "))
	content.WriteString(ValueStyle.Render(strconv.Itoa(len(after))))
	content.WriteString(LabelStyle.Render("    Rescaled: "))
	content.WriteString(ValueStyle.Render(strconv.Itoa(changed)))

	return BoxStyle.Width(width - borderPadding).Render(content.String())
}

// newRequirementsTable builds the scrollable nutrient table.
func newRequirementsTable(before, after []requirement.Row, decimals, height int) table.Model {
	columns := []table.Column{
		{Title: "Nutrient", Width: 28},  //nolint:mnd // Column width.
		{Title: "Reference", Width: 12}, //nolint:mnd // Column width.
		{Title: "Scaled", Width: 12},    //nolint:mnd // Column width.
		{Title: "Unit", Width: 10},      //nolint:mnd // Column width.
		{Title: "Scalable", Width: 8},   //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(after))
	for i, r := range after {
		scalable := "yes"
		if !r.Scalable {
			scalable = "no"
		}
		rows[i] = table.Row{
			r.Nutrient,
			strconv.FormatFloat(before[i].ValuePerKg, 'f', decimals, 64),
			strconv.FormatFloat(r.ValuePerKg, 'f', decimals, 64),
			r.Unit,
			scalable,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}
