package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/irrustible/pages/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	padStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	dataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	fieldHeaderSize = iota
	fieldHeaderAlign
	fieldElemSize
	fieldElemAlign
	fieldCount
	fieldMax
)

var fieldLabels = [fieldMax]string{
	"header size",
	"header align",
	"elem size",
	"elem align",
	"count",
}

var fieldDefaults = [fieldMax]string{"8", "8", "8", "8", "4"}

type interactiveModel struct {
	inputs   [fieldMax]textinput.Model
	focusIdx int
	width    int
}

func newInteractiveModel() *interactiveModel {
	m := &interactiveModel{width: 80}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = fieldLabels[i] + ": "
		ti.SetValue(fieldDefaults[i])
		ti.Width = 12
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "enter", "down":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
			return m, nil

		case "shift+tab", "up":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + len(m.inputs) - 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *interactiveModel) field(i int) (uintptr, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(m.inputs[i].Value()), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number", fieldLabels[i])
	}
	return uintptr(v), nil
}

func (m *interactiveModel) compute() (layout.PageLayout, layout.Layout, layout.Layout, int, error) {
	var vals [fieldMax]uintptr
	for i := range vals {
		v, err := m.field(i)
		if err != nil {
			return layout.PageLayout{}, layout.Layout{}, layout.Layout{}, 0, err
		}
		vals[i] = v
	}
	header := layout.Layout{Size: vals[fieldHeaderSize], Align: vals[fieldHeaderAlign]}
	elem := layout.Layout{Size: vals[fieldElemSize], Align: vals[fieldElemAlign]}
	count := int(vals[fieldCount])

	pl, err := layout.Compute(header, elem, count)
	return pl, header, elem, count, err
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Page Layout Inspector"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	pl, header, elem, count, err := m.compute()
	if err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("tab/enter next field • esc quit"))
		return b.String()
	}

	b.WriteString(resultStyle.Render(fmt.Sprintf(
		"total %d bytes • align %d • data at %d", pl.Size, pl.Align, pl.DataOffset)))
	b.WriteString("\n\n")
	b.WriteString(m.renderByteMap(pl, header, elem, count))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab/enter next field • esc quit"))
	return b.String()
}

// renderByteMap draws the block as one cell per byte: header bytes, padding,
// then data elements. Large blocks are summarized per region instead.
func (m *interactiveModel) renderByteMap(pl layout.PageLayout, header, elem layout.Layout, count int) string {
	if pl.Size == 0 {
		return padStyle.Render("(zero-size layout; the allocator will clamp to 1 byte)")
	}
	if pl.Size > uintptr(m.width)*4 {
		return fmt.Sprintf("%s %s %s",
			headerStyle.Render(fmt.Sprintf("[header %d]", header.Size)),
			padStyle.Render(fmt.Sprintf("[pad %d]", pl.Padding(header.Size))),
			dataStyle.Render(fmt.Sprintf("[data %d x %d]", count, elem.Size)))
	}

	var b strings.Builder
	perLine := m.width - 2
	if perLine < 8 {
		perLine = 8
	}
	col := 0
	for off := uintptr(0); off < pl.Size; off++ {
		var cell string
		switch {
		case off < header.Size:
			cell = headerStyle.Render("H")
		case off < pl.DataOffset:
			cell = padStyle.Render(".")
		case off < pl.DataOffset+uintptr(count)*elem.Size:
			idx := (off - pl.DataOffset) / max(elem.Size, 1)
			if idx%2 == 0 {
				cell = dataStyle.Render("D")
			} else {
				cell = dataStyle.Render("d")
			}
		default:
			cell = padStyle.Render(".")
		}
		b.WriteString(cell)
		col++
		if col == perLine {
			b.WriteString("\n")
			col = 0
		}
	}
	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel())
	_, err := p.Run()
	return err
}
