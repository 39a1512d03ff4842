// picker.go implements the interactive symptom selector shown by
// "farmeye analyze" when no symptoms are passed on the command line.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PickerModel is a filterable multi-select over the symptom vocabulary.
// Typing narrows the list, up/down move the cursor, space toggles the
// highlighted symptom, enter confirms, esc cancels.
type PickerModel struct {
	options  []string
	selected map[string]bool
	order    []string
	cursor   int
	filter   textinput.Model

	confirmed bool
	cancelled bool
}

// NewPicker creates a PickerModel over the given options with the given
// labels pre-selected.
func NewPicker(options, preselected []string) PickerModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter symptoms..."
	ti.CharLimit = 60
	ti.Focus()

	m := PickerModel{
		options:  options,
		selected: make(map[string]bool, len(preselected)),
		filter:   ti,
	}
	for _, s := range preselected {
		if !m.selected[s] {
			m.selected[s] = true
			m.order = append(m.order, s)
		}
	}
	return m
}

// Init returns the initial command for the picker.
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// visible returns the options matching the current filter.
func (m PickerModel) visible() []string {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return m.options
	}
	var out []string
	for _, opt := range m.options {
		if strings.Contains(strings.ToLower(opt), query) {
			out = append(out, opt)
		}
	}
	return out
}

// toggle flips the selection state of label, preserving toggle order.
func (m *PickerModel) toggle(label string) {
	if m.selected[label] {
		delete(m.selected, label)
		for i, s := range m.order {
			if s == label {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return
	}
	m.selected[label] = true
	m.order = append(m.order, label)
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC, KeyEsc:
			m.cancelled = true
			return m, tea.Quit

		case KeyEnter:
			m.confirmed = true
			return m, tea.Quit

		case KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case KeyDown:
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
			return m, nil

		case KeySpace:
			visible := m.visible()
			if m.cursor < len(visible) {
				m.toggle(visible[m.cursor])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Select symptoms"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	for i, opt := range m.visible() {
		mark := "[ ]"
		if m.selected[opt] {
			mark = "[x]"
		}
		line := mark + " " + opt
		if i == m.cursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render("space: toggle  enter: confirm  esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Cancelled reports whether the user abandoned the picker.
func (m PickerModel) Cancelled() bool {
	return m.cancelled
}

// Selection returns the selected symptoms in toggle order.
func (m PickerModel) Selection() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
