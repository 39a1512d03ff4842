package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickerToggleAndConfirm(t *testing.T) {
	m := NewPicker([]string{"sneezing", "lethargy", "coughing"}, nil)

	next, _ := m.Update(key(tea.KeySpace))
	next, _ = next.(PickerModel).Update(key(tea.KeyDown))
	next, _ = next.(PickerModel).Update(key(tea.KeySpace))
	next, _ = next.(PickerModel).Update(key(tea.KeyEnter))

	final := next.(PickerModel)
	if final.Cancelled() {
		t.Fatal("picker should not be cancelled")
	}
	got := final.Selection()
	if len(got) != 2 || got[0] != "sneezing" || got[1] != "lethargy" {
		t.Errorf("selection: got %v", got)
	}
}

func TestPickerToggleOffRemoves(t *testing.T) {
	m := NewPicker([]string{"sneezing", "lethargy"}, []string{"sneezing"})

	next, _ := m.Update(key(tea.KeySpace))
	final := next.(PickerModel)
	if len(final.Selection()) != 0 {
		t.Errorf("selection: got %v, want empty", final.Selection())
	}
}

func TestPickerFilterNarrowsOptions(t *testing.T) {
	m := NewPicker([]string{"sneezing", "lethargy", "nasal discharge"}, nil)

	next, _ := m.Update(runes("nasal"))
	next, _ = next.(PickerModel).Update(key(tea.KeySpace))
	next, _ = next.(PickerModel).Update(key(tea.KeyEnter))

	final := next.(PickerModel)
	got := final.Selection()
	if len(got) != 1 || got[0] != "nasal discharge" {
		t.Errorf("selection: got %v", got)
	}
}

func TestPickerEscCancels(t *testing.T) {
	m := NewPicker([]string{"sneezing"}, nil)

	next, _ := m.Update(key(tea.KeyEsc))
	final := next.(PickerModel)
	if !final.Cancelled() {
		t.Error("esc should cancel the picker")
	}
}

func TestPickerPreselectionPreserved(t *testing.T) {
	m := NewPicker([]string{"sneezing", "lethargy"}, []string{"lethargy"})

	next, _ := m.Update(key(tea.KeyEnter))
	final := next.(PickerModel)
	got := final.Selection()
	if len(got) != 1 || got[0] != "lethargy" {
		t.Errorf("selection: got %v", got)
	}
}
