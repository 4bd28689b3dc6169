package grid

import tea "github.com/charmbracelet/bubbletea"

// ActionMenu is the per-row dropdown over a row's actions. Each row
// owns its own menu state; nothing here stops several rows from having
// their menus open at once.
type ActionMenu struct {
	Title    string
	Disabled bool
	actions  []RowAction
	opened   bool
	cursor   int
}

func NewActionMenu(title string, actions []RowAction) *ActionMenu {
	if title == "" {
		title = "Actions"
	}
	return &ActionMenu{Title: title, actions: actions}
}

// Visible filters out hidden actions; this is the list that renders.
func (m *ActionMenu) Visible() []RowAction {
	out := make([]RowAction, 0, len(m.actions))
	for _, a := range m.actions {
		if !a.Hidden {
			out = append(out, a)
		}
	}
	return out
}

// HasTrigger reports whether the menu shows a trigger affordance at
// all. Rows with zero visible actions get no dead UI.
func (m *ActionMenu) HasTrigger() bool {
	return len(m.Visible()) > 0
}

func (m *ActionMenu) Opened() bool { return m.opened }

func (m *ActionMenu) Cursor() int { return m.cursor }

// Toggle opens or closes the menu. The returned flag tells the caller
// the event was consumed, so the click never falls through and selects
// the row underneath.
func (m *ActionMenu) Toggle() bool {
	if m.Disabled || !m.HasTrigger() {
		return false
	}
	m.opened = !m.opened
	m.cursor = 0
	return true
}

func (m *ActionMenu) Close() { m.opened = false }

// Move steps the highlight through the visible entries.
func (m *ActionMenu) Move(delta int) {
	n := len(m.Visible())
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

// Select invokes the visible entry at index i and closes the menu. The
// menu closes even when the action has no handler; disabled entries
// keep it open and fire nothing. The second return value is the
// consumed flag.
func (m *ActionMenu) Select(i int) (tea.Cmd, bool) {
	if !m.opened {
		return nil, false
	}
	visible := m.Visible()
	if i < 0 || i >= len(visible) {
		return nil, false
	}
	a := visible[i]
	if a.Disabled {
		return nil, true
	}
	m.opened = false
	if a.OnClick == nil {
		return nil, true
	}
	return a.OnClick(), true
}

// SelectCurrent invokes the highlighted entry.
func (m *ActionMenu) SelectCurrent() (tea.Cmd, bool) {
	return m.Select(m.cursor)
}
