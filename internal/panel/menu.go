package panel

// MenuItem is a focusable entry in a popup menu.
type MenuItem struct {
	ID    string
	Label string
	// Current marks the entry matching the active setting, e.g. the
	// selected theme.
	Current bool
}

// Menu tracks keyboard focus inside a popup menu. A focus index of -1 means
// focus is on the trigger.
type Menu struct {
	items []MenuItem
	focus int
}

// NewMenu creates a menu with focus on the trigger.
func NewMenu(items ...MenuItem) *Menu {
	return &Menu{items: items, focus: -1}
}

// Items returns the menu entries.
func (m *Menu) Items() []MenuItem {
	return m.items
}

// Len returns the number of entries.
func (m *Menu) Len() int {
	return len(m.items)
}

// Focus returns the focused index, or -1 when the trigger has focus.
func (m *Menu) Focus() int {
	return m.focus
}

// Focused returns the focused entry.
func (m *Menu) Focused() (MenuItem, bool) {
	if m.focus < 0 || m.focus >= len(m.items) {
		return MenuItem{}, false
	}
	return m.items[m.focus], true
}

// Opened moves focus to the first entry.
func (m *Menu) Opened() {
	if len(m.items) == 0 {
		m.focus = -1
		return
	}
	m.focus = 0
}

// Closed returns focus to the trigger.
func (m *Menu) Closed() {
	m.focus = -1
}

// Next moves focus down, wrapping from the last entry to the first.
func (m *Menu) Next() {
	if len(m.items) == 0 {
		return
	}
	if m.focus < len(m.items)-1 {
		m.focus++
	} else {
		m.focus = 0
	}
}

// Prev moves focus up, wrapping from the first entry to the last.
func (m *Menu) Prev() {
	if len(m.items) == 0 {
		return
	}
	if m.focus > 0 {
		m.focus--
	} else {
		m.focus = len(m.items) - 1
	}
}

// FocusID focuses the entry with the given id and reports whether it exists.
func (m *Menu) FocusID(id string) bool {
	for i, it := range m.items {
		if it.ID == id {
			m.focus = i
			return true
		}
	}
	return false
}

// SetCurrent marks the entry with the given id as current and clears the
// mark on every other entry.
func (m *Menu) SetCurrent(id string) {
	for i := range m.items {
		m.items[i].Current = m.items[i].ID == id
	}
}

// Current returns the entry marked current.
func (m *Menu) Current() (MenuItem, bool) {
	for _, it := range m.items {
		if it.Current {
			return it, true
		}
	}
	return MenuItem{}, false
}
