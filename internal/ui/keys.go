package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// List mode
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Copy   key.Binding
	Search key.Binding
	Add    key.Binding
	Delete key.Binding
	Export key.Binding
	Quit   key.Binding

	// Text entry modes, where letters are input
	NavUp     key.Binding
	NavDown   key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding

	// Add method choice
	Manual  key.Binding
	URI     key.Binding
	Image   key.Binding
	Capture key.Binding

	ConfirmYes key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Home:   key.NewBinding(key.WithKeys("home", "g")),
		End:    key.NewBinding(key.WithKeys("end", "G")),
		Copy:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "copy")),
		Search: key.NewBinding(key.WithKeys("f", "F", "/"), key.WithHelp("f", "find")),
		Add:    key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "add")),
		Delete: key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "delete")),
		Export: key.NewBinding(key.WithKeys("e", "E"), key.WithHelp("e", "export QR")),
		Quit:   key.NewBinding(key.WithKeys("q", "Q", "esc"), key.WithHelp("q", "quit")),

		NavUp:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "move")),
		NavDown:   key.NewBinding(key.WithKeys("down")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up")),

		Manual:  key.NewBinding(key.WithKeys("m", "M"), key.WithHelp("m", "manual")),
		URI:     key.NewBinding(key.WithKeys("u", "U"), key.WithHelp("u", "otpauth URI")),
		Image:   key.NewBinding(key.WithKeys("i", "I"), key.WithHelp("i", "QR image")),
		Capture: key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "screenshot")),

		ConfirmYes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	}
}

// hints returns the footer bindings for the current mode.
func (k keyMap) hints(m Mode, captureEnabled bool) []key.Binding {
	switch m := m.(type) {
	case *listMode:
		if m.confirmDelete != "" {
			return []key.Binding{k.ConfirmYes, k.Cancel}
		}
		if m.qr != nil {
			return []key.Binding{key.NewBinding(key.WithHelp("any key", "close"))}
		}
		return []key.Binding{k.Up, k.Copy, k.Search, k.Add, k.Delete, k.Export, k.Quit}
	case *searchMode:
		return []key.Binding{k.NavUp, k.Confirm, k.Cancel}
	case *addMethodMode:
		out := []key.Binding{k.Manual, k.URI, k.Image}
		if captureEnabled {
			out = append(out, k.Capture)
		}
		return append(out, k.Cancel)
	case *addMode:
		return []key.Binding{k.NextField, k.Confirm, k.Cancel}
	}
	return nil
}
