package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// Mode is the dashboard's input mode. Each mode carries only the state it
// needs; the concrete types are listMode, searchMode, addMethodMode and addMode.
type Mode interface {
	Name() string
}

type listMode struct {
	// confirmDelete names the account awaiting y/N confirmation.
	confirmDelete string
	qr            *qrOverlay
}

type qrOverlay struct {
	label string
	uri   string
	lines []string
	err   error
}

type searchMode struct {
	input textinput.Model
	// prevSelected is restored when the search is cancelled.
	prevSelected string
}

type addMethodMode struct{}

type addMethod int

const (
	addManual addMethod = iota
	addURI
	addImage
)

type addMode struct {
	method addMethod
	fields []*formField
	focus  int
	err    string
}

type formField struct {
	label  string
	secret bool
	input  textinput.Model
}

func (*listMode) Name() string      { return "list" }
func (*searchMode) Name() string    { return "search" }
func (*addMethodMode) Name() string { return "add-method" }
func (*addMode) Name() string       { return "add" }

func newInput(charLimit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = charLimit
	ti.Focus()
	return ti
}

func newSearchMode(prevSelected string) *searchMode {
	return &searchMode{input: newInput(64), prevSelected: prevSelected}
}

func newAddMode(method addMethod) *addMode {
	m := &addMode{method: method}
	switch method {
	case addManual:
		m.fields = []*formField{
			{label: "Name", input: newInput(128)},
			{label: "Secret", secret: true, input: newInput(256)},
			{label: "Issuer", input: newInput(128)},
		}
	case addURI:
		m.fields = []*formField{{label: "URI", secret: true, input: newInput(2048)}}
	case addImage:
		m.fields = []*formField{{label: "Image path", input: newInput(1024)}}
	}
	for i, f := range m.fields {
		if i != 0 {
			f.input.Blur()
		}
	}
	return m
}

func (m *addMode) title() string {
	switch m.method {
	case addURI:
		return "Add account from otpauth:// URI"
	case addImage:
		return "Add account from QR image"
	}
	return "Add account"
}

func (m *addMode) setFocus(i int) {
	if i < 0 || i >= len(m.fields) {
		return
	}
	m.fields[m.focus].input.Blur()
	m.focus = i
	m.fields[m.focus].input.Focus()
}

func (m *addMode) value(i int) string {
	return m.fields[i].input.Value()
}
