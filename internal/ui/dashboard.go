// Package ui is the interactive dashboard: a mode-driven state machine over
// the account snapshot, drawn into a screen.Buffer each frame.
package ui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"

	"github.com/hotpot-dev/hotpot/internal/config"
	"github.com/hotpot-dev/hotpot/internal/search"
	"github.com/hotpot-dev/hotpot/internal/storage"
	"github.com/hotpot-dev/hotpot/internal/totp"
)

// headerRows and footerRows frame the content area.
const (
	headerRows = 2
	footerRows = 2
)

// Options configures a Dashboard. Zero values get defaults.
type Options struct {
	CopiedDuration time.Duration
	StatusDuration time.Duration
	Clipboard      Clipboard
	Theme          Theme
	Now            func() time.Time

	// DecodeImage returns the text of the QR code in an image file.
	DecodeImage func(path string) (string, error)
	// Capture lets the user pick a screen region and decodes its QR code.
	// Nil hides the screenshot add method.
	Capture func(ctx context.Context) (string, error)
}

type codeState struct {
	code totp.Code
	err  error
}

type statusLine struct {
	text  string
	isErr bool
	until time.Time
}

// Dashboard owns all interactive state. It is not safe for concurrent use;
// the event loop is its only caller.
type Dashboard struct {
	store storage.Store
	opts  Options
	keys  keyMap

	data    storage.Storage
	codes   map[string]codeState
	results []search.Result

	mode     Mode
	selected int
	offset   int
	copied   map[string]time.Time
	status   statusLine
	now      time.Time
	width    int
	height   int
	quitting bool
}

// New creates a dashboard over an already loaded snapshot.
func New(store storage.Store, initial storage.Storage, opts Options) *Dashboard {
	if opts.CopiedDuration <= 0 {
		opts.CopiedDuration = config.DefaultCopiedDuration
	}
	if opts.StatusDuration <= 0 {
		opts.StatusDuration = config.DefaultStatusDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DarkTheme()
	}

	d := &Dashboard{
		store:    store,
		opts:     opts,
		keys:     defaultKeyMap(),
		data:     initial.Sorted(),
		codes:    make(map[string]codeState),
		mode:     &listMode{},
		selected: -1,
		copied:   make(map[string]time.Time),
		now:      opts.Now(),
	}
	d.refreshCodes()
	d.refilter()
	return d
}

func (d *Dashboard) Mode() Mode { return d.mode }

func (d *Dashboard) Quitting() bool { return d.quitting }

// Accounts returns the current snapshot.
func (d *Dashboard) Accounts() []totp.Account { return d.data.Clone().Accounts }

// Visible returns the accounts of the current (possibly filtered) list in display order.
func (d *Dashboard) Visible() []totp.Account {
	out := make([]totp.Account, len(d.results))
	for i, r := range d.results {
		out[i] = d.data.Accounts[r.Index]
	}
	return out
}

// Selected returns the selected account, if any.
func (d *Dashboard) Selected() (totp.Account, bool) {
	if d.selected < 0 || d.selected >= len(d.results) {
		return totp.Account{}, false
	}
	return d.data.Accounts[d.results[d.selected].Index], true
}

// Status returns the transient status message and whether it is an error.
func (d *Dashboard) Status() (string, bool) {
	return d.status.text, d.status.isErr
}

// IsCopied reports whether the copied marker for name is still showing.
func (d *Dashboard) IsCopied(name string) bool {
	deadline, ok := d.copied[name]
	return ok && d.now.Before(deadline)
}

// Resize records the terminal size and keeps the selection on screen.
func (d *Dashboard) Resize(width, height int) {
	d.width, d.height = width, height
	d.ensureVisible()
}

// Tick recomputes codes for now and expires copied markers and status messages.
func (d *Dashboard) Tick(now time.Time) {
	d.now = now
	for name, deadline := range d.copied {
		if !now.Before(deadline) {
			delete(d.copied, name)
		}
	}
	if d.status.text != "" && !now.Before(d.status.until) {
		d.status = statusLine{}
	}
	d.refreshCodes()
}

// Reload replaces the snapshot with one loaded from the store, keeping the
// selected account selected when it still exists.
func (d *Dashboard) Reload() {
	st, err := d.store.Load()
	if err != nil {
		log.Printf("[DASHBOARD] reload failed: %v", err)
		d.setError("Reload failed: " + err.Error())
		return
	}
	d.setData(st)
	log.Printf("[DASHBOARD] reloaded %d accounts", len(st.Accounts))
}

// HandleKey applies one key press to the state machine.
func (d *Dashboard) HandleKey(msg tea.KeyMsg) {
	if msg.Type == tea.KeyCtrlC {
		d.quitting = true
		return
	}
	switch m := d.mode.(type) {
	case *listMode:
		d.handleListKey(m, msg)
	case *searchMode:
		d.handleSearchKey(m, msg)
	case *addMethodMode:
		d.handleAddMethodKey(msg)
	case *addMode:
		d.handleAddKey(m, msg)
	}
	d.ensureVisible()
}

func (d *Dashboard) handleListKey(m *listMode, msg tea.KeyMsg) {
	if m.confirmDelete != "" {
		name := m.confirmDelete
		m.confirmDelete = ""
		if key.Matches(msg, d.keys.ConfirmYes) {
			d.deleteAccount(name)
		}
		return
	}
	if m.qr != nil {
		m.qr = nil
		return
	}

	switch {
	case key.Matches(msg, d.keys.Up):
		d.move(-1)
	case key.Matches(msg, d.keys.Down):
		d.move(1)
	case key.Matches(msg, d.keys.Home):
		d.selected = search.ClampSelection(0, len(d.results))
	case key.Matches(msg, d.keys.End):
		d.selected = search.ClampSelection(len(d.results)-1, len(d.results))
	case key.Matches(msg, d.keys.Copy):
		d.copySelected()
	case key.Matches(msg, d.keys.Search):
		d.mode = newSearchMode(d.selectedName())
	case key.Matches(msg, d.keys.Add):
		d.mode = &addMethodMode{}
	case key.Matches(msg, d.keys.Delete):
		if acct, ok := d.Selected(); ok {
			m.confirmDelete = acct.Name
		}
	case key.Matches(msg, d.keys.Export):
		if acct, ok := d.Selected(); ok {
			m.qr = d.buildQR(acct)
		}
	case key.Matches(msg, d.keys.Quit):
		d.quitting = true
	}
}

func (d *Dashboard) handleSearchKey(m *searchMode, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, d.keys.Cancel):
		d.mode = &listMode{}
		d.refilter()
		d.selectName(m.prevSelected)
		return
	case key.Matches(msg, d.keys.Confirm):
		name := d.selectedName()
		d.mode = &listMode{}
		d.refilter()
		d.selectName(name)
		return
	case key.Matches(msg, d.keys.NavUp):
		d.move(-1)
		return
	case key.Matches(msg, d.keys.NavDown):
		d.move(1)
		return
	}

	before := m.input.Value()
	m.input, _ = m.input.Update(msg)
	if m.input.Value() != before {
		d.refilter()
		d.selected = search.ClampSelection(0, len(d.results))
	}
}

func (d *Dashboard) query() string {
	if m, ok := d.mode.(*searchMode); ok {
		return m.input.Value()
	}
	return ""
}

func (d *Dashboard) refilter() {
	d.results = search.Filter(d.data.Accounts, d.query())
	d.selected = search.ClampSelection(d.selected, len(d.results))
}

func (d *Dashboard) refreshCodes() {
	codes := make(map[string]codeState, len(d.data.Accounts))
	for _, a := range d.data.Accounts {
		c, err := totp.Generate(a, d.now)
		codes[a.Name] = codeState{code: c, err: err}
	}
	d.codes = codes
}

// setData swaps in a new snapshot.
func (d *Dashboard) setData(st storage.Storage) {
	name := d.selectedName()
	d.data = st.Sorted()
	for n := range d.copied {
		if _, ok := d.data.Find(n); !ok {
			delete(d.copied, n)
		}
	}
	d.refreshCodes()
	d.refilter()
	d.selectName(name)
}

func (d *Dashboard) selectedName() string {
	if acct, ok := d.Selected(); ok {
		return acct.Name
	}
	return ""
}

func (d *Dashboard) selectName(name string) {
	for i, r := range d.results {
		if d.data.Accounts[r.Index].Name == name {
			d.selected = i
			return
		}
	}
	d.selected = search.ClampSelection(d.selected, len(d.results))
}

func (d *Dashboard) move(delta int) {
	if len(d.results) == 0 {
		d.selected = -1
		return
	}
	if d.selected < 0 {
		d.selected = 0
		return
	}
	d.selected = search.ClampSelection(d.selected+delta, len(d.results))
}

func (d *Dashboard) listRows() int {
	return max(d.height-headerRows-footerRows, 1)
}

func (d *Dashboard) ensureVisible() {
	rows := d.listRows()
	if d.selected >= 0 {
		if d.selected < d.offset {
			d.offset = d.selected
		}
		if d.selected >= d.offset+rows {
			d.offset = d.selected - rows + 1
		}
	}
	maxOffset := max(len(d.results)-rows, 0)
	d.offset = min(max(d.offset, 0), maxOffset)
}

func (d *Dashboard) setInfo(text string) {
	d.status = statusLine{text: text, until: d.opts.Now().Add(d.opts.StatusDuration)}
}

func (d *Dashboard) setError(text string) {
	d.status = statusLine{text: text, isErr: true, until: d.opts.Now().Add(d.opts.StatusDuration)}
}
