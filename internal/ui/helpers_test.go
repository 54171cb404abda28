package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hotpot-dev/hotpot/internal/storage"
	"github.com/hotpot-dev/hotpot/internal/totp"
)

var t0 = time.Unix(1111111109, 0)

type memStore struct {
	data    storage.Storage
	saveErr error
	loadErr error
	saves   int
}

func (m *memStore) Load() (storage.Storage, error) {
	if m.loadErr != nil {
		return storage.Storage{}, m.loadErr
	}
	return m.data.Clone(), nil
}

func (m *memStore) Save(s storage.Storage) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data = s.Clone()
	return nil
}

type fakeClipboard struct {
	text   string
	err    error
	writes int
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.writes++
	c.text = text
	return nil
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

type fixture struct {
	d     *Dashboard
	store *memStore
	clip  *fakeClipboard
	clock *fakeClock
}

func testAccounts() storage.Storage {
	return storage.Storage{Accounts: []totp.Account{
		totp.NewAccount("google", "HXDMVJECJJWSRB3HWIZR4IFUGFTMXBOZ", "Google"),
		totp.NewAccount("github", "JBSWY3DPEHPK3PXP", "GitHub"),
	}}
}

func newFixture(t *testing.T, initial storage.Storage, mutate ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{
		store: &memStore{data: initial.Clone()},
		clip:  &fakeClipboard{},
		clock: &fakeClock{now: t0},
	}
	opts := Options{
		CopiedDuration: 2 * time.Second,
		StatusDuration: 4 * time.Second,
		Clipboard:      f.clip,
		Theme:          DarkTheme(),
		Now:            f.clock.Now,
		DecodeImage: func(string) (string, error) {
			return "", errors.New("no decoder")
		},
	}
	for _, m := range mutate {
		m(&opts)
	}
	f.d = New(f.store, initial, opts)
	f.d.Resize(80, 24)
	return f
}

func (f *fixture) press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		f.d.HandleKey(k)
	}
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		if r == ' ' {
			f.d.HandleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		f.d.HandleKey(runeKey(r))
	}
}

func (f *fixture) visibleNames() []string {
	var out []string
	for _, a := range f.d.Visible() {
		out = append(out, a.Name)
	}
	return out
}

func (f *fixture) selectedName() string {
	a, ok := f.d.Selected()
	if !ok {
		return ""
	}
	return a.Name
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func special(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}
