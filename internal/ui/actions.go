package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"

	"github.com/hotpot-dev/hotpot/internal/qr"
	"github.com/hotpot-dev/hotpot/internal/storage"
	"github.com/hotpot-dev/hotpot/internal/totp"
)

func (d *Dashboard) copySelected() {
	acct, ok := d.Selected()
	if !ok {
		return
	}
	now := d.opts.Now()
	code, err := totp.Generate(acct, now)
	if err != nil {
		d.setError(fmt.Sprintf("Cannot generate code for %s: %v", acct.Name, err))
		return
	}
	if err := d.opts.Clipboard.WriteAll(code.Value); err != nil {
		log.Printf("[DASHBOARD] clipboard write failed: %v", err)
		d.setError("Clipboard unavailable: " + err.Error())
		return
	}
	d.copied[acct.Name] = now.Add(d.opts.CopiedDuration)
	log.Printf("[DASHBOARD] copied code for %s", acct.Name)
}

// deleteAccount saves the collection without name. The in-memory snapshot
// only changes once the save succeeded.
func (d *Dashboard) deleteAccount(name string) {
	next, err := d.data.Without(name)
	if err != nil {
		d.setError(err.Error())
		return
	}
	if err := d.store.Save(next); err != nil {
		log.Printf("[DASHBOARD] delete %s: save failed: %v", name, err)
		d.setError("Delete failed: " + err.Error())
		return
	}
	delete(d.copied, name)
	d.setData(next)
	d.setInfo("Deleted account: " + name)
	log.Printf("[DASHBOARD] deleted account %s", name)
}

// addAccount validates and saves a new account. On failure the snapshot is
// unchanged and the error is returned for inline display.
func (d *Dashboard) addAccount(acct totp.Account) error {
	next, err := d.data.WithAccount(acct)
	if err != nil {
		return err
	}
	if err := d.store.Save(next); err != nil {
		log.Printf("[DASHBOARD] add %s: save failed: %v", acct.Name, err)
		d.setError("Save failed: " + err.Error())
		return err
	}
	d.mode = &listMode{}
	d.setData(next)
	d.selectName(strings.TrimSpace(acct.Name))
	d.setInfo("Added account: " + strings.TrimSpace(acct.Name))
	log.Printf("[DASHBOARD] added account %s", acct.Name)
	return nil
}

func (d *Dashboard) buildQR(acct totp.Account) *qrOverlay {
	uri := totp.URI(acct)
	lines, err := qr.Lines(uri, d.opts.Theme.Dark)
	return &qrOverlay{label: acct.Label(), uri: uri, lines: lines, err: err}
}

func (d *Dashboard) handleAddMethodKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, d.keys.Cancel):
		d.mode = &listMode{}
	case key.Matches(msg, d.keys.Manual):
		d.mode = newAddMode(addManual)
	case key.Matches(msg, d.keys.URI):
		d.mode = newAddMode(addURI)
	case key.Matches(msg, d.keys.Image):
		d.mode = newAddMode(addImage)
	case key.Matches(msg, d.keys.Capture):
		if d.opts.Capture == nil {
			return
		}
		d.captureAndAdd()
	}
}

func (d *Dashboard) captureAndAdd() {
	text, err := d.opts.Capture(context.Background())
	if err != nil {
		d.setError("Screenshot import failed: " + err.Error())
		return
	}
	acct, err := totp.ParseURI(text)
	if err != nil {
		d.setError("Screenshot import failed: " + err.Error())
		return
	}
	if err := d.addAccount(acct); err != nil {
		d.setError("Screenshot import failed: " + describeAddError(err))
	}
}

func (d *Dashboard) handleAddKey(m *addMode, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, d.keys.Cancel):
		d.mode = &listMode{}
		return
	case key.Matches(msg, d.keys.Confirm):
		if m.focus < len(m.fields)-1 {
			m.setFocus(m.focus + 1)
			return
		}
		d.submitAdd(m)
		return
	case key.Matches(msg, d.keys.NextField):
		m.setFocus(m.focus + 1)
		return
	case key.Matches(msg, d.keys.PrevField):
		m.setFocus(m.focus - 1)
		return
	}

	f := m.fields[m.focus]
	f.input, _ = f.input.Update(msg)
	m.err = ""
}

func (d *Dashboard) submitAdd(m *addMode) {
	acct, err := d.accountFromForm(m)
	if err == nil {
		err = d.addAccount(acct)
	}
	if err != nil {
		m.err = describeAddError(err)
	}
}

func (d *Dashboard) accountFromForm(m *addMode) (totp.Account, error) {
	switch m.method {
	case addURI:
		return totp.ParseURI(m.value(0))
	case addImage:
		if d.opts.DecodeImage == nil {
			return totp.Account{}, errors.New("image import is not available")
		}
		path := strings.TrimSpace(m.value(0))
		if path == "" {
			return totp.Account{}, &totp.ValidationError{Field: "image path", Reason: "must not be empty"}
		}
		text, err := d.opts.DecodeImage(path)
		if err != nil {
			return totp.Account{}, err
		}
		return totp.ParseURI(text)
	}
	return totp.NewAccount(m.value(0), m.value(1), m.value(2)), nil
}

func describeAddError(err error) string {
	var verr *totp.ValidationError
	switch {
	case errors.As(err, &verr):
		return capitalize(verr.Error())
	case errors.Is(err, storage.ErrDuplicateAccountName):
		return "An account with that name already exists"
	case errors.Is(err, totp.ErrInvalidSecret):
		return "Secret is not valid Base32"
	case errors.Is(err, totp.ErrInvalidURI):
		return capitalize(err.Error())
	case errors.Is(err, totp.ErrUnsupportedAlgorithm):
		return capitalize(err.Error())
	case errors.Is(err, storage.ErrStoreUnavailable):
		return "Save failed: " + err.Error()
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
