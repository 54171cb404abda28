package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/x/ansi"

	"github.com/hotpot-dev/hotpot/internal/screen"
	"github.com/hotpot-dev/hotpot/internal/search"
)

const (
	minWidth  = 30
	minHeight = 6

	codeWidth  = 9
	badgeText  = "✓ copied"
	ellipsis   = "…"
	labelWidth = 12
)

// Draw renders the whole frame into buf. It reads state only.
func (d *Dashboard) Draw(buf *screen.Buffer) {
	th := d.opts.Theme
	w, h := buf.Size()
	if w < minWidth || h < minHeight {
		buf.WriteString(0, 0, "Terminal too small", th.Error)
		return
	}

	d.drawHeader(buf, w)
	buf.Fill(0, 1, w, '─', th.Faint)

	top, rows := headerRows, h-headerRows-footerRows
	switch m := d.mode.(type) {
	case *listMode:
		if m.qr != nil {
			d.drawQR(buf, m.qr, top, rows, w)
		} else {
			d.drawList(buf, top, rows, w)
		}
	case *searchMode:
		d.drawList(buf, top, rows, w)
	case *addMethodMode:
		d.drawAddMethod(buf, top)
	case *addMode:
		d.drawAddForm(buf, m, top, w)
	}

	d.drawStatus(buf, h-2, w)
	d.drawFooter(buf, h-1)
}

func (d *Dashboard) drawHeader(buf *screen.Buffer, w int) {
	th := d.opts.Theme
	x := buf.WriteString(0, 0, " hotpot ", th.Title)
	x++

	switch m := d.mode.(type) {
	case *searchMode:
		x += buf.WriteString(x, 0, "Search (Esc to exit): ", th.Prompt)
		drawInput(buf, x, 0, w-x, m.input, false, th)
	case *addMethodMode:
		buf.WriteString(x, 0, "Add account", th.Prompt)
	case *addMode:
		buf.WriteString(x, 0, m.title(), th.Prompt)
	default:
		n := len(d.data.Accounts)
		label := strconv.Itoa(n) + " accounts"
		if n == 1 {
			label = "1 account"
		}
		buf.WriteString(x, 0, label, th.Faint)
	}
}

func (d *Dashboard) drawList(buf *screen.Buffer, top, rows, w int) {
	th := d.opts.Theme
	if len(d.results) == 0 {
		msg := "No accounts yet. Press A to add one."
		if q := d.query(); q != "" {
			msg = fmt.Sprintf("No accounts match %q", q)
		} else if len(d.data.Accounts) > 0 {
			msg = "No matches"
		}
		buf.WriteString(2, top+1, msg, th.Faint)
		return
	}

	offset := min(d.offset, max(len(d.results)-rows, 0))
	for i := 0; i < rows && offset+i < len(d.results); i++ {
		idx := offset + i
		d.drawAccountRow(buf, top+i, w, d.results[idx], idx == d.selected)
	}
	if offset > 0 {
		buf.Set(w-1, top, '↑', th.Faint)
	}
	if offset+rows < len(d.results) {
		buf.Set(w-1, top+rows-1, '↓', th.Faint)
	}
}

func (d *Dashboard) drawAccountRow(buf *screen.Buffer, y, w int, res search.Result, selected bool) {
	th := d.opts.Theme
	acct := d.data.Accounts[res.Index]

	barWidth := 10
	if w < 70 {
		barWidth = 5
	}
	badgeWidth := utf8.RuneCountInString(badgeText) + 2
	// marker(2) name gap(2) code gap(2) bar space seconds(4) badge
	nameWidth := max(w-2-2-codeWidth-2-barWidth-4-badgeWidth, 6)

	if selected {
		buf.WriteString(0, y, "▸ ", th.Selected)
	}

	nameStyle := th.Text
	if selected {
		nameStyle = th.Selected
	}
	x := 2
	used := drawHighlighted(buf, x, y, acct.Name, nameWidth, res.NameMatches, nameStyle, th.Match)
	if acct.Issuer != "" && used+3 < nameWidth {
		issuer := ansi.Truncate(acct.Issuer, nameWidth-used-2, ellipsis)
		buf.WriteString(x+used+2, y, issuer, th.Faint)
	}
	x += nameWidth + 2

	st := d.codes[acct.Name]
	if st.err != nil {
		buf.WriteString(x, y, "invalid", th.Error)
		return
	}
	buf.WriteString(x, y, groupCode(st.code.Value), th.Code)
	x += codeWidth + 2

	barStyle := th.Bar
	if st.code.SecondsRemaining <= 5 {
		barStyle = th.BarLow
	}
	buf.WriteString(x, y, screen.ProgressBar(st.code.Fraction(), barWidth), barStyle)
	x += barWidth + 1
	buf.WriteString(x, y, fmt.Sprintf("%2ds", st.code.SecondsRemaining), th.Faint)
	x += 4

	if d.IsCopied(acct.Name) {
		buf.WriteString(x+1, y, badgeText, th.Badge)
	}
}

// drawHighlighted writes s truncated to width, styling the bytes listed in
// matches, and returns the columns used.
func drawHighlighted(buf *screen.Buffer, x, y int, s string, width int, matches []int, base, hl screen.Style) int {
	visible := s
	limit := len(s)
	if ansi.StringWidth(s) > width {
		visible = ansi.Truncate(s, width, ellipsis)
		limit = len(visible) - len(ellipsis)
	}
	hit := make(map[int]bool, len(matches))
	for _, m := range matches {
		hit[m] = true
	}

	col := 0
	for i, r := range visible {
		st := base
		if i < limit && hit[i] {
			st = hl
		}
		col += buf.Set(x+col, y, r, st)
	}
	return col
}

// groupCode splits a code in two halves for readability: "123 456".
func groupCode(code string) string {
	if len(code) < 6 {
		return code
	}
	half := len(code) / 2
	return code[:half] + " " + code[half:]
}

func (d *Dashboard) drawAddMethod(buf *screen.Buffer, top int) {
	th := d.opts.Theme
	buf.WriteString(2, top+1, "Choose add method:", th.Prompt)

	options := []struct{ key, desc string }{
		{"M", "Manual entry"},
		{"U", "Paste an otpauth:// URI"},
		{"I", "Import a QR code image file"},
	}
	if d.opts.Capture != nil {
		options = append(options, struct{ key, desc string }{"S", "Capture a QR code from the screen"})
	}
	y := top + 3
	for _, o := range options {
		x := 4
		x += buf.WriteString(x, y, "["+o.key+"]", th.Key)
		buf.WriteString(x+1, y, o.desc, th.Text)
		y++
	}
	buf.WriteString(4, y+1, "Esc to cancel", th.Faint)
}

func (d *Dashboard) drawAddForm(buf *screen.Buffer, m *addMode, top, w int) {
	th := d.opts.Theme
	y := top + 1
	for i, f := range m.fields {
		focused := i == m.focus
		labelStyle := th.Faint
		if focused {
			labelStyle = th.Selected
		}
		buf.WriteString(2, y, f.label+":", labelStyle)
		drawInput(buf, 2+labelWidth+2, y, w-labelWidth-6, f.input, f.secret, th)
		if !focused && f.input.Value() == "" && f.label == "Issuer" {
			buf.WriteString(2+labelWidth+2, y, "(optional)", th.Faint)
		}
		y += 2
	}
	if m.err != "" {
		buf.WriteString(2, y, m.err, th.Error)
	}
}

// drawInput draws a text input's value with its cursor when focused.
// Secret values are masked. Long values scroll to keep the cursor visible.
func drawInput(buf *screen.Buffer, x, y, width int, in textinput.Model, secret bool, th Theme) {
	if width <= 0 {
		return
	}
	runes := []rune(in.Value())
	if secret {
		runes = []rune(strings.Repeat("•", len(runes)))
	}
	pos := min(in.Position(), len(runes))

	start := 0
	if pos >= width {
		start = pos - width + 1
	}
	col := 0
	for i := start; i < len(runes) && col < width; i++ {
		st := th.Text
		if in.Focused() && i == pos {
			st = th.Cursor
		}
		col += buf.Set(x+col, y, runes[i], st)
	}
	if in.Focused() && pos == len(runes) && col < width {
		buf.Set(x+col, y, ' ', th.Cursor)
	}
}

func (d *Dashboard) drawQR(buf *screen.Buffer, o *qrOverlay, top, rows, w int) {
	th := d.opts.Theme
	buf.WriteString(2, top, "QR code for "+o.label, th.Prompt)

	if o.err != nil {
		buf.WriteString(2, top+2, "Cannot render QR code: "+o.err.Error(), th.Error)
		return
	}

	qrWidth := 0
	if len(o.lines) > 0 {
		qrWidth = utf8.RuneCountInString(o.lines[0])
	}
	if len(o.lines)+1 > rows || qrWidth > w {
		buf.WriteString(2, top+2, "Terminal too small for the QR code. URI:", th.Faint)
		buf.WriteString(2, top+3, o.uri, th.Text)
		return
	}

	x := (w - qrWidth) / 2
	for i, line := range o.lines {
		buf.WriteString(x, top+1+i, line, th.Text)
	}
}

func (d *Dashboard) drawStatus(buf *screen.Buffer, y, w int) {
	th := d.opts.Theme
	if m, ok := d.mode.(*listMode); ok && m.confirmDelete != "" {
		buf.WriteString(1, y, fmt.Sprintf("Delete account '%s'? [y/N]", m.confirmDelete), th.Prompt)
		return
	}
	if d.status.text == "" || !d.now.Before(d.status.until) {
		return
	}
	st := th.Info
	if d.status.isErr {
		st = th.Error
	}
	buf.WriteString(1, y, ansi.Truncate(d.status.text, w-2, ellipsis), st)
}

func (d *Dashboard) drawFooter(buf *screen.Buffer, y int) {
	th := d.opts.Theme
	x := 1
	for _, b := range d.keys.hints(d.mode, d.opts.Capture != nil) {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		x += buf.WriteString(x, y, h.Key, th.Key)
		x += buf.WriteString(x+1, y, h.Desc, th.Faint) + 1
		x += 2
	}
}

// Frame draws the dashboard into a fresh buffer and returns its rows as plain
// text. Used by tests and for non-interactive snapshots.
func (d *Dashboard) Frame(width, height int) []string {
	buf := screen.NewBuffer(width, height)
	d.Draw(buf)
	out := make([]string, height)
	for y := range out {
		out[y] = strings.TrimRight(buf.Row(y), " ")
	}
	return out
}
