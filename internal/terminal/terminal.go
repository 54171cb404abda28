// Package terminal acquires and releases raw mode and the alternate screen,
// reads key presses and reports the terminal size.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

const (
	enterAltScreen = "\x1b[?1049h"
	exitAltScreen  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
)

var ErrNotTerminal = errors.New("not a terminal")

// Terminal is what the dashboard loop needs from the terminal.
type Terminal interface {
	io.Writer
	// Start enters raw mode and the alternate screen and begins delivering keys.
	Start() error
	// Stop undoes Start. It is safe to call more than once.
	Stop() error
	Size() (width, height int, err error)
	// Keys is closed when input ends; Err then reports why.
	Keys() <-chan tea.KeyMsg
	Err() error
}

// TTY is a Terminal backed by a real terminal device.
type TTY struct {
	in  *os.File
	out *os.File

	mu      sync.Mutex
	state   *term.State
	reader  cancelreader.CancelReader
	keys    chan tea.KeyMsg
	stop    chan struct{}
	done    chan struct{}
	err     error
	started bool
}

// Open returns a TTY on the process's stdin and stdout.
func Open() *TTY {
	return New(os.Stdin, os.Stdout)
}

func New(in, out *os.File) *TTY {
	return &TTY{in: in, out: out}
}

// File is the output device. Renderers use it to detect the color profile.
func (t *TTY) File() *os.File { return t.out }

func (t *TTY) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

func (t *TTY) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return nil
	}

	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	reader, err := cancelreader.NewReader(t.in)
	if err != nil {
		_ = term.Restore(fd, state)
		return fmt.Errorf("open input reader: %w", err)
	}
	if _, err := io.WriteString(t.out, enterAltScreen+hideCursor); err != nil {
		reader.Close()
		_ = term.Restore(fd, state)
		return fmt.Errorf("enter alternate screen: %w", err)
	}

	t.state = state
	t.reader = reader
	t.keys = make(chan tea.KeyMsg, 16)
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.err = nil
	t.started = true
	go t.readLoop(reader, t.keys, t.stop, t.done)

	log.Printf("[TERM] raw mode on")
	return nil
}

func (t *TTY) readLoop(r io.Reader, keys chan<- tea.KeyMsg, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(keys)

	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for _, k := range ParseKeys(buf[:n]) {
			select {
			case keys <- k:
			case <-stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) {
				t.mu.Lock()
				t.err = fmt.Errorf("read input: %w", err)
				t.mu.Unlock()
			}
			return
		}
	}
}

// Stop restores the terminal state saved by Start.
func (t *TTY) Stop() error {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return nil
	}
	t.started = false
	close(t.stop)
	reader, done, state := t.reader, t.done, t.state
	t.mu.Unlock()

	if reader.Cancel() {
		<-done
	}
	reader.Close()

	_, werr := io.WriteString(t.out, showCursor+exitAltScreen)
	rerr := term.Restore(int(t.in.Fd()), state)
	log.Printf("[TERM] raw mode off")
	if rerr != nil {
		return fmt.Errorf("restore terminal: %w", rerr)
	}
	if werr != nil {
		return fmt.Errorf("leave alternate screen: %w", werr)
	}
	return nil
}

func (t *TTY) Size() (int, int, error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	return w, h, nil
}

func (t *TTY) Keys() <-chan tea.KeyMsg {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.keys
}

func (t *TTY) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
