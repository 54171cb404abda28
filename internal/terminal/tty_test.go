//go:build !windows

package terminal

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestTTY_StartStopRestoresState(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	go func() { _, _ = io.Copy(io.Discard, ptmx) }()

	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80}))

	before, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)

	tt := New(tty, tty)
	require.NoError(t, tt.Start())

	during, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)
	assert.NotEqual(t, before, during)

	w, h, err := tt.Size()
	require.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	_, err = ptmx.Write([]byte("q"))
	require.NoError(t, err)
	select {
	case k := <-tt.Keys():
		assert.Equal(t, "q", k.String())
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for key")
	}

	require.NoError(t, tt.Stop())
	require.NoError(t, tt.Stop())

	after, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTTY_StartRejectsNonTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	assert.ErrorIs(t, New(r, w).Start(), ErrNotTerminal)
}
