package screen

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	syncBegin   = "\x1b[?2026h"
	syncEnd     = "\x1b[?2026l"
	clearScreen = "\x1b[H\x1b[2J"
)

// Stats describes what one Flush wrote.
type Stats struct {
	Full  bool
	Cells int
	Runs  int
	Bytes int
}

// Screen owns the front buffer (what the terminal shows) and the back buffer
// (the frame being drawn). Flush emits only the differences and swaps them.
type Screen struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	front    *Buffer
	back     *Buffer
	full     bool
	styles   map[Style]lipgloss.Style
}

// fileWriter is a writer wrapping a terminal device, such as terminal.TTY.
type fileWriter interface {
	io.Writer
	File() *os.File
}

// New creates a screen writing to out. The first Flush is a full redraw.
// When out wraps a device the color profile is detected from the device.
func New(out io.Writer, width, height int) *Screen {
	var profileOut io.Writer = out
	if fw, ok := out.(fileWriter); ok {
		profileOut = fw.File()
	}
	return &Screen{
		out:      out,
		renderer: lipgloss.NewRenderer(profileOut),
		front:    NewBuffer(width, height),
		back:     NewBuffer(width, height),
		full:     true,
		styles:   make(map[Style]lipgloss.Style),
	}
}

// Renderer is the lipgloss renderer bound to the output; its color profile
// decides which SGR sequences are emitted.
func (s *Screen) Renderer() *lipgloss.Renderer { return s.renderer }

func (s *Screen) Size() (width, height int) { return s.back.Size() }

// Resize reallocates both buffers and forces the next Flush to redraw
// everything. It reports whether the size changed.
func (s *Screen) Resize(width, height int) bool {
	w, h := s.back.Size()
	if w == width && h == height {
		return false
	}
	s.front = NewBuffer(width, height)
	s.back = NewBuffer(width, height)
	s.full = true
	return true
}

// Begin clears and returns the back buffer for drawing the next frame.
func (s *Screen) Begin() *Buffer {
	s.back.Clear()
	return s.back
}

// Flush writes the cells of the back buffer that differ from the front buffer
// and then swaps the buffers. Nothing is written when the frame is unchanged.
func (s *Screen) Flush() (Stats, error) {
	var sb strings.Builder
	stats := Stats{Full: s.full}
	width, height := s.back.Size()

	for y := 0; y < height; y++ {
		x := 0
		for x < width {
			i := y*width + x
			c := s.back.cells[i]
			if c.Width == 0 || (!s.full && c == s.front.cells[i]) {
				x++
				continue
			}

			start := x
			var text strings.Builder
			for x < width {
				j := y*width + x
				cur := s.back.cells[j]
				if cur.Style != c.Style {
					break
				}
				if cur.Width != 0 && !s.full && cur == s.front.cells[j] {
					break
				}
				if cur.Width != 0 {
					text.WriteRune(cur.Rune)
					stats.Cells++
				}
				x++
			}

			fmt.Fprintf(&sb, "\x1b[%d;%dH", y+1, start+1)
			sb.WriteString(s.render(c.Style, text.String()))
			stats.Runs++
		}
	}

	if stats.Runs == 0 && !s.full {
		return stats, nil
	}

	payload := syncBegin
	if s.full {
		payload += clearScreen
	}
	payload += sb.String() + syncEnd

	n, err := io.WriteString(s.out, payload)
	stats.Bytes = n
	if err != nil {
		s.full = true
		return stats, fmt.Errorf("write frame: %w", err)
	}

	s.front, s.back = s.back, s.front
	s.full = false
	return stats, nil
}

func (s *Screen) render(st Style, text string) string {
	if st == (Style{}) {
		return text
	}
	ls, ok := s.styles[st]
	if !ok {
		ls = s.renderer.NewStyle().
			Bold(st.Bold).
			Faint(st.Faint).
			Underline(st.Underline).
			Reverse(st.Reverse)
		if st.Fg != "" {
			ls = ls.Foreground(st.Fg)
		}
		if st.Bg != "" {
			ls = ls.Background(st.Bg)
		}
		s.styles[st] = ls
	}
	return ls.Render(text)
}
