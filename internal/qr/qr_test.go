package qr

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURI = "otpauth://totp/GitHub:octocat?secret=JBSWY3DPEHPK3PXP&issuer=GitHub"

func TestLines_Shape(t *testing.T) {
	lines, err := Lines(testURI, true)
	require.NoError(t, err)
	require.NotEmpty(t, lines)

	width := utf8.RuneCountInString(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, utf8.RuneCountInString(l))
	}
	// Two module rows per line, rounded up.
	assert.Equal(t, (width+1)/2, len(lines))
}

func TestLines_InvertFlipsEveryModule(t *testing.T) {
	normal, err := Lines(testURI, false)
	require.NoError(t, err)
	inverted, err := Lines(testURI, true)
	require.NoError(t, err)

	flip := map[rune]rune{'█': ' ', ' ': '█', '▀': '▄', '▄': '▀'}
	// The last line may hold a padding row when the module count is odd.
	for i := 0; i < len(normal)-1; i++ {
		n, inv := []rune(normal[i]), []rune(inverted[i])
		for x := range n {
			assert.Equal(t, flip[n[x]], inv[x], "line %d col %d", i, x)
		}
	}
}

func TestWritePNGThenDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code.png")
	require.NoError(t, WritePNG(testURI, path, 256))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	got, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, testURI, got)
}

func TestDecodeFile_NoCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.png")
	writeBlankPNG(t, path)

	_, err := DecodeFile(path)
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestCaptureScreen_Unsupported(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("interactive on macOS")
	}
	_, err := CaptureScreen(t.Context())
	assert.ErrorIs(t, err, ErrCaptureUnsupported)
}
