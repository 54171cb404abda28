// Package qr encodes otpauth URIs as QR codes for terminals and PNG files,
// and decodes QR codes from images.
package qr

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

var (
	ErrNoCode             = errors.New("no QR code found")
	ErrCaptureUnsupported = errors.New("screen capture is only supported on macOS")
	ErrCaptureCancelled   = errors.New("screen capture cancelled")
)

// DefaultPNGSize is the edge length in pixels of exported PNG files.
const DefaultPNGSize = 512

// Lines renders content as a QR code using half-block glyphs, two module rows
// per text line. With invert set, light modules are drawn as blocks, which is
// what a terminal with a dark background needs.
func Lines(content string, invert bool) ([]string, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	bitmap := code.Bitmap()

	ink := func(y, x int) bool {
		if y >= len(bitmap) {
			return invert
		}
		return bitmap[y][x] != invert
	}

	lines := make([]string, 0, (len(bitmap)+1)/2)
	for y := 0; y < len(bitmap); y += 2 {
		var sb strings.Builder
		for x := range bitmap[y] {
			top, bottom := ink(y, x), ink(y+1, x)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		lines = append(lines, sb.String())
	}
	return lines, nil
}

// WritePNG writes content as a QR code PNG of size x size pixels.
func WritePNG(content, path string, size int) error {
	if size <= 0 {
		size = DefaultPNGSize
	}
	if err := qrcode.WriteFile(content, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("write qr png: %w", err)
	}
	return nil
}

// DecodeFile reads the first QR code in a PNG, JPEG or GIF image.
func DecodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return Decode(img)
}

func Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("prepare image: %w", err)
	}
	result, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return result.GetText(), nil
}

// CaptureScreen lets the user select a screen region with the macOS
// screencapture tool and decodes the QR code in it.
func CaptureScreen(ctx context.Context) (string, error) {
	if runtime.GOOS != "darwin" {
		return "", ErrCaptureUnsupported
	}
	dir, err := os.MkdirTemp("", "hotpot-capture-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "capture.png")
	if err := exec.CommandContext(ctx, "screencapture", "-i", "-x", path).Run(); err != nil {
		return "", fmt.Errorf("run screencapture: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		// screencapture exits 0 without a file when the user presses Esc.
		return "", ErrCaptureCancelled
	}
	return DecodeFile(path)
}
