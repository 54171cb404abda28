package screen

import (
	"math"
	"strings"
)

// partialBlocks are the left-aligned eighth blocks, 1/8 through 7/8.
var partialBlocks = []rune("▏▎▍▌▋▊▉")

const fullBlock = '█'

// ProgressBar renders fraction (clamped to [0, 1]) as width columns of block
// glyphs with 1/8-column resolution, padded with spaces.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	eighths := int(math.Round(fraction * float64(width*8)))
	full, rem := eighths/8, eighths%8

	var sb strings.Builder
	sb.WriteString(strings.Repeat(string(fullBlock), full))
	cols := full
	if rem > 0 && cols < width {
		sb.WriteRune(partialBlocks[rem-1])
		cols++
	}
	sb.WriteString(strings.Repeat(" ", width-cols))
	return sb.String()
}
