// Package preimage turns preformatted text blocks into PNG images, for
// readers that do not render monospaced text reliably.
package preimage

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderOptions controls the bitmap layout.
type RenderOptions struct {
	Padding    int
	TabWidth   int
	Foreground color.Color
	Background color.Color
}

// DefaultRenderOptions returns black text on white with a small margin.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Padding:    8,
		TabWidth:   4,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Lines splits text into display lines with tabs expanded. Leading and
// trailing blank lines are dropped.
func Lines(text string, tabWidth int) []string {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")

	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, expandTabs(strings.TrimRight(l, " \t"), tabWidth))
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// Render draws text with the basic 7x13 bitmap face, one row per line.
func Render(text string, opts RenderOptions) image.Image {
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	face := basicfont.Face7x13
	lines := Lines(text, opts.TabWidth)
	if len(lines) == 0 {
		lines = []string{""}
	}

	cols := 1
	for _, l := range lines {
		if n := len([]rune(l)); n > cols {
			cols = n
		}
	}

	width := cols*face.Advance + 2*opts.Padding
	height := len(lines)*face.Height + 2*opts.Padding

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(opts.Foreground),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(opts.Padding, opts.Padding+i*face.Height+face.Ascent)
		d.DrawString(l)
	}
	return img
}
