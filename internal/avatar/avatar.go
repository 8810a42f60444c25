// Package avatar draws single-letter profile images.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultWidth  = 100
	DefaultHeight = 100

	// fontSize does not scale with the image size.
	fontSize = 48
	fontDPI  = 72
)

var (
	background = color.RGBA{R: 0x00, G: 0x7b, B: 0xff, A: 0xff} // #007bff
	foreground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff} // #fff
)

var ErrInvalidInput = errors.New("avatar: invalid input")

// Renderer draws avatars with a shared font face. Safe for concurrent use.
type Renderer struct {
	mu   sync.Mutex // font.Face is not safe for concurrent use
	face font.Face
}

func NewRenderer() (*Renderer, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create avatar font face: %w", err)
	}
	return &Renderer{face: face}, nil
}

// Render returns a PNG of the upper-cased first rune of letter, centered on a
// width x height background. Equal inputs give byte-identical output.
func (r *Renderer) Render(letter string, width, height int) ([]byte, error) {
	if letter == "" {
		return nil, fmt.Errorf("%w: empty letter", ErrInvalidInput)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidInput, width, height)
	}
	first, _ := utf8.DecodeRuneInString(letter)
	if first == utf8.RuneError {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidInput)
	}
	glyph := strings.ToUpper(string(first))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	r.mu.Lock()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(foreground),
		Face: r.face,
	}
	m := r.face.Metrics()
	advance := d.MeasureString(glyph)
	// horizontally centered, vertically centered on the line box
	d.Dot = fixed.Point26_6{
		X: (fixed.I(width) - advance) / 2,
		Y: (fixed.I(height) + m.Ascent - m.Descent) / 2,
	}
	d.DrawString(glyph)
	r.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}

// FirstLetter returns the first rune of s as a string, or "" when s is empty.
func FirstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
