// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode chooses the encoding mode from the character set of the text,
the smallest version able to hold it and the strongest error
correction level at that version.  The mask is chosen by the caller.
The resulting Code can be rendered as text, PBM, PNG or image.Image.
*/
package qr // import "github.com/unixdj/qrgrid"

import (
	"image"
	"image/color"
	"strings"

	"github.com/unixdj/qrgrid/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// Encode returns an encoding of text at error correction level level
// or above, masked with the given mask pattern.  A mask outside the
// range 0 to 7 is replaced with 0.
func Encode(text string, level Level, mask int) (*Code, error) {
	if mask < 0 || mask > 7 {
		mask = 0
	}
	mode, err := coding.Classify(text)
	if err != nil {
		return nil, err
	}
	v, l, err := coding.SelectVersion(mode, len(text), coding.Level(level))
	if err != nil {
		return nil, err
	}
	data, err := coding.EncodeText(text, mode, v, l)
	if err != nil {
		return nil, err
	}
	cw, err := coding.Codewords(data, v, l)
	if err != nil {
		return nil, err
	}
	g, err := coding.NewGrid(v)
	if err != nil {
		return nil, err
	}
	if err := g.DrawPatterns(l, mask); err != nil {
		return nil, err
	}
	if err := g.Place(cw); err != nil {
		return nil, err
	}
	if err := g.ApplyMask(); err != nil {
		return nil, err
	}
	bitmap, stride := g.Bitmap()
	return &Code{
		Bitmap:  bitmap,
		Size:    g.Size(),
		Stride:  stride,
		Scale:   8,
		Border:  4,
		Version: v,
		Level:   Level(l),
		Mask:    mask,
		Mode:    mode,
		Text:    text,
	}, nil
}

// A Code is a square pixel grid.
// It implements image.Image and direct PNG encoding.
type Code struct {
	Bitmap  []byte          // 1 is black, 0 is white
	Size    int             // number of pixels on a side
	Stride  int             // number of bytes per row
	Scale   int             // number of image pixels per QR pixel
	Border  int             // width of quiet zone in QR pixels
	Reverse bool            // reverse colours
	Palette *[2]color.Color // background and foreground, or nil

	Version coding.Version // QR version
	Level   Level          // error correction level
	Mask    int            // mask pattern
	Mode    coding.Mode    // encoding mode
	Text    string         // encoded text
}

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Modules returns a copy of the pixel grid indexed by row and column.
// True is black.
func (c *Code) Modules() [][]bool {
	m := make([][]bool, c.Size)
	for y := range m {
		m[y] = make([]bool, c.Size)
		for x := range m[y] {
			m[y][x] = c.Black(x, y)
		}
	}
	return m
}

func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Scale > 0 && c.Border >= 0 &&
		c.Stride >= (c.Size+7)/8 && len(c.Bitmap) >= c.Stride*c.Size
}

// String returns the code drawn with Unicode block elements, two
// pixels per character vertically, for terminals with light text on
// dark background.  With c.Reverse the colours are swapped.
func (c *Code) String() string {
	if !c.isValid() {
		return ""
	}
	glyphs := [4]string{"█", "▀", "▄", " "}
	if c.Reverse {
		glyphs = [4]string{" ", "▄", "▀", "█"}
	}
	var b strings.Builder
	bord := c.Border
	b.Grow((c.Size + bord*2) * ((c.Size+1)/2 + bord) * 3)
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			n := 0
			if c.Black(x, y) {
				n = 2
			}
			if c.Black(x, y+1) {
				n++
			}
			b.WriteString(glyphs[n])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// colors returns the background and foreground colours.
func (c *Code) colors() (bg, fg color.Color) {
	bg, fg = whiteColor, blackColor
	if c.Palette != nil {
		bg, fg = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		bg, fg = fg, bg
	}
	return bg, fg
}

// Image returns an Image displaying the code.
func (c *Code) Image() image.Image {
	return &codeImage{c}
}

// codeImage implements image.Image
type codeImage struct {
	*Code
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + c.Border*2) * c.Scale
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	bg, fg := c.colors()
	if x >= 0 && y >= 0 && c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return fg
	}
	return bg
}

func (c *codeImage) ColorModel() color.Model {
	if c.Palette == nil {
		return color.GrayModel
	}
	bg, fg := c.colors()
	return color.Palette{bg, fg}
}
