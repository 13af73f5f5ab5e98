// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/unixdj/qrgrid/coding"
)

func mustEncode(t testing.TB, text string, level Level, mask int) *Code {
	t.Helper()
	c, err := Encode(text, level, mask)
	if err != nil {
		t.Fatalf("Encode(%q, %s, %d): %v", text, level, mask, err)
	}
	return c
}

// formatBits reads the format information next to the top left finder.
func formatBits(c *Code) int {
	bits := 0
	for i := 14; i >= 0; i-- {
		x, y := 8, i
		switch {
		case i == 6, i == 7:
			y = i + 1
		case i == 8:
			x, y = 7, 8
		case i > 8:
			x, y = 14-i, 8
		}
		bits <<= 1
		if c.Black(x, y) {
			bits |= 1
		}
	}
	return bits
}

func TestEncode(t *testing.T) {
	for _, tt := range []struct {
		text    string
		level   Level
		mask    int
		version coding.Version
		resLev  Level
		mode    coding.Mode
	}{
		{"HELLO WORLD", Q, 2, 1, Q, coding.Alphanumeric},
		{"01234567", M, 0, 1, H, coding.Numeric},
		{"Hello, world!", L, 5, 1, M, coding.Byte},
		{"", H, 7, 1, H, coding.Numeric},
		{strings.Repeat("1234567890", 100), L, 3, 13, L, coding.Numeric},
	} {
		c := mustEncode(t, tt.text, tt.level, tt.mask)
		if c.Version != tt.version || c.Level != tt.resLev || c.Mode != tt.mode {
			t.Errorf("Encode(%.20q, %s): version %d, level %s, mode %s, want %d, %s, %s",
				tt.text, tt.level, c.Version, c.Level, c.Mode,
				tt.version, tt.resLev, tt.mode)
		}
		if c.Size != c.Version.Size() || c.Mask != tt.mask || c.Text != tt.text {
			t.Errorf("Encode(%.20q, %s): size %d, mask %d", tt.text, tt.level, c.Size, c.Mask)
		}
		if got, want := formatBits(c), coding.FormatBits(coding.Level(c.Level), c.Mask); got != want {
			t.Errorf("Encode(%.20q, %s): format %#x, want %#x", tt.text, tt.level, got, want)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a := mustEncode(t, "HELLO WORLD", Q, 2)
	b := mustEncode(t, "HELLO WORLD", Q, 2)
	if diff := cmp.Diff(a.Bitmap, b.Bitmap); diff != "" {
		t.Errorf("repeated Encode differs (-first +second):\n%s", diff)
	}
	if c := mustEncode(t, "HELLO WORLD", Q, 3); bytes.Equal(a.Bitmap, c.Bitmap) {
		t.Error("masks 2 and 3 give identical codes")
	}
}

func TestEncodeInvalidMask(t *testing.T) {
	want := mustEncode(t, "HELLO WORLD", Q, 0)
	for _, mask := range []int{9, 8, -1} {
		c := mustEncode(t, "HELLO WORLD", Q, mask)
		if c.Mask != 0 {
			t.Errorf("mask %d: Mask = %d, want 0", mask, c.Mask)
		}
		if got := formatBits(c); got != coding.FormatBits(coding.Q, 0) {
			t.Errorf("mask %d: format bits %#x", mask, got)
		}
		if !bytes.Equal(c.Bitmap, want.Bitmap) {
			t.Errorf("mask %d: code differs from mask 0", mask)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode("日本語", L, 0); !errors.Is(err, coding.ErrKanji) {
		t.Errorf("Encode(kanji) error %v, want ErrKanji", err)
	}
	var te *coding.TextError
	if _, err := Encode("line\n", L, 0); !errors.As(err, &te) {
		t.Errorf("Encode(newline) error %v, want TextError", err)
	}
	var ce *coding.CapacityError
	if _, err := Encode(strings.Repeat("x", 1274), H, 0); !errors.As(err, &ce) {
		t.Errorf("Encode(1274 bytes, H) error %v, want CapacityError", err)
	}
	if _, err := Encode("x", 4, 0); err != coding.ErrLevel {
		t.Errorf("Encode(level 4) error %v, want ErrLevel", err)
	}
}

func TestModules(t *testing.T) {
	c := mustEncode(t, "HELLO WORLD", Q, 2)
	m := c.Modules()
	if len(m) != 21 {
		t.Fatalf("len(Modules()) = %d", len(m))
	}
	for y, row := range m {
		for x, dark := range row {
			if dark != c.Black(x, y) {
				t.Fatalf("Modules()[%d][%d] = %v", y, x, dark)
			}
		}
	}
	// Finder corners and the dark module.
	if !m[0][0] || !m[0][20] || !m[20][0] || !m[13][8] || m[7][7] {
		t.Error("function patterns misplaced")
	}
}

func TestString(t *testing.T) {
	c := mustEncode(t, "HELLO WORLD", Q, 2)
	c.Border = 2
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 13 {
		t.Fatalf("%d lines, want 13", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 25 {
			t.Errorf("line %d: %d characters, want 25", i, n)
		}
	}
	// Quiet zone, then the top edge of the finder pattern.
	if lines[0] != strings.Repeat("█", 25) {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "██ ▄▄▄▄▄ █") {
		t.Errorf("line 1 = %q", lines[1])
	}
	c.Reverse = true
	if !strings.HasPrefix(c.String(), strings.Repeat(" ", 25)+"\n  █▀▀▀▀▀█ ") {
		t.Errorf("reversed:\n%s", c)
	}
}

// readPBM decodes a P4 image pix pixels on a side.
func readPBM(t *testing.T, b []byte, pix int) func(x, y int) bool {
	t.Helper()
	hdr := fmt.Sprintf("P4\n%d %d\n", pix, pix)
	if !bytes.HasPrefix(b, []byte(hdr)) {
		t.Fatalf("PBM header %q, want %q", b[:min(len(b), len(hdr))], hdr)
	}
	stride := (pix + 7) / 8
	data := b[len(hdr):]
	if len(data) != stride*pix {
		t.Fatalf("PBM data %d bytes, want %d", len(data), stride*pix)
	}
	return func(x, y int) bool {
		return data[y*stride+x/8]>>(7-x%8)&1 != 0
	}
}

func TestEncodePBM(t *testing.T) {
	c := mustEncode(t, "HELLO WORLD", Q, 2)
	for _, scale := range []int{1, 2, 3, 4, 5, 8} {
		for _, border := range []int{0, 1, 4} {
			for _, rev := range []bool{false, true} {
				c.Scale, c.Border, c.Reverse = scale, border, rev
				var buf bytes.Buffer
				if err := c.EncodePBM(&buf); err != nil {
					t.Fatal(err)
				}
				pix := scale * (21 + 2*border)
				black := readPBM(t, buf.Bytes(), pix)
				for y := 0; y < pix; y++ {
					for x := 0; x < pix; x++ {
						want := c.Black(x/scale-border, y/scale-border) != rev
						if got := black(x, y); got != want {
							t.Fatalf("scale %d border %d reverse %v: "+
								"pixel (%d, %d) = %v, want %v",
								scale, border, rev, x, y, got, want)
						}
					}
				}
			}
		}
	}
}

func TestEncodeInvalid(t *testing.T) {
	c := mustEncode(t, "HELLO WORLD", Q, 2)
	c.Scale = 0
	if err := c.EncodePBM(&bytes.Buffer{}); err != ErrArgs {
		t.Errorf("EncodePBM(scale 0) error %v, want ErrArgs", err)
	}
	if err := c.EncodePNG(&bytes.Buffer{}); err != ErrArgs {
		t.Errorf("EncodePNG(scale 0) error %v, want ErrArgs", err)
	}
	if c.PNG() != nil {
		t.Error("PNG(scale 0) not nil")
	}
	c.Scale = 1 << 20
	if err := c.EncodePNG(&bytes.Buffer{}); err != ErrLargeImage {
		t.Errorf("EncodePNG(huge) error %v, want ErrLargeImage", err)
	}
}

func TestPNG(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	yellow := color.RGBA{0xff, 0xff, 0, 0xff}
	c := mustEncode(t, "HELLO WORLD", Q, 2)
	for _, tt := range []struct {
		scale, border int
		rev           bool
		pal           *[2]color.Color
	}{
		{8, 4, false, nil},
		{3, 1, true, nil},
		{1, 0, false, &[2]color.Color{yellow, red}},
		{4, 2, true, &[2]color.Color{yellow, red}},
	} {
		c.Scale, c.Border, c.Reverse, c.Palette = tt.scale, tt.border, tt.rev, tt.pal
		img, err := png.Decode(bytes.NewReader(c.PNG()))
		if err != nil {
			t.Fatalf("%+v: png.Decode: %v", tt, err)
		}
		want := c.Image()
		if img.Bounds() != want.Bounds() {
			t.Fatalf("%+v: bounds %v, want %v", tt, img.Bounds(), want.Bounds())
		}
		r := img.Bounds()
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				r0, g0, b0, a0 := img.At(x, y).RGBA()
				r1, g1, b1, a1 := want.At(x, y).RGBA()
				if r0 != r1 || g0 != g1 || b0 != b1 || a0 != a1 {
					t.Fatalf("%+v: pixel (%d, %d) = %v, want %v",
						tt, x, y, img.At(x, y), want.At(x, y))
				}
			}
		}
	}
}

func TestImage(t *testing.T) {
	c := mustEncode(t, "HELLO WORLD", Q, 2)
	c.Scale, c.Border = 2, 1
	img := c.Image()
	if d := img.Bounds().Dx(); d != 46 {
		t.Fatalf("image width %d, want 46", d)
	}
	if img.At(0, 0) != whiteColor || img.At(2, 2) != blackColor || img.At(3, 3) != blackColor {
		t.Error("image pixels misplaced")
	}
	if img.ColorModel() != color.GrayModel {
		t.Error("color model not grey")
	}
}

func TestPenalty(t *testing.T) {
	blank := &Code{Bitmap: make([]byte, 3*21), Size: 21, Stride: 3}
	// 42 runs of 21, 400 boxes, 0% black.
	if got, want := blank.Penalty(), 42*19+400*3+90; got != want {
		t.Errorf("blank Penalty() = %d, want %d", got, want)
	}
	for mask := 0; mask < 8; mask++ {
		c := mustEncode(t, "HELLO WORLD", Q, mask)
		// Each finder pattern matches at least three times in
		// each direction, facing the quiet zone.
		if p := c.Penalty(); p < 3*3*2*40 {
			t.Errorf("mask %d: Penalty() = %d", mask, p)
		}
	}
}
