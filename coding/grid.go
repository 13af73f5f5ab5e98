// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
)

var (
	ErrPhase = errors.New("qr: grid operation out of order")
	ErrMask  = errors.New("qr: invalid mask")
)

// Grid construction phases.
const (
	phaseAlloc    = iota // NewGrid
	phasePatterns        // DrawPatterns
	phaseData            // Place
	phaseMasked          // ApplyMask
)

// A Grid is the module matrix of a QR code under construction.
//
// Construction proceeds in a fixed order: NewGrid allocates an empty
// grid, DrawPatterns draws and reserves function patterns, format and
// version information, Place fills the remaining modules with
// codewords and ApplyMask masks them.  Each step runs exactly once.
type Grid struct {
	Version Version
	Level   Level
	Mask    int

	size     int
	modules  []bool // row-major, true is dark
	reserved []bool // function patterns and metadata
	phase    int
}

// NewGrid returns an empty grid for a QR code of version v.
func NewGrid(v Version) (*Grid, error) {
	if !v.valid() {
		return nil, ErrVersion
	}
	siz := v.Size()
	return &Grid{
		Version:  v,
		size:     siz,
		modules:  make([]bool, siz*siz),
		reserved: make([]bool, siz*siz),
	}, nil
}

// Size returns the number of modules on a side.
func (g *Grid) Size() int { return g.size }

func (g *Grid) in(x, y int) bool {
	return 0 <= x && x < g.size && 0 <= y && y < g.size
}

// Module reports whether the module at column x, row y is dark.
// Modules outside the grid are light.
func (g *Grid) Module(x, y int) bool {
	return g.in(x, y) && g.modules[y*g.size+x]
}

// Reserved reports whether the module at column x, row y belongs to
// a function pattern or format or version information.
func (g *Grid) Reserved(x, y int) bool {
	return g.in(x, y) && g.reserved[y*g.size+x]
}

// Bitmap returns the modules packed 8 to a byte, most significant bit
// first, each row starting on a byte boundary.  Set bits are dark.
func (g *Grid) Bitmap() (bitmap []byte, stride int) {
	stride = (g.size + 7) >> 3
	bitmap = make([]byte, stride*g.size)
	for y := 0; y < g.size; y++ {
		row := bitmap[y*stride:]
		for x, dark := range g.modules[y*g.size : (y+1)*g.size] {
			if dark {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return bitmap, stride
}

// setFunc sets a reserved module.
func (g *Grid) setFunc(x, y int, dark bool) {
	i := y*g.size + x
	g.modules[i] = dark
	g.reserved[i] = true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// finder draws a finder pattern with its separator centred at x, y,
// clipped to the grid.
func (g *Grid) finder(x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			if !g.in(x+dx, y+dy) {
				continue
			}
			d := max(abs(dx), abs(dy))
			g.setFunc(x+dx, y+dy, d != 2 && d != 4)
		}
	}
}

// alignment draws an alignment pattern centred at x, y.
func (g *Grid) alignment(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			g.setFunc(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

// AlignmentPositions returns the row and column coordinates of
// alignment pattern centres for version v, ascending.  Version 1 has
// none.
func AlignmentPositions(v Version) []int {
	if v <= MinVersion || v > MaxVersion {
		return nil
	}
	intervals := int(v)/7 + 1
	distance := int(v)*4 + 4
	step := 26
	if v != 32 {
		step = (distance + 2*intervals - 1) / (2 * intervals) * 2
	}
	pos := make([]int, 1, intervals+1)
	pos[0] = 6
	for i := 0; i < intervals; i++ {
		pos = append(pos, distance+6-(intervals-1-i)*step)
	}
	return pos
}

// FormatBits returns the 15 bit format information for level l and
// the given mask: 5 data bits and a BCH(15,5) remainder, masked with
// 0x5412.
func FormatBits(l Level, mask int) int {
	data := l.FormatBits()<<3 | mask
	rem := data
	for i := 0; i < 10; i++ {
		rem = rem<<1 ^ (rem>>9)*0x537
	}
	return (data<<10 | rem) ^ 0x5412
}

// VersionBits returns the 18 bit version information for version v:
// 6 data bits and a BCH(18,6) remainder.  Only versions 7 and up
// carry version information.
func VersionBits(v Version) int {
	rem := int(v)
	for i := 0; i < 12; i++ {
		rem = rem<<1 ^ (rem>>11)*0x1f25
	}
	return int(v)<<12 | rem
}

func (g *Grid) format(bits int) {
	bit := func(i int) bool { return bits>>i&1 != 0 }
	siz := g.size
	// Top left corner, down column 8 skipping the timing row, then
	// left along row 8.
	for i := 0; i < 6; i++ {
		g.setFunc(8, i, bit(i))
	}
	g.setFunc(8, 7, bit(6))
	g.setFunc(8, 8, bit(7))
	g.setFunc(7, 8, bit(8))
	for i := 9; i < 15; i++ {
		g.setFunc(14-i, 8, bit(i))
	}
	// Top right and bottom left.
	for i := 0; i < 8; i++ {
		g.setFunc(siz-1-i, 8, bit(i))
	}
	for i := 8; i < 15; i++ {
		g.setFunc(8, siz-15+i, bit(i))
	}
	g.setFunc(8, siz-8, true)
}

func (g *Grid) version() {
	if g.Version < 7 {
		return
	}
	bits := VersionBits(g.Version)
	for i := 0; i < 18; i++ {
		a, b := g.size-11+i%3, i/3
		dark := bits>>i&1 != 0
		g.setFunc(a, b, dark)
		g.setFunc(b, a, dark)
	}
}

// DrawPatterns draws timing, finder and alignment patterns, format
// information for level l and the mask, and version information.
func (g *Grid) DrawPatterns(l Level, mask int) error {
	if g.phase != phaseAlloc {
		return ErrPhase
	}
	if !l.valid() {
		return ErrLevel
	}
	if mask < 0 || mask > 7 {
		return ErrMask
	}
	g.Level, g.Mask = l, mask
	siz := g.size
	for i := 0; i < siz; i++ {
		g.setFunc(i, 6, i%2 == 0)
		g.setFunc(6, i, i%2 == 0)
	}
	g.finder(3, 3)
	g.finder(siz-4, 3)
	g.finder(3, siz-4)
	pos := AlignmentPositions(g.Version)
	last := len(pos) - 1
	for i, x := range pos {
		for j, y := range pos {
			if i == 0 && j == 0 || i == 0 && j == last || i == last && j == 0 {
				continue
			}
			g.alignment(x, y)
		}
	}
	g.format(FormatBits(l, mask))
	g.version()
	g.phase = phasePatterns
	return nil
}

// zigzag calls f for every module outside the vertical timing pattern
// in data placement order: two column strips from right to left,
// alternately upwards and downwards, right column first.
func zigzag(size int, f func(x, y int)) {
	for right := size - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		up := (right+1)&2 == 0
		for vert := 0; vert < size; vert++ {
			y := vert
			if up {
				y = size - 1 - vert
			}
			f(right, y)
			f(right-1, y)
		}
	}
}

// Place fills unreserved modules with the bits of codewords, most
// significant first, in placement order.  Modules left over after the
// last bit remain light.
func (g *Grid) Place(codewords []byte) error {
	if g.phase != phasePatterns {
		return ErrPhase
	}
	if n, avail := len(codewords)*8, g.Version.TotalModules(); n > avail {
		return fmt.Errorf("%w: %d bits, %d modules", ErrOverflow, n, avail)
	}
	s := NewBitStream(codewords)
	zigzag(g.size, func(x, y int) {
		i := y*g.size + x
		if !g.reserved[i] && s.Len() > 0 {
			g.modules[i] = s.Next() != 0
		}
	})
	g.phase = phaseData
	return nil
}

// ApplyMask inverts unreserved modules selected by the mask recorded
// in the format information.
func (g *Grid) ApplyMask() error {
	if g.phase != phaseData {
		return ErrPhase
	}
	f := MaskFunc(g.Mask)
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			if i := y*g.size + x; !g.reserved[i] && f(x, y) {
				g.modules[i] = !g.modules[i]
			}
		}
	}
	g.phase = phaseMasked
	return nil
}

// Done reports whether the grid has been masked.
func (g *Grid) Done() bool { return g.phase == phaseMasked }
