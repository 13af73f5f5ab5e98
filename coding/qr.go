// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: capacity
// planning, text packing, Reed-Solomon blocks and the module grid.
package coding // import "github.com/unixdj/qrgrid/coding"

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
	ErrMode    = errors.New("qr: invalid mode")
)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40: the larger the version, the more
// information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

func (v Version) valid() bool { return MinVersion <= v && v <= MaxVersion }

// QR version size classes, selecting the width of character count
// fields.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Size returns the number of modules on a side of a QR code of
// version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// TotalModules returns the number of modules available for data and
// error correction bits in a QR code of version v, that is, all
// modules except function patterns, format and version information.
func (v Version) TotalModules() int {
	const (
		finders = 3 * 8 * 8 // finder patterns with separators
		format  = 2*15 + 1  // format information and dark module
	)
	siz := v.Size()
	if v == 1 {
		return siz*siz - finders - format - 2*5
	}
	na := int(v)/7 + 2 // alignment patterns per axis
	n := siz*siz - finders - format
	n -= (na*na - 3) * 5 * 5 // alignment patterns
	n -= 2 * (int(v)*4 + 1)  // timing patterns
	n += (na - 2) * 5 * 2    // alignment overlapping timing
	if v > 6 {
		n -= 2 * 3 * 6 // version information
	}
	return n
}

// RawCodewords returns the number of codewords, data and error
// correction, in a QR code of version v.  Remainder bits are not
// counted.
func (v Version) RawCodewords() int { return v.TotalModules() >> 3 }

// DataCodewords returns the number of data codewords that can be
// stored in a QR code with the given version and level.
func (v Version) DataCodewords(l Level) int {
	return v.RawCodewords() - numBlocks[l][v]*eccPerBlock[l][v]
}

// DataBits returns the number of data bits that can be stored in a QR
// code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataCodewords(l) * 8 }

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // about 7% of codewords can be restored
	M              // about 15%
	Q              // about 25%
	H              // about 30%
)

func (l Level) String() string {
	if l.valid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

func (l Level) valid() bool { return L <= l && l <= H }

// FormatBits returns the two bit level indicator used in format
// information: L=01, M=00, Q=11, H=10.
func (l Level) FormatBits() int { return int(l) ^ 1 }

// check validates a version and level pair.
func check(v Version, l Level) error {
	if !v.valid() {
		return ErrVersion
	}
	if !l.valid() {
		return ErrLevel
	}
	return nil
}

// Blocks returns the number of error correction blocks and error
// correction codewords per block for version v and level l.
func (v Version) Blocks(l Level) (nblock, ecc int) {
	return numBlocks[l][v], eccPerBlock[l][v]
}

// CapacityError is returned when text doesn't fit in any QR code at
// the requested level.
type CapacityError struct {
	Mode   Mode
	Length int   // text length in characters
	Level  Level // minimum level requested
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("qr: %d character %s text too long for level %s",
		e.Length, e.Mode, e.Level)
}

// Capacity returns the number of characters of the given mode that
// can be encoded in a single segment of a QR code with version v and
// level l.
func Capacity(v Version, l Level, mode Mode) (int, error) {
	if err := check(v, l); err != nil {
		return 0, err
	}
	m := getMode(mode)
	if m == nil {
		return 0, ErrMode
	}
	bits := v.DataBits(l) - 4 - int(m.CountLength[v.SizeClass()])
	if bits < 0 {
		return 0, nil
	}
	return m.capacity(bits), nil
}

// SelectVersion returns the smallest version able to hold n
// characters in the given mode at level least or above, and the
// strongest level at that version that still fits.
func SelectVersion(mode Mode, n int, least Level) (Version, Level, error) {
	if !least.valid() {
		return 0, 0, ErrLevel
	}
	if getMode(mode) == nil {
		return 0, 0, ErrMode
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := H; l >= least; l-- {
			if c, _ := Capacity(v, l, mode); c >= n {
				return v, l, nil
			}
		}
	}
	return 0, 0, &CapacityError{Mode: mode, Length: n, Level: least}
}
