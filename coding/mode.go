// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// ErrKanji is returned for text that could only be encoded in kanji
// mode, and when encoding in kanji mode is requested.
var ErrKanji = errors.New("qr: kanji mode not supported")

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes.  Numeric, Alphanumeric and Byte accept successively
// larger character sets.
const (
	Numeric      Mode = iota // digits 0-9
	Alphanumeric             // 0-9, A-Z, space and $%*+-./:
	Byte                     // printable ASCII
	ECI                      // extended channel interpretation header
	Kanji                    // detection only
)

// A ModeEncoder describes a segment encoding mode.
type ModeEncoder struct {
	Name      string // Name for error reporting
	Indicator byte   // 4 bit mode indicator

	// CountLength lists lengths of the character count field in the
	// three QR version size classes.
	CountLength [3]byte

	// Accepts reports whether the encoding mode accepts the rune.
	Accepts func(rune) bool

	// capacity converts available data bits to characters.
	capacity func(bits int) int

	// Encode3, Encode2 and Encode1 return the encoding of the bytes
	// and its length in bits.  The encoder calls a non-nil Encode{N}
	// repeatedly as long as N source bytes are available, in
	// descending order of N.  If all are nil, each byte is encoded as
	// 8 bits.
	Encode3 func([3]byte) (uint32, int)
	Encode2 func([2]byte) (uint32, int)
	Encode1 func(byte) (uint32, int)
}

// alphabet lists alphanumeric mode characters by value.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

func alphaValue(b byte) uint32 {
	return uint32(strings.IndexByte(alphabet, b))
}

func nothing(rune) bool { return false }

var modes = [...]ModeEncoder{
	Numeric: {
		Name:        "numeric",
		Indicator:   1,
		CountLength: [3]byte{10, 12, 14},
		Accepts:     func(r rune) bool { return '0' <= r && r <= '9' },
		capacity: func(bits int) int {
			n, r := bits/10*3, bits%10
			switch {
			case r > 6:
				n += 2
			case r > 3:
				n++
			}
			return n
		},
		Encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0]-'0')*100 + uint32(b[1]-'0')*10 +
				uint32(b[2]-'0'), 10
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]-'0')*10 + uint32(b[1]-'0'), 7
		},
		Encode1: func(b byte) (uint32, int) {
			return uint32(b - '0'), 4
		},
	},
	Alphanumeric: {
		Name:        "alphanumeric",
		Indicator:   2,
		CountLength: [3]byte{9, 11, 13},
		Accepts: func(r rune) bool {
			return r < utf8.RuneSelf && strings.IndexByte(alphabet, byte(r)) >= 0
		},
		capacity: func(bits int) int {
			n := bits / 11 * 2
			if bits%11 > 5 {
				n++
			}
			return n
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return alphaValue(b[0])*45 + alphaValue(b[1]), 11
		},
		Encode1: func(b byte) (uint32, int) {
			return alphaValue(b), 6
		},
	},
	Byte: {
		Name:        "byte",
		Indicator:   4,
		CountLength: [3]byte{8, 16, 16},
		Accepts:     func(r rune) bool { return ' ' <= r && r <= '~' },
		capacity:    func(bits int) int { return bits >> 3 },
	},
	ECI: {
		Name:        "eci",
		Indicator:   7,
		CountLength: [3]byte{0, 0, 0},
		Accepts:     nothing,
		capacity:    func(bits int) int { return bits >> 3 },
	},
	Kanji: {
		Name:        "kanji",
		Indicator:   8,
		CountLength: [3]byte{8, 10, 12},
		Accepts:     nothing,
		capacity:    func(bits int) int { return bits / 13 },
	},
}

func getMode(mode Mode) *ModeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.Name
	}
	return strconv.Itoa(int(mode))
}

// Indicator returns the 4 bit mode indicator, or 0 if mode is invalid.
func (mode Mode) Indicator() int {
	if m := getMode(mode); m != nil {
		return int(m.Indicator)
	}
	return 0
}

// CountLength returns the length in bits of the character count field
// for mode at version v, or -1 if mode or v is invalid.
func (mode Mode) CountLength(v Version) int {
	if m := getMode(mode); m != nil && v.valid() {
		return int(m.CountLength[v.SizeClass()])
	}
	return -1
}

// Is reports whether r is encodable in mode.
func Is(r rune, mode Mode) bool {
	m := getMode(mode)
	return m != nil && m.Accepts(r)
}

// IsKanji reports whether r is a character of the QR kanji mode
// subset of Shift JIS.  Text consisting of such characters is
// detected but not encoded.
func IsKanji(r rune) bool {
	if r < utf8.RuneSelf {
		return false
	}
	b, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(string(r)))
	if err != nil || len(b) != 2 {
		return false
	}
	c := uint16(b[0])<<8 | uint16(b[1])
	return 0x8140 <= c && c <= 0x9ffc || 0xe040 <= c && c <= 0xebbf
}

// TextError represents text not encodable in a mode.
type TextError struct {
	Text string // the text
	Mode Mode   // the last mode tried
	Pos  int    // byte offset of the first rejected character
}

func (e *TextError) Error() string {
	if e.Mode == Kanji {
		return fmt.Sprintf("qr: kanji text %#q: kanji mode not supported",
			e.Text)
	}
	r, _ := utf8.DecodeRuneInString(e.Text[e.Pos:])
	return fmt.Sprintf("qr: non-%s character %q at offset %d in %#q",
		e.Mode, r, e.Pos, e.Text)
}

// Unwrap returns ErrKanji for text rejected only for being kanji.
func (e *TextError) Unwrap() error {
	if e.Mode == Kanji {
		return ErrKanji
	}
	return nil
}

// reject returns the offset of the first rune in s not accepted by
// mode, or -1 if mode accepts all of s.
func reject(s string, accepts func(rune) bool) int {
	for i, r := range s {
		if !accepts(r) {
			return i
		}
	}
	return -1
}

// Classify returns the first of Numeric, Alphanumeric, Byte and Kanji
// accepting all of text.  Kanji is never returned: for text
// consisting of kanji Classify returns a TextError wrapping ErrKanji.
func Classify(text string) (Mode, error) {
	for _, mode := range []Mode{Numeric, Alphanumeric, Byte, Kanji} {
		if reject(text, modes[mode].Accepts) < 0 {
			return mode, nil
		}
	}
	if reject(text, IsKanji) < 0 {
		return 0, &TextError{Text: text, Mode: Kanji}
	}
	return 0, &TextError{
		Text: text,
		Mode: Byte,
		Pos:  reject(text, modes[Byte].Accepts),
	}
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// Count returns the value of the segment's character count field.
func (seg Segment) Count() int { return len(seg.Text) }

// Encode writes seg encoded for the given QR version to b: mode
// indicator, character count and data.  ECI segments carry no count
// and no data.
func (seg Segment) Encode(b *Bits, v Version) error {
	m := getMode(seg.Mode)
	if m == nil {
		return ErrMode
	}
	if !v.valid() {
		return ErrVersion
	}
	if seg.Mode == Kanji {
		return ErrKanji
	}
	s := seg.Text
	if seg.Mode != ECI {
		if i := reject(s, m.Accepts); i >= 0 {
			return &TextError{Text: s, Mode: seg.Mode, Pos: i}
		}
	}
	if err := b.Write(uint32(m.Indicator), 4); err != nil {
		return err
	}
	if seg.Mode == ECI {
		return nil
	}
	if err := b.Write(uint32(seg.Count()),
		int(m.CountLength[v.SizeClass()])); err != nil {
		return err
	}
	enc3, enc2, enc1 := m.Encode3, m.Encode2, m.Encode1
	if enc3 == nil && enc2 == nil && enc1 == nil {
		for i := 0; i < len(s); i++ {
			if err := b.Write(uint32(s[i]), 8); err != nil {
				return err
			}
		}
		return nil
	}
	if enc3 != nil {
		for ; len(s) >= 3; s = s[3:] {
			if err := b.Write(enc3([3]byte{s[0], s[1], s[2]})); err != nil {
				return err
			}
		}
	}
	if enc2 != nil {
		for ; len(s) >= 2; s = s[2:] {
			if err := b.Write(enc2([2]byte{s[0], s[1]})); err != nil {
				return err
			}
		}
	}
	if enc1 != nil {
		for ; len(s) >= 1; s = s[1:] {
			if err := b.Write(enc1(s[0])); err != nil {
				return err
			}
		}
	}
	if s != "" {
		panic("qr: " + m.Name + " mode internal error")
	}
	return nil
}

// EncodeText packs text in the given mode into the data codewords of
// a QR code with version v and level l, adding the terminator and
// padding.
func EncodeText(text string, mode Mode, v Version, l Level) ([]byte, error) {
	b, err := NewBits(v, l)
	if err != nil {
		return nil, err
	}
	if err := (Segment{text, mode}).Encode(b, v); err != nil {
		return nil, err
	}
	if b.Bits() > v.DataBits(l) {
		return nil, &CapacityError{Mode: mode, Length: len(text), Level: l}
	}
	if err := b.PadTo(v.DataBits(l)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
