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
	ErrBitWidth = errors.New("qr: invalid bit field")
	ErrOverflow = errors.New("qr: data exceeds code capacity")
)

// Bits is a growable sequence of bits, written most significant bit
// first and packed into bytes.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for the data codewords
// of a QR code of the given version and level.
func NewBits(v Version, l Level) (*Bits, error) {
	if err := check(v, l); err != nil {
		return nil, err
	}
	return &Bits{b: make([]byte, 0, v.DataCodewords(l))}, nil
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the written bits.  The number of bits must be
// a multiple of 8.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Write appends the nbit low bits of v, most significant first.
// nbit must be between 0 and 31 and v must fit in nbit bits.
func (b *Bits) Write(v uint32, nbit int) error {
	if nbit < 0 || nbit > 31 || v>>nbit != 0 {
		return fmt.Errorf("%w: value %d in %d bits", ErrBitWidth, v, nbit)
	}
	if nbit == 0 {
		return nil
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return nil
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
	return nil
}

// Padding bytes alternately filling unused data codewords.
const (
	padByte0 = 0xec
	padByte1 = 0x11
)

// PadTo adds a terminator of up to 4 zero bits, pads b with zeros to
// a byte boundary and fills it to n bits with padding bytes.
// n must be a multiple of 8.
func (b *Bits) PadTo(n int) error {
	if n%8 != 0 {
		return fmt.Errorf("%w: pad to %d bits", ErrBitWidth, n)
	}
	if b.nbit > n {
		return fmt.Errorf("%w: %d bits, %d available",
			ErrOverflow, b.nbit, n)
	}
	if err := b.Write(0, min(4, n-b.nbit)); err != nil {
		return err
	}
	if err := b.Write(0, -b.nbit&7); err != nil {
		return err
	}
	for pad := uint32(padByte0); b.nbit < n; pad ^= padByte0 ^ padByte1 {
		if err := b.Write(pad, 8); err != nil {
			return err
		}
	}
	return nil
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Len returns the number of unread bits.
func (s *BitStream) Len() int { return max(len(s.b)*8-s.pos, 0) }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Read returns the next nbit bits from s, most significant first.
func (s *BitStream) Read(nbit int) uint32 {
	var v uint32
	for i := 0; i < nbit; i++ {
		v = v<<1 | uint32(s.Next())
	}
	return v
}
