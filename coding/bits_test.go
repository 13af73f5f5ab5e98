// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBitsWrite(t *testing.T) {
	var b Bits
	for _, w := range []struct {
		v    uint32
		nbit int
	}{
		{1, 4}, {8, 10}, {0, 0}, {12, 10}, {345, 10}, {67, 7}, {0x7fffffff, 31},
	} {
		if err := b.Write(w.v, w.nbit); err != nil {
			t.Fatalf("Write(%d, %d): %v", w.v, w.nbit, err)
		}
	}
	if b.Bits() != 72 {
		t.Fatalf("Bits() = %d, want 72", b.Bits())
	}
	want := []byte{0x10, 0x20, 0x0c, 0x56, 0x61, 0xff, 0xff, 0xff, 0xff}
	if diff := cmp.Diff(want, b.Bytes()); diff != "" {
		t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
	}
	b.Reset()
	if b.Bits() != 0 || len(b.Bytes()) != 0 {
		t.Errorf("after Reset: %d bits, % x", b.Bits(), b.Bytes())
	}
}

func TestBitsWriteInvalid(t *testing.T) {
	var b Bits
	for _, w := range []struct {
		v    uint32
		nbit int
	}{
		{0, -1}, {0, 32}, {16, 4}, {1, 0}, {1 << 31, 31},
	} {
		if err := b.Write(w.v, w.nbit); !errors.Is(err, ErrBitWidth) {
			t.Errorf("Write(%d, %d) error %v, want ErrBitWidth", w.v, w.nbit, err)
		}
	}
	if b.Bits() != 0 {
		t.Errorf("invalid writes left %d bits", b.Bits())
	}
}

func TestBitsFractional(t *testing.T) {
	var b Bits
	b.Write(1, 3)
	defer func() {
		if recover() == nil {
			t.Error("Bytes() with 3 bits did not panic")
		}
	}()
	b.Bytes()
}

func TestBitsPadTo(t *testing.T) {
	for _, tt := range []struct {
		nbit, n int
		want    []byte
	}{
		{0, 32, []byte{0x00, 0xec, 0x11, 0xec}},
		{4, 16, []byte{0xf0, 0xec}},
		{6, 16, []byte{0xfc, 0x00}},
		{13, 16, []byte{0xff, 0xf8}},
		{16, 16, []byte{0xff, 0xff}},
		{22, 40, []byte{0xff, 0xff, 0xfc, 0x00, 0xec}},
	} {
		var b Bits
		for i := 0; i < tt.nbit; i++ {
			b.Write(1, 1)
		}
		if err := b.PadTo(tt.n); err != nil {
			t.Fatalf("%d bits: PadTo(%d): %v", tt.nbit, tt.n, err)
		}
		if diff := cmp.Diff(tt.want, b.Bytes()); diff != "" {
			t.Errorf("%d bits: PadTo(%d) mismatch (-want +got):\n%s",
				tt.nbit, tt.n, diff)
		}
	}
}

func TestBitsPadToInvalid(t *testing.T) {
	var b Bits
	b.Write(0, 20)
	if err := b.PadTo(12); !errors.Is(err, ErrBitWidth) {
		t.Errorf("PadTo(12) error %v, want ErrBitWidth", err)
	}
	if err := b.PadTo(16); !errors.Is(err, ErrOverflow) {
		t.Errorf("PadTo(16) with 20 bits error %v, want ErrOverflow", err)
	}
}

func TestNewBits(t *testing.T) {
	b, err := NewBits(1, M)
	if err != nil {
		t.Fatal(err)
	}
	if c := cap(b.b); c != 16 {
		t.Errorf("NewBits(1, M) capacity %d, want 16", c)
	}
	if _, err := NewBits(41, M); err != ErrVersion {
		t.Errorf("NewBits(41, M) error %v, want ErrVersion", err)
	}
	if _, err := NewBits(1, 5); err != ErrLevel {
		t.Errorf("NewBits(1, 5) error %v, want ErrLevel", err)
	}
}

func TestBitStream(t *testing.T) {
	s := NewBitStream([]byte{0x10, 0x20, 0x0c})
	if s.Len() != 24 {
		t.Fatalf("Len() = %d, want 24", s.Len())
	}
	for _, tt := range []struct {
		nbit int
		want uint32
	}{
		{4, 1}, {10, 8}, {10, 12}, {3, 0},
	} {
		if got := s.Read(tt.nbit); got != tt.want {
			t.Errorf("Read(%d) = %d, want %d", tt.nbit, got, tt.want)
		}
	}
	if s.Len() != 0 || s.Next() != 0 {
		t.Errorf("past end: Len() = %d", s.Len())
	}
}
