// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/unixdj/qrgrid/gf256"
)

func TestSplitBlocks(t *testing.T) {
	for _, tt := range []struct {
		v      Version
		l      Level
		ecc    int
		blocks []int // data codewords per block
	}{
		{1, M, 10, []int{16}},
		{5, Q, 18, []int{15, 15, 16, 16}},
		{7, L, 20, []int{78, 78}},
		{14, L, 30, []int{115, 115, 115, 116}},
	} {
		data := make([]byte, tt.v.DataCodewords(tt.l))
		for i := range data {
			data[i] = byte(i)
		}
		blocks, err := SplitBlocks(data, tt.v, tt.l)
		if err != nil {
			t.Fatalf("SplitBlocks(%d-%s): %v", tt.v, tt.l, err)
		}
		var lens []int
		var joined []byte
		for _, b := range blocks {
			lens = append(lens, len(b.Data))
			joined = append(joined, b.Data...)
			if len(b.Check) != tt.ecc {
				t.Errorf("%d-%s: %d check codewords, want %d",
					tt.v, tt.l, len(b.Check), tt.ecc)
			}
			want := gf256.QR().ECC(b.Data, len(b.Data)+tt.ecc)
			if !bytes.Equal(b.Check, want) {
				t.Errorf("%d-%s: check codewords % x, want % x",
					tt.v, tt.l, b.Check, want)
			}
		}
		if diff := cmp.Diff(tt.blocks, lens); diff != "" {
			t.Errorf("%d-%s block lengths (-want +got):\n%s", tt.v, tt.l, diff)
		}
		if !bytes.Equal(joined, data) {
			t.Errorf("%d-%s: blocks do not partition the data", tt.v, tt.l)
		}
	}
}

func TestSplitBlocksLength(t *testing.T) {
	if _, err := SplitBlocks(make([]byte, 15), 1, M); !errors.Is(err, ErrOverflow) {
		t.Errorf("SplitBlocks(15 bytes, 1-M) error %v, want ErrOverflow", err)
	}
	if _, err := SplitBlocks(nil, 0, M); err != ErrVersion {
		t.Errorf("SplitBlocks(version 0) error %v, want ErrVersion", err)
	}
}

func TestInterleave(t *testing.T) {
	blocks := []Block{
		{Data: []byte{1, 2}, Check: []byte{10, 11}},
		{Data: []byte{3, 4}, Check: []byte{12, 13}},
		{Data: []byte{5, 6, 7}, Check: []byte{14, 15}},
	}
	want := []byte{1, 3, 5, 2, 4, 6, 7, 10, 12, 14, 11, 13, 15}
	if diff := cmp.Diff(want, Interleave(blocks)); diff != "" {
		t.Errorf("Interleave mismatch (-want +got):\n%s", diff)
	}
	if got := Interleave(nil); len(got) != 0 {
		t.Errorf("Interleave(nil) = %v", got)
	}
}

func TestCodewords(t *testing.T) {
	data := []byte{32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236}
	want := append(append([]byte(nil), data...),
		168, 72, 22, 82, 217, 54, 156, 0, 46, 15, 180, 122, 16)
	got, err := Codewords(data, 1, Q)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Codewords(HELLO WORLD, 1-Q) mismatch (-want +got):\n%s", diff)
	}
}

func TestCodewordsLength(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			cw, err := Codewords(make([]byte, v.DataCodewords(l)), v, l)
			if err != nil {
				t.Fatalf("Codewords(%d-%s): %v", v, l, err)
			}
			if len(cw) != v.RawCodewords() {
				t.Errorf("Codewords(%d-%s) length %d, want %d",
					v, l, len(cw), v.RawCodewords())
			}
		}
	}
}
