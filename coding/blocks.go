// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"

	"github.com/unixdj/qrgrid/gf256"
)

// A Block is an error correction block: a run of data codewords and
// the error correction codewords computed over it.
type Block struct {
	Data  []byte
	Check []byte
}

// blockLayout describes the division of codewords into blocks.
type blockLayout struct {
	nblock    int // number of blocks
	nshort    int // number of short blocks
	shortData int // data codewords per short block
	ecc       int // error correction codewords per block
}

func layout(v Version, l Level) blockLayout {
	nblock, ecc := v.Blocks(l)
	raw := v.RawCodewords()
	return blockLayout{
		nblock:    nblock,
		nshort:    nblock - raw%nblock,
		shortData: raw/nblock - ecc,
		ecc:       ecc,
	}
}

// dataLen returns the number of data codewords in block i.
func (lay blockLayout) dataLen(i int) int {
	if i < lay.nshort {
		return lay.shortData
	}
	return lay.shortData + 1
}

// SplitBlocks divides the data codewords of a QR code with version v
// and level l into blocks, short blocks first, and computes their
// error correction codewords.  len(data) must equal v.DataCodewords(l).
func SplitBlocks(data []byte, v Version, l Level) ([]Block, error) {
	if err := check(v, l); err != nil {
		return nil, err
	}
	if n := v.DataCodewords(l); len(data) != n {
		return nil, fmt.Errorf("%w: %d data codewords, want %d",
			ErrOverflow, len(data), n)
	}
	lay := layout(v, l)
	rs := gf256.NewRSEncoder(gf256.QR(), lay.ecc)
	blocks := make([]Block, lay.nblock)
	check := make([]byte, lay.nblock*lay.ecc)
	for i := range blocks {
		n := lay.dataLen(i)
		b := &blocks[i]
		b.Data, data = data[:n], data[n:]
		b.Check, check = check[:lay.ecc:lay.ecc], check[lay.ecc:]
		rs.ECC(b.Data, b.Check)
	}
	if len(data) != 0 {
		panic("qr: internal error")
	}
	return blocks, nil
}

// Interleave returns the final codeword sequence: data codewords
// taken column by column across blocks, then error correction
// codewords likewise.  Short blocks have no codeword in the last data
// column.
func Interleave(blocks []Block) []byte {
	var ndata, ncheck, maxData int
	for _, b := range blocks {
		ndata += len(b.Data)
		ncheck += len(b.Check)
		maxData = max(maxData, len(b.Data))
	}
	cw := make([]byte, 0, ndata+ncheck)
	for i := 0; i < maxData; i++ {
		for _, b := range blocks {
			if i < len(b.Data) {
				cw = append(cw, b.Data[i])
			}
		}
	}
	if len(blocks) > 0 {
		for i := range blocks[0].Check {
			for _, b := range blocks {
				cw = append(cw, b.Check[i])
			}
		}
	}
	return cw
}

// Codewords splits data codewords into blocks and interleaves them,
// returning v.RawCodewords() codewords ready for placement.
func Codewords(data []byte, v Version, l Level) ([]byte, error) {
	blocks, err := SplitBlocks(data, v, l)
	if err != nil {
		return nil, err
	}
	return Interleave(blocks), nil
}
