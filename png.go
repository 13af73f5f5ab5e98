// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image/color"
	"io"

	"github.com/klauspost/compress/zlib"
)

var (
	ErrArgs       = errors.New("qr: invalid arguments")
	ErrLargeImage = errors.New("qr: image too large")
)

// PNG returns a PNG image displaying the code, or nil if the code
// is invalid or the image would be over 64 gigapixels.
//
// PNG writes 1 bit per pixel: grey, or with a two colour palette if
// c.Palette is set.  It runs much faster than calling png.Encode on
// c.Image(), with smaller output at common scales.
func (c *Code) PNG() []byte {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	pix := c.Scale * (c.Size + c.Border*2)
	if pix > 32767*8 {
		return ErrLargeImage // limit is under 64 gigapixels
	}
	p := pngWriter{w: w}

	// Header
	p.write([]byte(pngHeader))

	// Header block
	pal, usePal := c.palette()
	binary.BigEndian.PutUint32(p.tmp[0:4], uint32(pix))
	binary.BigEndian.PutUint32(p.tmp[4:8], uint32(pix))
	p.tmp[8] = 1 // 1-bit
	if usePal {
		p.tmp[9] = 3 // palette
	} else {
		p.tmp[9] = 0 // gray
	}
	p.tmp[10] = 0 // deflate
	p.tmp[11] = 0 // adaptive filtering
	p.tmp[12] = 0 // no interlace
	p.writeChunk("IHDR", p.tmp[:13])

	// Palette and transparency
	if usePal {
		p.writeChunk("PLTE", []byte{
			pal[0].R, pal[0].G, pal[0].B,
			pal[1].R, pal[1].G, pal[1].B,
		})
		alpha := []byte{pal[0].A, pal[1].A}
		for a := 2; a > 0; a-- {
			if alpha[a-1] != 0xff {
				p.writeChunk("tRNS", alpha[:a])
				break
			}
		}
	}

	p.writeChunk("tEXt", comment)

	// Data.  In grey images 1 is white, with a palette it is the
	// foreground colour.
	var white byte
	if !usePal && !c.Reverse {
		white = 0xff
	}
	var idat bytes.Buffer
	z, err := zlib.NewWriterLevel(&idat, zlib.BestCompression)
	if err != nil {
		return err
	}
	if err := c.raster(white, func(row []byte) error {
		if _, err := z.Write([]byte{0}); err != nil { // no filter
			return err
		}
		_, err := z.Write(row)
		return err
	}); err != nil {
		return err
	}
	if err := z.Close(); err != nil {
		return err
	}
	for b := idat.Bytes(); len(b) != 0; {
		n := min(len(b), chunkSize)
		p.writeChunk("IDAT", b[:n])
		b = b[n:]
	}

	// End
	p.writeChunk("IEND", nil)
	return p.err
}

const (
	pngHeader = "\x89PNG\r\n\x1a\n"
	chunkSize = 0x8000 // IDAT chunks split after 32 KB
)

var comment = []byte("Software\x00QR-PNG https://github.com/unixdj/qrgrid")

// palette returns the background and foreground colours and whether
// the image needs a palette.  The default black on white needs none.
func (c *Code) palette() ([2]color.RGBA, bool) {
	var pal [2]color.RGBA
	if c.Palette == nil {
		return pal, false
	}
	for i, col := range c.Palette {
		r, g, b, a := col.RGBA()
		pal[i] = color.RGBA{byte(r >> 8), byte(g >> 8), byte(b >> 8), byte(a >> 8)}
	}
	if c.Reverse {
		pal[0], pal[1] = pal[1], pal[0]
	}
	return pal, true
}

// A pngWriter writes PNG chunks, remembering the first error.
type pngWriter struct {
	w   io.Writer
	err error
	tmp [16]byte
}

func (p *pngWriter) write(b []byte) {
	if p.err == nil {
		_, p.err = p.w.Write(b)
	}
}

func (p *pngWriter) writeChunk(name string, data []byte) {
	binary.BigEndian.PutUint32(p.tmp[0:4], uint32(len(data)))
	copy(p.tmp[4:8], name)
	p.write(p.tmp[:8])
	p.write(data)
	crc := crc32.NewIEEE()
	crc.Write(p.tmp[4:8])
	crc.Write(data)
	binary.BigEndian.PutUint32(p.tmp[0:4], crc.Sum32())
	p.write(p.tmp[:4])
}
