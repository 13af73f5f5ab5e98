// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

// Penalty returns the mask penalty score of the code.  Encode does not
// use it: the mask is chosen by the caller, who may compare the scores
// of codes encoded with different masks.
//
// The score is the sum of penalties for runs and boxes of same-colour
// pixels, finder-like patterns and colour balance:
//
//   - runs of n >= 5 pixels in a row or column: n-2
//   - possibly overlapping 2x2 boxes: 3
//   - 1:1:3:1:1 patterns with 4 white pixels on either side, which may
//     extend into the quiet zone: 40
//   - for n% black pixels: 10*(ceiling(abs(n-50)/5)-1)
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
func (c *Code) Penalty() int {
	const (
		minRun    = 5  // minimum run length
		runDelta  = -2 // added to run length
		boxPoints = 3
		findPoint = 40
		balPoints = 10
	)
	siz := c.Size
	p := 0

	// pix returns the pixel at position i along line n, horizontal
	// or vertical.
	for _, pix := range []func(n, i int) bool{
		func(n, i int) bool { return c.Black(i, n) },
		func(n, i int) bool { return c.Black(n, i) },
	} {
		for n := 0; n < siz; n++ {
			r := 1
			for i := 1; i < siz; i++ {
				if pix(n, i) != pix(n, i-1) {
					if r >= minRun {
						p += r + runDelta
					}
					r = 0
				}
				r++
			}
			if r >= minRun {
				p += r + runDelta
			}
			// 11 pixel windows starting up to 4 pixels before
			// the line.
			var pat uint16
			for i := -4; i < siz+4; i++ {
				pat = pat<<1 & 0x7ff
				if pix(n, i) {
					pat |= 1
				}
				if i >= 6 && (pat == 0b0000_1011101 || pat == 0b1011101_0000) {
					p += findPoint
				}
			}
		}
	}

	black := 0
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			b := c.Black(x, y)
			if b {
				black++
			}
			if x > 0 && y > 0 && b == c.Black(x-1, y) &&
				b == c.Black(x, y-1) && b == c.Black(x-1, y-1) {
				p += boxPoints
			}
		}
	}

	// Round away from 50%: 45% and 55% score 0, 44% scores 10.
	total := siz * siz
	k := (abs(black*20-total*10)+total-1)/total - 1
	return p + k*balPoints
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
