// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"fmt"
	"log"

	"github.com/unixdj/qrgrid"
)

func ExampleEncode() {
	c, err := qr.Encode("HELLO WORLD", qr.M, 2)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Println(c.Version, c.Size, c.Level, c.Mode, c.Mask)
	// Output:
	// 1 21 Q alphanumeric 2
}

func ExampleEncode_invalidMask() {
	c, err := qr.Encode("01234567", qr.L, 9)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Println(c.Mode, c.Level, c.Mask)
	// Output:
	// numeric H 0
}
