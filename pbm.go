// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"encoding/binary"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	pix := c.pixels()
	if pix > maxPixels {
		return ErrLargeImage
	}
	b := bufio.NewWriter(w)
	ls := strconv.Itoa(pix)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	// In PBM 1 is black.
	var white byte
	if c.Reverse {
		white = 0xff
	}
	row := make([]byte, (pix+7)/8)
	quiet := func() error {
		for i := range row {
			row[i] = white
		}
		for i := 0; i < c.Scale*c.Border; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := quiet(); err != nil {
		return err
	}
	for y := 0; y < c.Size; y++ {
		if c.Scale == 8 {
			// Modules are whole bytes.
			pbmRow8(row[c.Border:], c.Bitmap[y*c.Stride:(y+1)*c.Stride],
				c.Size, white)
		} else {
			c.pbmRow(row, y, white)
		}
		for i := 0; i < c.Scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	if err := quiet(); err != nil {
		return err
	}
	return b.Flush()
}

// pbmRow8 encodes a row of siz modules in PBM format at scale 8.
func pbmRow8(row, srow []byte, siz int, white byte) {
	var tmp [8]byte
	for i := 0; i < siz; i += 8 {
		v := srow[i>>3] ^ white
		var b uint64
		for j := 0; j < 8; j++ {
			b = b<<8 | uint64(-(v >> (7 - j) & 1))
		}
		binary.BigEndian.PutUint64(tmp[:], b)
		copy(row[i:min(i+8, siz)], tmp[:])
	}
}

// pbmRow encodes module row y in PBM format.
func (c *Code) pbmRow(row []byte, y int, white byte) {
	for i := range row {
		row[i] = white
	}
	off := c.Border * c.Scale
	for x := 0; x < c.Size; x++ {
		if !c.Black(x, y) {
			continue
		}
		for p := off + x*c.Scale; p < off+(x+1)*c.Scale; p++ {
			row[p>>3] ^= 0x80 >> (p & 7)
		}
	}
}
