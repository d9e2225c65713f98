// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// maxPixels limits the side of rendered images.
const maxPixels = 32767 * 8

// palette returns the background and foreground colours.
func (c *Code) palette() color.Palette {
	pal := color.Palette{color.Gray{0xff}, color.Gray{0x00}}
	if c.Palette != nil {
		pal = color.Palette{c.Palette[0], c.Palette[1]}
	}
	if c.Reverse {
		pal[0], pal[1] = pal[1], pal[0]
	}
	return pal
}

// pixels returns the number of image pixels on a side.
func (c *Code) pixels() int { return (c.Size + 2*c.Border) * c.Scale }

// Image returns a paletted image displaying the code with c.Border
// modules of quiet zone, at c.Scale pixels per module.  Image returns
// nil if c is invalid or the image would be too large.
func (c *Code) Image() image.Image {
	img := c.paletted()
	if img == nil {
		return nil
	}
	return img
}

func (c *Code) paletted() *image.Paletted {
	if !c.isValid() || c.pixels() > maxPixels {
		return nil
	}
	pix := c.pixels()
	img := image.NewPaletted(image.Rect(0, 0, pix, pix), c.palette())
	scale, off := c.Scale, c.Border*c.Scale
	for y := 0; y < c.Size; y++ {
		// Draw one pixel row per module row, then copy it.
		start := img.PixOffset(0, off+y*scale)
		row := img.Pix[start : start+pix]
		for x := 0; x < c.Size; x++ {
			if c.Black(x, y) {
				px := row[off+x*scale : off+(x+1)*scale]
				for i := range px {
					px[i] = 1
				}
			}
		}
		for i := 1; i < scale; i++ {
			copy(img.Pix[start+i*img.Stride:], row)
		}
	}
	return img
}

// image returns the image for encoders, or an error.
func (c *Code) image() (image.Image, error) {
	if !c.isValid() {
		return nil, ErrArgs
	}
	img := c.paletted()
	if img == nil {
		return nil, ErrLargeImage
	}
	return img, nil
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	img, err := c.image()
	if err != nil {
		return err
	}
	e := png.Encoder{CompressionLevel: png.BestCompression}
	return e.Encode(w, img)
}

// PNG returns a PNG image displaying the code, or nil on failure.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := c.EncodePNG(&b); err != nil {
		return nil
	}
	return b.Bytes()
}

// EncodeBMP writes a BMP image displaying the code to w.
func (c *Code) EncodeBMP(w io.Writer) error {
	img, err := c.image()
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}

// EncodeTIFF writes a Deflate compressed TIFF image displaying the
// code to w.
func (c *Code) EncodeTIFF(w io.Writer) error {
	img, err := c.image()
	if err != nil {
		return err
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// String returns the code with its quiet zone drawn in UTF-8 half
// blocks, two module rows per line.  White modules are drawn as ink,
// for terminals with a dark background, unless c.Reverse is set.
func (c *Code) String() string {
	if !c.isValid() {
		return ""
	}
	blocks := [4]string{"█", "▀", "▄", " "}
	if c.Reverse {
		blocks = [4]string{" ", "▄", "▀", "█"}
	}
	bord := c.Border
	var b strings.Builder
	b.Grow((c.Size + 2*bord) * ((c.Size+1)/2 + bord) * 3)
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			n := 0
			if c.Black(x, y) {
				n = 2
			}
			if y+1 < c.Size+bord && c.Black(x, y+1) {
				n++
			}
			b.WriteString(blocks[n])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
