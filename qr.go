// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode splits text into GBK, byte, numeric and alphanumeric segments
and encodes them in the smallest version that fits at the given error
correction level.  EncodeVersion encodes in a fixed version, merging
short segments where that saves space.  EncodeText encodes text as a
single segment.

The resulting Code holds the module bitmap and can be rendered as an
image, PNG, BMP, TIFF, PBM or text.
*/
package qr // import "github.com/unixdj/gbqr"

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/unixdj/gbqr/coding"
	"github.com/unixdj/gbqr/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level = coding.Level

const (
	L = coding.L // 7% of codewords can be restored
	M = coding.M // 15%
	Q = coding.Q // 25%
	H = coding.H // 30%
)

// Errors returned by the package.  Use errors.Is to match them.
var (
	ErrVersion     = coding.ErrVersion     // version not 0 to 40
	ErrLevel       = coding.ErrLevel       // level not L, M, Q or H
	ErrCapacity    = coding.ErrCapacity    // data too large
	ErrCharacter   = coding.ErrCharacter   // character invalid for mode
	ErrInternal    = coding.ErrInternal    // internal size mismatch
	ErrInvalidCode = coding.ErrInvalidCode // final code inconsistent
	ErrECParams    = coding.ErrECParams    // bad Reed-Solomon parameters

	ErrArgs       = errors.New("qr: invalid arguments")
	ErrLargeImage = errors.New("qr: image too large")
)

// Encode returns an encoding of text at the given error correction
// level in the smallest version that fits.
func Encode(text string, level Level) (*Code, error) {
	return EncodeVersion(text, level, 0)
}

// EncodeVersion returns an encoding of text at the given error
// correction level and version.  If version is 0, the smallest
// version that fits is chosen; otherwise it must be 1 to 40.
func EncodeVersion(text string, level Level, version coding.Version) (*Code, error) {
	if version != 0 && !version.IsValid() {
		return nil, ErrVersion
	}
	segs := split.Segment(text)
	if version != 0 {
		segs = split.Merge(segs, version)
	}
	return encode(segs, level, version)
}

// encode encodes segs.  If version is 0, it starts with the smallest
// version with room for the packed data and a segment header and
// moves up a version while the segments with all their headers do not
// fit.
func encode(segs []coding.Segment, level Level, version coding.Version) (*Code, error) {
	var data coding.Bits
	for _, seg := range segs {
		if err := coding.AppendBytes(&data, seg); err != nil {
			return nil, err
		}
	}
	n := data.SizeInBytes()

	var p *coding.Plan
	var err error
	if version == 0 {
		p, err = coding.PlanFor(n, level)
	} else if p, err = coding.NewPlan(version, level); err == nil &&
		!p.Fits(n) {
		err = fmt.Errorf("%w: %d bytes in version %s", ErrCapacity,
			n, p)
	}
	if err != nil {
		return nil, err
	}

	log := Logger()
	for {
		cc, err := coding.Encode(p, segs...)
		if err == nil {
			if log.Enabled(context.Background(), slog.LevelDebug) {
				log.Debug("qr: encoded", "version", int(p.Version),
					"level", p.Level.String(), "mask", cc.Mask,
					"penalty", cc.Penalty, "segments", len(segs),
					"bytes", n)
			}
			return newCode(cc, segs), nil
		}
		if version != 0 || !errors.Is(err, ErrCapacity) ||
			p.Version >= coding.MaxVersion {
			return nil, err
		}
		log.Debug("qr: version too small", "version", int(p.Version),
			"err", err)
		if p, err = coding.NewPlan(p.Version+1, level); err != nil {
			return nil, err
		}
	}
}

// A Code is a square grid of modules, with accounting information
// and rendering options.
type Code struct {
	Version coding.Version // QR version
	Level   Level          // error correction level
	Mode    coding.Mode    // segment mode, or Byte for mixed modes
	Mask    int            // mask pattern

	TotalBytes int // total codewords
	DataBytes  int // data codewords
	ECBytes    int // error correction codewords
	Blocks     int // Reed-Solomon blocks

	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of modules on a side
	Stride int    // number of bytes per row

	Scale   int             // number of image pixels per module
	Border  int             // quiet zone width in modules
	Reverse bool            // swap colours
	Palette *[2]color.Color // background and foreground, or nil
}

// Default rendering options.
const (
	DefaultScale  = 8
	DefaultBorder = 4
)

// newCode returns a Code for cc with default rendering options.
func newCode(cc *coding.Code, segs []coding.Segment) *Code {
	mode := coding.Byte
	if len(segs) == 1 {
		mode = segs[0].Mode
	}
	siz := cc.Size
	stride := (siz + 7) >> 3
	bitmap := make([]byte, siz*stride)
	for y := 0; y < siz; y++ {
		row := bitmap[y*stride:]
		for x := 0; x < siz; x++ {
			if cc.Matrix.Black(x, y) {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return &Code{
		Version:    cc.Version,
		Level:      cc.Level,
		Mode:       mode,
		Mask:       cc.Mask,
		TotalBytes: cc.TotalBytes,
		DataBytes:  cc.DataBytes,
		ECBytes:    cc.ECBytes,
		Blocks:     cc.Blocks,
		Bitmap:     bitmap,
		Size:       siz,
		Stride:     stride,
		Scale:      DefaultScale,
		Border:     DefaultBorder,
	}
}

// Black reports whether the module at (x, y) is black.
// Modules outside the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// Matrix returns the modules of c as rows of 0 for white and 1 for
// black.
func (c *Code) Matrix() [][]byte {
	m := make([][]byte, c.Size)
	cells := make([]byte, c.Size*c.Size)
	for y := range m {
		m[y], cells = cells[:c.Size], cells[c.Size:]
		for x := range m[y] {
			if c.Black(x, y) {
				m[y][x] = 1
			}
		}
	}
	return m
}

// isValid reports whether c can be rendered.
func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Stride == (c.Size+7)>>3 &&
		len(c.Bitmap) == c.Size*c.Stride && c.Scale > 0 &&
		c.Border >= 0
}
