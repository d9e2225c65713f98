// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// A Code is an encoded QR symbol.
type Code struct {
	*Plan           // version, level and capacity
	Mask    int     // mask pattern, 0 to 7
	Penalty int     // penalty of the chosen mask
	Matrix  *Matrix // final module matrix
}

// isValid reports whether c is complete and self-consistent.
func (c *Code) isValid() bool {
	return c.Plan != nil && c.Version.IsValid() &&
		L <= c.Level && c.Level <= H &&
		0 <= c.Mask && c.Mask < NumMasks &&
		c.Matrix != nil && c.Matrix.size == c.Version.Dimension() &&
		c.Matrix.size == c.Size && c.Matrix.complete()
}

// Encoder encodes a QR code.
type Encoder struct {
	p *Plan
	b *Bits
}

// NewEncoder returns an Encoder for the given Plan.
func NewEncoder(p *Plan) *Encoder {
	return &Encoder{p: p, b: NewBits(p.TotalBytes)}
}

// Plan returns the Plan of e.
func (e *Encoder) Plan() *Plan { return e.p }

func (e *Encoder) Reset() { e.b.Reset() }

// Bits returns the number of bits written to e.
func (e *Encoder) Bits() int { return e.b.Size() }

// Write adds the header and data of each segment to e.
func (e *Encoder) Write(segs ...Segment) error {
	for _, seg := range segs {
		if err := AppendSegment(e.b, seg, e.p.Version); err != nil {
			return err
		}
	}
	return nil
}

// Code returns a QR code containing data written to e.
// e is not modified and may be written to further.
func (e *Encoder) Code() (*Code, error) {
	p := e.p
	b := e.b.clone()
	if err := TerminateBits(p.DataBytes, b); err != nil {
		return nil, err
	}
	final, err := InterleaveWithECBytes(b, p.TotalBytes, p.DataBytes,
		p.Blocks)
	if err != nil {
		return nil, err
	}
	mask, pen, m, err := chooseMask(final, p.Level, p.Version)
	if err != nil {
		return nil, err
	}
	c := &Code{Plan: p, Mask: mask, Penalty: pen, Matrix: m}
	if !c.isValid() {
		return nil, fmt.Errorf("%w: version %s mask %d", ErrInvalidCode,
			p.Version, mask)
	}
	return c, nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(segs ...Segment) (*Code, error) {
	if err := e.Write(segs...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes segs using an Encoder with the given Plan.
func Encode(p *Plan, segs ...Segment) (*Code, error) {
	return NewEncoder(p).Encode(segs...)
}
