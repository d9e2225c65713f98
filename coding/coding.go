// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding // import "github.com/unixdj/gbqr/coding"

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"rsc.io/qr/gf256"
)

// Error kinds.  Errors returned by this package match one of these
// with errors.Is.
var (
	ErrLevel       = errors.New("qr: invalid level")
	ErrVersion     = errors.New("qr: version must be 1 to 40")
	ErrCapacity    = errors.New("qr: data too large")
	ErrCharacter   = errors.New("qr: invalid character for mode")
	ErrInternal    = errors.New("qr: internal size mismatch")
	ErrInvalidCode = errors.New("qr: invalid code")
	ErrECParams    = errors.New("qr: invalid error correction parameters")
)

// Capacity and consistency failures.
var (
	ErrDataTooMany          = fmt.Errorf("%w: more data bits than capacity", ErrCapacity)
	ErrCount                = fmt.Errorf("%w: character count overflows length field", ErrCapacity)
	ErrBitsNotEqualCapacity = fmt.Errorf("%w: padded bits not equal to capacity", ErrInternal)
	ErrBitsBytesNotMatch    = fmt.Errorf("%w: data bytes do not match", ErrInternal)
	ErrSizeInBytesDiffer    = fmt.Errorf("%w: interleaved size differs", ErrInternal)
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// The larger the version, the more information the code can store.
type Version int

// Version bounds.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is in the range 1 to 40.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// Dimension returns the number of modules on a side.
func (v Version) Dimension() int { return int(v)*4 + 17 }

// QR version size classes.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords can be restored
	M              // 15%
	Q              // 25%
	H              // 30%
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// formatBits returns the two error correction level bits
// of the format information.
func (l Level) formatBits() uint32 {
	return [4]uint32{1, 0, 3, 2}[l]
}

// A Plan describes the capacity and layout of a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	Size       int // number of modules on a side
	TotalBytes int // total codewords
	DataBytes  int // data codewords
	ECBytes    int // error correction codewords
	Blocks     int // number of RS blocks

	template *Matrix // function patterns and version information
}

// Fits reports whether numInputBytes of packed data leave room for
// the segment header in the plan.
func (p *Plan) Fits(numInputBytes int) bool {
	return p.DataBytes >= numInputBytes+3
}

func (p *Plan) String() string {
	return p.Version.String() + "-" + p.Level.String()
}

// Pre-allocated Plans.  A Plan is created the first time a
// combination of version and level is used, along with its template
// matrix of v*v bytes.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns the Plan for a QR code with the given version and
// level.  Plans are shared and must not be modified.
func NewPlan(version Version, level Level) (*Plan, error) {
	if !version.IsValid() {
		return nil, ErrVersion
	}
	if level < L || level > H {
		return nil, ErrLevel
	}
	p := &plans[version][level]
	p.once.Do(func() { p.p = vplan(version, level) })
	return p.p, nil
}

// PlanFor returns the Plan of the lowest version at the given level
// that fits numInputBytes.
func PlanFor(numInputBytes int, level Level) (*Plan, error) {
	for v := MinVersion; v <= MaxVersion; v++ {
		p, err := NewPlan(v, level)
		if err != nil {
			return nil, err
		}
		if p.Fits(numInputBytes) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %d bytes at level %s", ErrCapacity,
		numInputBytes, level)
}

// vplan creates a Plan for the given version and level.
func vplan(v Version, l Level) *Plan {
	vt := &vtab[v]
	lev := vt.level[l]
	p := &Plan{
		Version:    v,
		Level:      l,
		Size:       v.Dimension(),
		TotalBytes: vt.bytes,
		ECBytes:    lev.nblock * lev.check,
		Blocks:     lev.nblock,
	}
	p.DataBytes = p.TotalBytes - p.ECBytes
	m := NewMatrix(p.Size)
	embedBasicPatterns(v, m)
	embedVersionInfo(v, m)
	p.template = m
	return p
}

// alignPositions returns the centre coordinates of alignment boxes
// for version v, or nil for version 1.
func alignPositions(v Version) []int {
	vt := &vtab[v]
	if vt.apos == 0 {
		return nil
	}
	pos := []int{6, vt.apos}
	if vt.apos2 != 0 {
		last := v.Dimension() - 7
		for x := vt.apos2; x <= last; x += vt.apos2 - vt.apos {
			pos = append(pos, x)
		}
	}
	return pos
}
