// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strings"
)

// A Matrix is a square grid of modules.  Each module is unset (-1),
// light (0) or dark (1).
type Matrix struct {
	size int
	cell []int8
}

// NewMatrix returns a Matrix with size modules on a side,
// all unset.
func NewMatrix(size int) *Matrix {
	m := &Matrix{size: size, cell: make([]int8, size*size)}
	m.Clear()
	return m
}

// Size returns the number of modules on a side.
func (m *Matrix) Size() int { return m.size }

// At returns the module at (x, y): -1, 0 or 1.
func (m *Matrix) At(x, y int) int8 { return m.cell[y*m.size+x] }

// Black reports whether the module at (x, y) is dark.
// Modules outside the matrix are light.
func (m *Matrix) Black(x, y int) bool {
	return 0 <= x && x < m.size && 0 <= y && y < m.size &&
		m.cell[y*m.size+x] == 1
}

// Set sets the module at (x, y).
func (m *Matrix) Set(x, y int, dark bool) {
	var v int8
	if dark {
		v = 1
	}
	m.cell[y*m.size+x] = v
}

func (m *Matrix) set(x, y int, v byte) { m.cell[y*m.size+x] = int8(v) }

func (m *Matrix) empty(x, y int) bool { return m.cell[y*m.size+x] < 0 }

// Clear unsets all modules.
func (m *Matrix) Clear() {
	for i := range m.cell {
		m.cell[i] = -1
	}
}

// complete reports whether every module is set.
func (m *Matrix) complete() bool {
	for _, v := range m.cell {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

// String returns the matrix as rows of " 1", " 0" and "  " for
// dark, light and unset modules.
func (m *Matrix) String() string {
	var b strings.Builder
	b.Grow(m.size * (m.size*2 + 1))
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			b.WriteString([3]string{"  ", " 0", " 1"}[m.At(x, y)+1])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var finder = [7]byte{0x7f, 0x41, 0x5d, 0x5d, 0x5d, 0x41, 0x7f}

var alignBox = [5]byte{0x1f, 0x11, 0x15, 0x11, 0x1f}

// embedFinder draws a 7x7 position detection box at upper left x, y.
func embedFinder(x, y int, m *Matrix) {
	for dy, row := range finder {
		for dx := 0; dx < 7; dx++ {
			m.set(x+dx, y+dy, row>>(6-dx)&1)
		}
	}
}

// embedBasicPatterns draws position detection boxes with separators,
// the dark module, alignment boxes and timing patterns.
func embedBasicPatterns(v Version, m *Matrix) {
	siz := m.size

	// Position boxes.
	embedFinder(0, 0, m)
	embedFinder(siz-7, 0, m)
	embedFinder(0, siz-7, m)

	// Separators: 8 modules horizontally, 7 vertically.
	for i := 0; i < 8; i++ {
		m.set(i, 7, 0)
		m.set(siz-8+i, 7, 0)
		m.set(i, siz-8, 0)
	}
	for i := 0; i < 7; i++ {
		m.set(7, i, 0)
		m.set(siz-8, i, 0)
		m.set(7, siz-7+i, 0)
	}

	// One lonely black pixel.
	m.set(8, siz-8, 1)

	// Alignment boxes, except where they overlap position boxes.
	pos := alignPositions(v)
	for _, y := range pos {
		for _, x := range pos {
			if !m.empty(x, y) {
				continue
			}
			for dy, row := range alignBox {
				for dx := 0; dx < 5; dx++ {
					m.set(x-2+dx, y-2+dy, row>>(4-dx)&1)
				}
			}
		}
	}

	// Timing patterns.
	for i := 8; i < siz-8; i++ {
		bit := byte(i+1) & 1
		if m.empty(i, 6) {
			m.set(i, 6, bit)
		}
		if m.empty(6, i) {
			m.set(6, i, bit)
		}
	}
}

// msb returns the number of significant bits in v.
func msb(v uint32) int {
	n := 0
	for ; v != 0; v >>= 1 {
		n++
	}
	return n
}

// bch returns the BCH check bits of v for the generator poly.
func bch(v, poly uint32) uint32 {
	np := msb(poly)
	v <<= np - 1
	for msb(v) >= np {
		v ^= poly << (msb(v) - np)
	}
	return v
}

// Format and version information generators.
const (
	formatPoly  = 0x537
	formatMask  = 0x5412
	versionPoly = 0x1f25
)

// FormatInfo returns the 15 bit format information for level l and
// mask.
func FormatInfo(l Level, mask int) uint32 {
	v := l.formatBits()<<3 | uint32(mask)
	return (v<<10 | bch(v, formatPoly)) ^ formatMask
}

// VersionInfo returns the 18 bit version information for v.
// It is only present in versions 7 and above.
func VersionInfo(v Version) uint32 {
	return uint32(v)<<12 | bch(uint32(v), versionPoly)
}

// Format information positions, bit 0 first, around the top left
// position box.
var formatCoords = [15][2]int{
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
	{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
}

// embedTypeInfo draws both copies of the format information.
func embedTypeInfo(l Level, mask int, m *Matrix) {
	fi := FormatInfo(l, mask)
	siz := m.size
	for i, c := range formatCoords {
		bit := byte(fi >> i & 1)
		m.set(c[0], c[1], bit)
		if i < 8 {
			m.set(siz-1-i, 8, bit)
		} else {
			m.set(8, siz-7+(i-8), bit)
		}
	}
}

// embedVersionInfo draws both copies of the version information
// in versions 7 and above.
func embedVersionInfo(v Version, m *Matrix) {
	if v < 7 {
		return
	}
	vi := VersionInfo(v)
	siz := m.size
	for i := 0; i < 6; i++ {
		for j := 0; j < 3; j++ {
			bit := byte(vi & 1)
			vi >>= 1
			m.set(i, siz-11+j, bit)
			m.set(siz-11+j, i, bit)
		}
	}
}

// embedData places bits into the unset modules in zigzag scan order,
// applying mask.  Modules left over after the last bit are light
// before masking.
func embedData(b *Bits, mask int, m *Matrix) error {
	siz := m.size
	n := 0
	dir := -1
	y := siz - 1
	for x := siz - 1; x > 0; x -= 2 {
		if x == 6 { // vertical timing strip
			x--
		}
		for ; 0 <= y && y < siz; y += dir {
			for i := 0; i < 2; i++ {
				xx := x - i
				if !m.empty(xx, y) {
					continue
				}
				var bit byte
				if n < b.Size() {
					bit = b.At(n)
					n++
				}
				if MaskBit(mask, xx, y) {
					bit ^= 1
				}
				m.set(xx, y, bit)
			}
		}
		dir = -dir
		y += dir
	}
	if n != b.Size() {
		return fmt.Errorf("%w: placed %d of %d bits", ErrInternal,
			n, b.Size())
	}
	return nil
}

// BuildMatrix lays out the function patterns, format and version
// information and the interleaved data and error correction bits
// under mask into m.
func BuildMatrix(b *Bits, l Level, v Version, mask int, m *Matrix) error {
	p, err := NewPlan(v, l)
	if err != nil {
		return err
	}
	if mask < 0 || mask >= NumMasks {
		return fmt.Errorf("%w: mask %d", ErrInternal, mask)
	}
	if m.size != p.Size {
		return fmt.Errorf("%w: matrix size %d for version %s",
			ErrInternal, m.size, v)
	}
	copy(m.cell, p.template.cell)
	embedTypeInfo(l, mask, m)
	return embedData(b, mask, m)
}
