// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInfo(t *testing.T) {
	for _, tc := range []struct {
		l    Level
		mask int
		want uint32
	}{
		{L, 0, 0x77c4},
		{L, 7, 0x6976},
		{M, 0, 0x5412},
		{M, 7, 0x4aa0},
		{Q, 0, 0x355f},
		{Q, 7, 0x2bed},
		{H, 0, 0x1689},
		{H, 7, 0x083b},
	} {
		assert.Equal(t, tc.want, FormatInfo(tc.l, tc.mask),
			"%s mask %d", tc.l, tc.mask)
	}
}

func TestVersionInfo(t *testing.T) {
	assert.Equal(t, uint32(0x07c94), VersionInfo(7))
	assert.Equal(t, uint32(0x085bc), VersionInfo(8))
	assert.Equal(t, uint32(0x28c69), VersionInfo(40))
}

func TestBCH(t *testing.T) {
	assert.Equal(t, 0, msb(0))
	assert.Equal(t, 11, msb(0x537))
	assert.Equal(t, uint32(0), bch(0, formatPoly))
	// Appending the check bits yields a multiple of the generator.
	for v := uint32(0); v < 32; v++ {
		assert.Equal(t, uint32(0), bch(v<<10|bch(v, formatPoly),
			formatPoly), "%d", v)
	}
}

// Unset modules left in a template after the codewords are placed,
// by version.
var remainderBits = [MaxVersion + 1]int{
	0, 0, 7, 7, 7, 7, 7, 0, 0, 0, 0, 0, 0, 0, 3, 3, 3, 3, 3, 3, 3,
	4, 4, 4, 4, 4, 4, 4, 3, 3, 3, 3, 3, 3, 3, 0, 0, 0, 0, 0, 0,
}

func TestTemplateCapacity(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		p, err := NewPlan(v, M)
		require.NoError(t, err)
		n := 0
		for _, c := range p.template.cell {
			if c < 0 {
				n++
			}
		}
		// 30 modules are left for the format information.
		assert.Equal(t, p.TotalBytes*8+remainderBits[v], n-30,
			"version %d", v)
	}
}

// randomBits returns n random bytes.
func randomBits(r *rand.Rand, n int) *Bits {
	b := NewBits(n)
	for i := 0; i < n; i++ {
		b.AppendBits(uint32(r.Intn(256)), 8)
	}
	return b
}

// checkFinder verifies a position box at upper left x, y.
func checkFinder(t *testing.T, m *Matrix, x, y int) {
	t.Helper()
	for dy, row := range finder {
		for dx := 0; dx < 7; dx++ {
			assert.Equal(t, int8(row>>(6-dx)&1), m.At(x+dx, y+dy),
				"finder %d,%d at %d,%d", x, y, dx, dy)
		}
	}
}

func TestBuildMatrix(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, tc := range []struct {
		v    Version
		l    Level
		mask int
	}{
		{1, L, 0}, {2, M, 5}, {7, Q, 3}, {14, H, 6}, {40, L, 7},
	} {
		p, err := NewPlan(tc.v, tc.l)
		require.NoError(t, err)
		siz := p.Size
		m := NewMatrix(siz)
		require.NoError(t, BuildMatrix(randomBits(r, p.TotalBytes),
			tc.l, tc.v, tc.mask, m))
		require.True(t, m.complete(), "%s", p)

		checkFinder(t, m, 0, 0)
		checkFinder(t, m, siz-7, 0)
		checkFinder(t, m, 0, siz-7)
		for i := 0; i < 8; i++ {
			assert.False(t, m.Black(i, 7))
			assert.False(t, m.Black(7, i))
			assert.False(t, m.Black(siz-1-i, 7))
			assert.False(t, m.Black(i, siz-8))
		}
		for i := 8; i < siz-8; i++ {
			assert.Equal(t, i&1 == 0, m.Black(i, 6), "timing %d", i)
			assert.Equal(t, i&1 == 0, m.Black(6, i), "timing %d", i)
		}
		assert.True(t, m.Black(8, siz-8), "dark module")

		fi := FormatInfo(tc.l, tc.mask)
		for i, c := range formatCoords {
			bit := fi>>i&1 != 0
			assert.Equal(t, bit, m.Black(c[0], c[1]), "format bit %d", i)
			if i < 8 {
				assert.Equal(t, bit, m.Black(siz-1-i, 8))
			} else {
				assert.Equal(t, bit, m.Black(8, siz-15+i))
			}
		}

		if tc.v >= 7 {
			vi := VersionInfo(tc.v)
			for i := 0; i < 18; i++ {
				bit := vi>>i&1 != 0
				x, y := i/3, siz-11+i%3
				assert.Equal(t, bit, m.Black(x, y), "version bit %d", i)
				assert.Equal(t, bit, m.Black(y, x), "version bit %d", i)
			}
		}

		pos := alignPositions(tc.v)
		if len(pos) != 0 {
			c := pos[len(pos)-1]
			assert.True(t, m.Black(c, c))
			assert.False(t, m.Black(c-1, c))
			assert.True(t, m.Black(c-2, c-2))
		}
	}
}

func TestBuildMatrixUnmask(t *testing.T) {
	// Unmasking the first data module, bottom right, yields the
	// first data bit.
	p, _ := NewPlan(1, M)
	for mask := 0; mask < NumMasks; mask++ {
		for _, first := range []uint32{0x00, 0x80} {
			b := NewBits(p.TotalBytes)
			b.AppendBits(first, 8)
			for b.SizeInBytes() < p.TotalBytes {
				b.AppendBits(0, 8)
			}
			m := NewMatrix(p.Size)
			require.NoError(t, BuildMatrix(b, M, 1, mask, m))
			x, y := p.Size-1, p.Size-1
			assert.Equal(t, first != 0, m.Black(x, y) != MaskBit(mask, x, y),
				"mask %d", mask)
		}
	}
}

func TestBuildMatrixErrors(t *testing.T) {
	p, _ := NewPlan(1, L)
	m := NewMatrix(p.Size)
	b := dataBits(p.TotalBytes)
	assert.ErrorIs(t, BuildMatrix(b, L, 0, 0, m), ErrVersion)
	assert.ErrorIs(t, BuildMatrix(b, Level(4), 1, 0, m), ErrLevel)
	assert.ErrorIs(t, BuildMatrix(b, L, 1, 8, m), ErrInternal)
	assert.ErrorIs(t, BuildMatrix(b, L, 2, 0, m), ErrInternal)
	assert.ErrorIs(t, BuildMatrix(dataBits(p.TotalBytes+1), L, 1, 0, m),
		ErrInternal)
	assert.NoError(t, BuildMatrix(b, L, 1, 0, m))
}

func TestMatrixString(t *testing.T) {
	m := NewMatrix(2)
	m.Set(0, 0, true)
	m.Set(1, 0, false)
	assert.Equal(t, " 1 0\n    \n", m.String())
	assert.Equal(t, int8(-1), m.At(0, 1))
	assert.False(t, m.Black(-1, 0))
	assert.False(t, m.Black(0, 2))
	m.Clear()
	assert.False(t, m.Black(0, 0))
}
