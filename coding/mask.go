// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// NumMasks is the number of QR mask patterns.
const NumMasks = 8

// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
//
// MaskBit reports whether mask inverts the module at column x, row y.
func MaskBit(mask, x, y int) bool {
	switch mask {
	case 0:
		return (x+y)&1 == 0
	case 1:
		return y&1 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (y/2+x/3)&1 == 0
	case 5:
		xy := x * y
		return xy&1+xy%3 == 0
	case 6:
		xy := x * y
		return (xy&1+xy%3)&1 == 0
	case 7:
		xy := x * y
		return (xy%3+(x+y)&1)&1 == 0
	}
	return false
}

// Penalty returns the penalty value of a complete matrix, used for
// choosing the mask.
//
// The total penalty is the sum of penalties for runs and boxes of
// same-colour modules, finder-like patterns and colour balance.
//
//   - Rule 1: for each run of n modules in a row or column,
//     n>=5 -> 3+(n-5)
//   - Rule 2: for each possibly overlapping 2x2 box -> 3
//   - Rule 3: for each 1011101 pattern with 4 light modules
//     on either side, clipped at the edge -> 40
//   - Rule 4: 10 for every full 5% the dark ratio deviates from 50%
func Penalty(m *Matrix) int {
	return penaltyRule1(m) + penaltyRule2(m) + penaltyRule3(m) +
		penaltyRule4(m)
}

const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

func penaltyRule1(m *Matrix) int {
	return runPenalty(m, true) + runPenalty(m, false)
}

func runPenalty(m *Matrix, horizontal bool) int {
	p := 0
	siz := m.size
	for i := 0; i < siz; i++ {
		run := 0
		prev := int8(-1)
		for j := 0; j < siz; j++ {
			var bit int8
			if horizontal {
				bit = m.At(j, i)
			} else {
				bit = m.At(i, j)
			}
			if bit == prev {
				run++
				continue
			}
			if run >= 5 {
				p += penaltyN1 + run - 5
			}
			run = 1
			prev = bit
		}
		if run >= 5 {
			p += penaltyN1 + run - 5
		}
	}
	return p
}

func penaltyRule2(m *Matrix) int {
	p := 0
	siz := m.size
	for y := 0; y < siz-1; y++ {
		for x := 0; x < siz-1; x++ {
			v := m.At(x, y)
			if v == m.At(x+1, y) && v == m.At(x, y+1) &&
				v == m.At(x+1, y+1) {
				p++
			}
		}
	}
	return p * penaltyN2
}

// finderLike is the 1011101 pattern penalised by rule 3.
var finderLike = [7]int8{1, 0, 1, 1, 1, 0, 1}

func penaltyRule3(m *Matrix) int {
	n := 0
	siz := m.size
	at := func(horizontal bool, i, j int) int8 {
		if horizontal {
			return m.At(j, i)
		}
		return m.At(i, j)
	}
	// light reports whether modules from..to-1 of line i are light.
	light := func(horizontal bool, i, from, to int) bool {
		from, to = max(from, 0), min(to, siz)
		for j := from; j < to; j++ {
			if at(horizontal, i, j) == 1 {
				return false
			}
		}
		return true
	}
	for _, horizontal := range [2]bool{true, false} {
		for i := 0; i < siz; i++ {
			for j := 0; j+6 < siz; j++ {
				match := true
				for k, v := range finderLike {
					if at(horizontal, i, j+k) != v {
						match = false
						break
					}
				}
				if match && (light(horizontal, i, j-4, j) ||
					light(horizontal, i, j+7, j+11)) {
					n++
				}
			}
		}
	}
	return n * penaltyN3
}

func penaltyRule4(m *Matrix) int {
	dark := 0
	for _, v := range m.cell {
		if v == 1 {
			dark++
		}
	}
	total := len(m.cell)
	diff := dark*2 - total
	if diff < 0 {
		diff = -diff
	}
	return diff * 10 / total * penaltyN4
}

// chooseMask builds the matrix under every mask and returns the mask
// with the lowest penalty, the penalty and the matrix.
func chooseMask(b *Bits, l Level, v Version) (int, int, *Matrix, error) {
	p, err := NewPlan(v, l)
	if err != nil {
		return -1, 0, nil, err
	}
	m := NewMatrix(p.Size)
	best := NewMatrix(p.Size) // best matrix so far
	mask := -1
	pen := 1 << 30
	for i := 0; i < NumMasks; i++ {
		if err := BuildMatrix(b, l, v, i, m); err != nil {
			return -1, 0, nil, err
		}
		if p := Penalty(m); p < pen {
			best, pen, m = m, p, best
			mask = i
		}
	}
	return mask, pen, best, nil
}

// ChooseMaskPattern returns the mask with the lowest penalty for the
// interleaved bits at level l and version v, and the matrix built
// with it.  Of masks with equal penalties the first wins.
func ChooseMaskPattern(b *Bits, l Level, v Version) (int, *Matrix, error) {
	mask, _, m, err := chooseMask(b, l, v)
	return mask, m, err
}
