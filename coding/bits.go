// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strings"

// Bits is an append-only bit vector.  Bits are stored most
// significant first; the unused low bits of the last byte are zero.
// The zero value is an empty vector ready to use.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with capacity for n bytes.
func NewBits(n int) *Bits {
	return &Bits{b: make([]byte, 0, n)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Size returns the number of bits in b.
func (b *Bits) Size() int { return b.nbit }

// SizeInBytes returns the number of bytes needed to hold b.
func (b *Bits) SizeInBytes() int { return (b.nbit + 7) >> 3 }

// Bytes returns the bytes of b.  b must be byte aligned.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// At returns bit i of b as 0 or 1.
func (b *Bits) At(i int) byte {
	return b.b[i>>3] >> (7 &^ i) & 1
}

// AppendBits appends the low n bits of v, most significant first.
// n must be between 0 and 32.
func (b *Bits) AppendBits(v uint32, n int) {
	if n < 0 || n > 32 {
		panic("qr: invalid bit count")
	}
	if n == 0 {
		return
	}
	v <<= 32 - n
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= n {
			b.nbit += n
			return
		}
		b.nbit += rem
		n -= rem
		v <<= rem
	}
	for k := n; k > 0; k -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += n
}

// AppendBit appends a single bit.
func (b *Bits) AppendBit(bit bool) {
	var v uint32
	if bit {
		v = 1
	}
	b.AppendBits(v, 1)
}

// Append appends the bits of o to b.
func (b *Bits) Append(o *Bits) {
	if b.nbit&7 == 0 {
		b.b = append(b.b, o.b...)
		b.nbit += o.nbit
		return
	}
	n := o.nbit
	for _, v := range o.b {
		k := min(n, 8)
		b.AppendBits(uint32(v>>(8-k)), k)
		n -= k
	}
}

// appendBytes appends whole bytes to b.
func (b *Bits) appendBytes(s string) {
	if b.nbit&7 == 0 {
		b.b = append(b.b, s...)
		b.nbit += len(s) * 8
		return
	}
	for i := 0; i < len(s); i++ {
		b.AppendBits(uint32(s[i]), 8)
	}
}

func (b *Bits) clone() *Bits {
	return &Bits{b: append([]byte(nil), b.b...), nbit: b.nbit}
}

// String returns b as a string of 'X' for 1 and '.' for 0, with a
// space before each byte but the first.
func (b *Bits) String() string {
	var s strings.Builder
	for i := 0; i < b.nbit; i++ {
		if i != 0 && i&7 == 0 {
			s.WriteByte(' ')
		}
		s.WriteByte(".X"[b.At(i)])
	}
	return s.String()
}
