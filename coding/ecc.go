// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"sync"

	"rsc.io/qr/gf256"
)

// TerminateBits adds the terminator and padding to b, filling it to
// numDataBytes.
func TerminateBits(numDataBytes int, b *Bits) error {
	capacity := numDataBytes * 8
	if b.Size() > capacity {
		return fmt.Errorf("%w: %d > %d", ErrDataTooMany, b.Size(),
			capacity)
	}
	for i := 0; i < 4 && b.Size() < capacity; i++ {
		b.AppendBit(false)
	}
	if rem := b.Size() & 7; rem != 0 {
		b.AppendBits(0, 8-rem)
	}
	for i := 0; b.SizeInBytes() < numDataBytes; i++ {
		b.AppendBits(uint32([2]byte{0xec, 0x11}[i&1]), 8)
	}
	if b.Size() != capacity {
		return fmt.Errorf("%w: %d != %d", ErrBitsNotEqualCapacity,
			b.Size(), capacity)
	}
	return nil
}

// Reed-Solomon encoders by the number of check bytes, created on
// first use.
var rsEncoders [31]struct {
	once sync.Once
	rs   *gf256.RSEncoder
}

// ecCount reports whether n error correction bytes per block
// appear in the version table.
func ecCount(n int) bool {
	for v := MinVersion; v <= MaxVersion; v++ {
		for _, l := range vtab[v].level {
			if l.check == n {
				return true
			}
		}
	}
	return false
}

func rsEncoder(n int) *gf256.RSEncoder {
	e := &rsEncoders[n]
	e.once.Do(func() { e.rs = gf256.NewRSEncoder(Field, n) })
	return e.rs
}

// GenerateECBytes returns numEC Reed-Solomon error correction bytes
// for a block of data.
func GenerateECBytes(data []byte, numEC int) ([]byte, error) {
	if len(data) == 0 || numEC <= 0 || numEC >= len(rsEncoders) ||
		!ecCount(numEC) {
		return nil, fmt.Errorf("%w: %d data, %d check bytes",
			ErrECParams, len(data), numEC)
	}
	ec := make([]byte, numEC)
	rsEncoder(numEC).ECC(data, ec)
	return ec, nil
}

// BlockSizes returns the number of data and error correction bytes
// in block id of a code with the given totals.  The last
// numTotalBytes%numRSBlocks blocks (group 2) hold one data byte more
// than the others (group 1).
func BlockSizes(numTotalBytes, numDataBytes, numRSBlocks, id int) (data, ec int, err error) {
	if numRSBlocks <= 0 || id < 0 || id >= numRSBlocks {
		return 0, 0, fmt.Errorf("%w: block %d of %d", ErrInternal,
			id, numRSBlocks)
	}
	g2 := numTotalBytes % numRSBlocks
	g1 := numRSBlocks - g2
	total1 := numTotalBytes / numRSBlocks
	data1 := numDataBytes / numRSBlocks
	data2 := data1 + 1
	ec1 := total1 - data1
	ec2 := total1 + 1 - data2
	if ec1 != ec2 {
		return 0, 0, fmt.Errorf("%w: EC bytes differ between groups",
			ErrInternal)
	}
	if (data1+ec1)*g1+(data2+ec2)*g2 != numTotalBytes {
		return 0, 0, fmt.Errorf("%w: block sizes do not sum to %d",
			ErrInternal, numTotalBytes)
	}
	if id < g1 {
		return data1, ec1, nil
	}
	return data2, ec2, nil
}

// blockPair holds the data and error correction bytes of a block.
type blockPair struct {
	data, ec []byte
}

// InterleaveWithECBytes splits the data bytes in b into blocks,
// computes error correction bytes for each block and returns the
// data bytes of all blocks interleaved, followed by the error
// correction bytes interleaved in the same way.
func InterleaveWithECBytes(b *Bits, numTotalBytes, numDataBytes, numRSBlocks int) (*Bits, error) {
	if b.SizeInBytes() != numDataBytes {
		return nil, fmt.Errorf("%w: %d != %d", ErrBitsBytesNotMatch,
			b.SizeInBytes(), numDataBytes)
	}
	src := b.b
	blocks := make([]blockPair, numRSBlocks)
	off, maxData, maxEC := 0, 0, 0
	for i := range blocks {
		nd, nec, err := BlockSizes(numTotalBytes, numDataBytes,
			numRSBlocks, i)
		if err != nil {
			return nil, err
		}
		if off+nd > len(src) {
			break
		}
		data := src[off : off+nd]
		ec, err := GenerateECBytes(data, nec)
		if err != nil {
			return nil, err
		}
		blocks[i] = blockPair{data, ec}
		maxData = max(maxData, nd)
		maxEC = max(maxEC, nec)
		off += nd
	}
	if off != numDataBytes {
		return nil, fmt.Errorf("%w: blocks hold %d of %d data bytes",
			ErrInternal, off, numDataBytes)
	}

	res := NewBits(numTotalBytes)
	for i := 0; i < maxData; i++ {
		for _, p := range blocks {
			if i < len(p.data) {
				res.AppendBits(uint32(p.data[i]), 8)
			}
		}
	}
	for i := 0; i < maxEC; i++ {
		for _, p := range blocks {
			if i < len(p.ec) {
				res.AppendBits(uint32(p.ec[i]), 8)
			}
		}
	}
	if res.SizeInBytes() != numTotalBytes {
		return nil, fmt.Errorf("%w: %d != %d", ErrSizeInBytesDiffer,
			res.SizeInBytes(), numTotalBytes)
	}
	return res, nil
}
