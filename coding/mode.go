// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"
)

// Encoding modes.
const (
	Numeric      Mode = iota // numeric mode, ASCII digits
	Alphanumeric             // alphanumeric mode, 45 ASCII characters
	Byte                     // byte mode, any data
	Kanji                    // kanji mode, Shift JIS double byte text
	GBK                      // Chinese mode, GB 2312 double byte text
)

// A Mode is a QR segment encoding mode.
type Mode int

// modeEncoder implements a QR segment encoding.
//
// The segment is validated using Valid or Accepts.  Encode3, Encode2
// and Encode1 return the encoding of the bytes and its length in bits.
// The encoder calls a non-nil Encode{N} repeatedly as long as N source
// bytes are available, in descending order of N.  If all are nil, each
// byte is encoded as 8 bits.
type modeEncoder struct {
	Name      string // Name for error reporting
	Indicator byte   // 4 bit mode indicator
	Subset    byte   // 4 bit subset indicator, or 0 for none

	// CountLength lists lengths of the character count field in
	// three QR version size classes.
	CountLength [3]byte

	// Valid reports whether the string is valid for the mode.
	// If nil, each byte is checked with Accepts.
	Valid func(string) bool

	// Accepts reports whether the mode accepts the byte.
	// If nil, any byte is accepted.
	Accepts func(byte) bool

	// Count returns the character count of the string.
	// If nil, the length of the string in bytes is used.
	Count func(string) int

	Encode3 func([3]byte) (uint32, int)
	Encode2 func([2]byte) (uint32, int)
	Encode1 func(byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// IsAlphanumeric reports whether c is in the alphanumeric table.
func IsAlphanumeric(c byte) bool {
	return alphamask>>(uint32(c)-' ')&1 != 0
}

// AlphanumericCode returns the alphanumeric code of c,
// or -1 if c is not in the table.
func AlphanumericCode(c byte) int {
	if !IsAlphanumeric(c) {
		return -1
	}
	return int(alpha[c&0x3f])
}

func isDigit(c byte) bool { return c-'0' < 10 }

// kanjiCode returns the 13 bit code of a Shift JIS double byte
// character.
func kanjiCode(b [2]byte) (uint32, bool) {
	if b[1] < 0x40 || b[1] > 0xfc || b[1] == 0x7f {
		return 0, false
	}
	c := uint32(b[0])<<8 | uint32(b[1])
	switch {
	case 0x8140 <= c && c <= 0x9ffc:
		c -= 0x8140
	case 0xe040 <= c && c <= 0xebbf:
		c -= 0xc140
	default:
		return 0, false
	}
	return c>>8*0xc0 + c&0xff, true
}

// gbkCode returns the 13 bit code of a GB 2312 double byte character.
func gbkCode(b [2]byte) (uint32, bool) {
	if b[1] < 0xa1 || b[1] > 0xfe {
		return 0, false
	}
	c := uint32(b[0])<<8 | uint32(b[1])
	switch {
	case 0xa1a1 <= c && c <= 0xaafe:
		c -= 0xa1a1
	case 0xb0a1 <= c && c <= 0xfafe:
		c -= 0xa6a1
	default:
		return 0, false
	}
	return c>>8*0x60 + c&0xff, true
}

// validPairs returns a Valid function for a double byte mode.
func validPairs(code func([2]byte) (uint32, bool)) func(string) bool {
	return func(s string) bool {
		if len(s)&1 != 0 {
			return false
		}
		for i := 0; i < len(s); i += 2 {
			if _, ok := code([2]byte{s[i], s[i+1]}); !ok {
				return false
			}
		}
		return true
	}
}

// encodePair returns an Encode2 function for a double byte mode.
func encodePair(code func([2]byte) (uint32, bool)) func([2]byte) (uint32, int) {
	return func(b [2]byte) (uint32, int) {
		c, _ := code(b)
		return c, 13
	}
}

func pairs(s string) int { return len(s) >> 1 }

var modes = [...]modeEncoder{
	Numeric: {
		Name:        "numeric",
		Indicator:   1,
		CountLength: [3]byte{10, 12, 14},
		Accepts:     isDigit,
		Encode1: func(b byte) (uint32, int) {
			return uint32(b), 4
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0])*10 + uint32(b[1]) - '0'*11&0x7f, 7
		},
		Encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0])*100 + uint32(b[1])*10 +
				uint32(b[2]) + -'0'*111&0x3ff, 10
		},
	},
	Alphanumeric: {
		Name:        "alphanumeric",
		Indicator:   2,
		CountLength: [3]byte{9, 11, 13},
		Accepts:     IsAlphanumeric,
		Encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 +
				uint32(alpha[b[1]&0x3f]), 11
		},
	},
	Byte: {
		Name:        "byte",
		Indicator:   4,
		CountLength: [3]byte{8, 16, 16},
	},
	Kanji: {
		Name:        "kanji",
		Indicator:   8,
		CountLength: [3]byte{8, 10, 12},
		Valid:       validPairs(kanjiCode),
		Count:       pairs,
		Encode2:     encodePair(kanjiCode),
	},
	GBK: {
		Name:        "gbk",
		Indicator:   0xd,
		Subset:      1,
		CountLength: [3]byte{8, 10, 12},
		Valid:       validPairs(gbkCode),
		Count:       pairs,
		Encode2:     encodePair(gbkCode),
	},
}

func getMode(mode Mode) *modeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.Name
	}
	return strconv.Itoa(int(mode))
}

// Indicator returns the 4 bit mode indicator.
func (mode Mode) Indicator() uint32 {
	if m := getMode(mode); m != nil {
		return uint32(m.Indicator)
	}
	return 0
}

// CountBits returns the length in bits of the character count field
// for mode at version v.
func (mode Mode) CountBits(v Version) int {
	if m := getMode(mode); m != nil {
		return int(m.CountLength[v.SizeClass()])
	}
	return 0
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// Count returns the character count of seg.
func (seg Segment) Count() int {
	if m := getMode(seg.Mode); m != nil && m.Count != nil {
		return m.Count(seg.Text)
	}
	return len(seg.Text)
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	m := getMode(seg.Mode)
	return m != nil && m.isValid(seg.Text)
}

// SegmentError represents a Segment containing characters outside
// its mode's alphabet.
type SegmentError Segment

func (e SegmentError) Error() string {
	return fmt.Sprintf("qr: non-%s string %#q", e.Mode, e.Text)
}

func (e SegmentError) Unwrap() error { return ErrCharacter }

// ModeError represents an invalid Mode number.
type ModeError Mode

func (e ModeError) Error() string {
	return fmt.Sprintf("qr: invalid mode %d", int(e))
}

func (e ModeError) Unwrap() error { return ErrCharacter }

func (m *modeEncoder) isValid(s string) bool {
	if f := m.Valid; f != nil {
		return f(s)
	}
	if is := m.Accepts; is != nil {
		for i := 0; i < len(s); i++ {
			if !is(s[i]) {
				return false
			}
		}
	}
	return true
}

// AppendModeInfo appends the mode indicator to b.
// GBK mode is followed by its subset indicator.
func AppendModeInfo(b *Bits, mode Mode) error {
	m := getMode(mode)
	if m == nil {
		return ModeError(mode)
	}
	b.AppendBits(uint32(m.Indicator), 4)
	if m.Subset != 0 {
		b.AppendBits(uint32(m.Subset), 4)
	}
	return nil
}

// AppendLengthInfo appends the character count to b.  The count must
// fit in the count field of mode at version v.
func AppendLengthInfo(b *Bits, count int, v Version, mode Mode) error {
	if !v.IsValid() {
		return ErrVersion
	}
	n := mode.CountBits(v)
	if n == 0 {
		return ModeError(mode)
	}
	if count < 0 || count >= 1<<n {
		return fmt.Errorf("%w: %d characters in %d bits", ErrCount,
			count, n)
	}
	b.AppendBits(uint32(count), n)
	return nil
}

// AppendBytes appends the data of seg encoded in its mode to b.
func AppendBytes(b *Bits, seg Segment) error {
	m := getMode(seg.Mode)
	if m == nil {
		return ModeError(seg.Mode)
	}
	s := seg.Text
	if !m.isValid(s) {
		return SegmentError(seg)
	}
	enc3, enc2, enc1 := m.Encode3, m.Encode2, m.Encode1
	if enc3 == nil && enc2 == nil && enc1 == nil {
		b.appendBytes(s)
		return nil
	}
	if enc3 != nil {
		for len(s) >= 3 {
			b.AppendBits(enc3([3]byte{s[0], s[1], s[2]}))
			s = s[3:]
		}
	}
	if enc2 != nil {
		for len(s) >= 2 {
			b.AppendBits(enc2([2]byte{s[0], s[1]}))
			s = s[2:]
		}
	}
	if enc1 != nil {
		for len(s) >= 1 {
			b.AppendBits(enc1(s[0]))
			s = s[1:]
		}
	}
	if s != "" {
		panic("qr: " + m.Name + " mode internal error")
	}
	return nil
}

// AppendSegment appends the mode indicator, character count and data
// of seg to b.
func AppendSegment(b *Bits, seg Segment, v Version) error {
	if err := AppendModeInfo(b, seg.Mode); err != nil {
		return err
	}
	if err := AppendLengthInfo(b, seg.Count(), v, seg.Mode); err != nil {
		return err
	}
	return AppendBytes(b, seg)
}

// ChooseMode returns the single mode that encodes all of s most
// compactly among Numeric, Alphanumeric and Byte.
func ChooseMode(s string) Mode {
	hasNumeric, hasAlpha := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case isDigit(c):
			hasNumeric = true
		case IsAlphanumeric(c):
			hasAlpha = true
		default:
			return Byte
		}
	}
	switch {
	case hasAlpha:
		return Alphanumeric
	case hasNumeric:
		return Numeric
	}
	return Byte
}
