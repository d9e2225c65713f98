// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits strings into QR code segments.

Segment partitions a byte string into runs of a single mode, trying in
turn GB 2312 double byte characters (GBK mode), other bytes (Byte
mode), digits (Numeric mode) and the remaining alphanumeric characters
(Alphanumeric mode).  The concatenation of the segment texts is always
the input.  Merge joins short segments into their neighbours when the
version is known.
*/
package split // import "github.com/unixdj/gbqr/split"

import "github.com/unixdj/gbqr/coding"

// Segment modes.
const (
	Numeric      = coding.Numeric
	Alphanumeric = coding.Alphanumeric
	Byte         = coding.Byte
	GBK          = coding.GBK
)

// IsGBKPair reports whether hi and lo form a GB 2312 double byte
// character encodable in GBK mode.
func IsGBKPair(hi, lo byte) bool {
	return (0xa1 <= hi && hi <= 0xaa || 0xb0 <= hi && hi <= 0xfa) &&
		0xa1 <= lo && lo <= 0xfe
}

// gbkAt reports whether s[i:] starts with a GBK pair.
func gbkAt(s string, i int) bool {
	return i+1 < len(s) && IsGBKPair(s[i], s[i+1])
}

// gbkRun returns the length of the run of GBK pairs at the start of s.
func gbkRun(s string) int {
	n := 0
	for gbkAt(s, n) {
		n += 2
	}
	return n
}

// byteRun returns the length of the run at the start of s of bytes
// that are neither alphanumeric nor the start of a GBK pair.
// Bytes above 0x7f are taken with the following byte.
func byteRun(s string) int {
	n := 0
	for n < len(s) && !coding.IsAlphanumeric(s[n]) && !gbkAt(s, n) {
		if s[n] > 0x7f {
			n++
		}
		n++
	}
	return min(n, len(s))
}

// numericRun returns the length of the run of digits at the start of s.
func numericRun(s string) int {
	n := 0
	for n < len(s) && '0' <= s[n] && s[n] <= '9' {
		n++
	}
	return n
}

// alphaRun returns the length of the run of alphanumeric characters
// at the start of s.
func alphaRun(s string) int {
	n := 0
	for n < len(s) && coding.IsAlphanumeric(s[n]) {
		n++
	}
	return n
}

// runs lists the mode passes in priority order.
var runs = [...]struct {
	mode coding.Mode
	run  func(string) int
}{
	{GBK, gbkRun},
	{Byte, byteRun},
	{Numeric, numericRun},
	{Alphanumeric, alphaRun},
}

// Segment splits s into segments.  An empty string yields no
// segments.
func Segment(s string) []coding.Segment {
	var segs []coding.Segment
	for s != "" {
		for _, r := range runs {
			if n := r.run(s); n != 0 {
				segs = append(segs, coding.Segment{Text: s[:n], Mode: r.mode})
				s = s[n:]
			}
		}
	}
	return segs
}

// Merge thresholds by QR version size class.  A segment of the first
// mode shorter than the threshold is merged into a following segment
// of the second mode.
var thresholds = [...]struct {
	first, second coding.Mode
	max           [3]int
}{
	{Alphanumeric, Byte, [3]int{11, 15, 16}},
	{Numeric, Byte, [3]int{6, 8, 9}},
	{Numeric, Alphanumeric, [3]int{13, 15, 17}},
}

// mergeable reports whether a and b can be merged into one segment
// of b's mode at size class class.
func mergeable(a, b coding.Segment, class int) bool {
	if a.Mode == Byte && b.Mode == Byte {
		return true
	}
	for _, t := range thresholds {
		if a.Mode == t.first && b.Mode == t.second {
			return len(a.Text) < t.max[class]
		}
	}
	return false
}

// Merge returns segs with adjacent segments merged where a short
// Numeric or Alphanumeric segment costs more bits on its own than as
// part of the following segment at version v.  Adjacent Byte
// segments are joined.  segs is not modified.
func Merge(segs []coding.Segment, v coding.Version) []coding.Segment {
	class := v.SizeClass()
	out := append([]coding.Segment(nil), segs...)
	for merged := true; merged; {
		merged = false
		for i := 0; i+1 < len(out); i++ {
			if a, b := out[i], out[i+1]; mergeable(a, b, class) {
				out[i] = coding.Segment{Text: a.Text + b.Text, Mode: b.Mode}
				out = append(out[:i+1], out[i+2:]...)
				merged = true
				break
			}
		}
	}
	return out
}
