// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/gbqr/coding"
	"github.com/unixdj/gbqr/split"
)

type seg = coding.Segment

func TestIsGBKPair(t *testing.T) {
	assert.True(t, split.IsGBKPair(0xb0, 0xa1))
	assert.True(t, split.IsGBKPair(0xa1, 0xfe))
	assert.True(t, split.IsGBKPair(0xfa, 0xa1))
	assert.False(t, split.IsGBKPair(0xab, 0xa1))
	assert.False(t, split.IsGBKPair(0xaf, 0xa1))
	assert.False(t, split.IsGBKPair(0xfb, 0xa1))
	assert.False(t, split.IsGBKPair(0xb0, 0xa0))
	assert.False(t, split.IsGBKPair(0xb0, 0xff))
	assert.False(t, split.IsGBKPair('A', 0xa1))
}

func TestSegment(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []seg
	}{
		{"", nil},
		{"HELLO", []seg{{Text: "HELLO", Mode: split.Alphanumeric}}},
		{"12345", []seg{{Text: "12345", Mode: split.Numeric}}},
		{"abc", []seg{{Text: "abc", Mode: split.Byte}}},
		{"A1", []seg{{Text: "A1", Mode: split.Alphanumeric}}},
		{"1A", []seg{{Text: "1", Mode: split.Numeric}, {Text: "A", Mode: split.Alphanumeric}}},
		{"a1b", []seg{
			{Text: "a", Mode: split.Byte}, {Text: "1", Mode: split.Numeric}, {Text: "b", Mode: split.Byte},
		}},
		{"abc123DEF\xb0\xa1", []seg{
			{Text: "abc", Mode: split.Byte}, {Text: "123", Mode: split.Numeric},
			{Text: "DEF", Mode: split.Alphanumeric}, {Text: "\xb0\xa1", Mode: split.GBK},
		}},
		{"\xb0\xa1\xb0\xa2x", []seg{
			{Text: "\xb0\xa1\xb0\xa2", Mode: split.GBK}, {Text: "x", Mode: split.Byte},
		}},
		// UTF-8 é is a valid GB 2312 pair.
		{"caf\xc3\xa9", []seg{{Text: "caf", Mode: split.Byte}, {Text: "\xc3\xa9", Mode: split.GBK}}},
		// A high byte takes the next byte along.
		{"\x80A", []seg{{Text: "\x80A", Mode: split.Byte}}},
		{"\xff", []seg{{Text: "\xff", Mode: split.Byte}}},
		{"\xb0\xa1\xb0", []seg{{Text: "\xb0\xa1", Mode: split.GBK}, {Text: "\xb0", Mode: split.Byte}}},
		{"\x80\xb0\xa1", []seg{{Text: "\x80\xb0\xa1", Mode: split.Byte}}},
		{"x\xb0\xa1", []seg{{Text: "x", Mode: split.Byte}, {Text: "\xb0\xa1", Mode: split.GBK}}},
	} {
		assert.Equal(t, tc.want, split.Segment(tc.in), "%q", tc.in)
	}
}

func TestMerge(t *testing.T) {
	for _, tc := range []struct {
		in   []seg
		v    coding.Version
		want []seg
	}{
		{nil, 1, nil},
		{[]seg{{Text: "A", Mode: split.Alphanumeric}, {Text: "b", Mode: split.Byte}}, 1,
			[]seg{{Text: "Ab", Mode: split.Byte}}},
		{[]seg{{Text: "ABCDEFGHIJ", Mode: split.Alphanumeric}, {Text: "b", Mode: split.Byte}}, 1,
			[]seg{{Text: "ABCDEFGHIJb", Mode: split.Byte}}},
		{[]seg{{Text: "ABCDEFGHIJK", Mode: split.Alphanumeric}, {Text: "b", Mode: split.Byte}}, 1,
			[]seg{{Text: "ABCDEFGHIJK", Mode: split.Alphanumeric}, {Text: "b", Mode: split.Byte}}},
		{[]seg{{Text: "ABCDEFGHIJK", Mode: split.Alphanumeric}, {Text: "b", Mode: split.Byte}}, 10,
			[]seg{{Text: "ABCDEFGHIJKb", Mode: split.Byte}}},
		{[]seg{{Text: "12345", Mode: split.Numeric}, {Text: "b", Mode: split.Byte}}, 1,
			[]seg{{Text: "12345b", Mode: split.Byte}}},
		{[]seg{{Text: "123456", Mode: split.Numeric}, {Text: "b", Mode: split.Byte}}, 1,
			[]seg{{Text: "123456", Mode: split.Numeric}, {Text: "b", Mode: split.Byte}}},
		{[]seg{{Text: "12345678", Mode: split.Numeric}, {Text: "b", Mode: split.Byte}}, 27,
			[]seg{{Text: "12345678b", Mode: split.Byte}}},
		{[]seg{{Text: "123456789012", Mode: split.Numeric}, {Text: "A", Mode: split.Alphanumeric}}, 1,
			[]seg{{Text: "123456789012A", Mode: split.Alphanumeric}}},
		{[]seg{{Text: "1234567890123", Mode: split.Numeric}, {Text: "A", Mode: split.Alphanumeric}}, 1,
			[]seg{{Text: "1234567890123", Mode: split.Numeric}, {Text: "A", Mode: split.Alphanumeric}}},
		{[]seg{{Text: "1234567890123456", Mode: split.Numeric}, {Text: "A", Mode: split.Alphanumeric}}, 40,
			[]seg{{Text: "1234567890123456A", Mode: split.Alphanumeric}}},
		{[]seg{{Text: "a", Mode: split.Byte}, {Text: "b", Mode: split.Byte}}, 1,
			[]seg{{Text: "ab", Mode: split.Byte}}},
		{[]seg{{Text: "a", Mode: split.Byte}, {Text: "B", Mode: split.Alphanumeric}}, 1,
			[]seg{{Text: "a", Mode: split.Byte}, {Text: "B", Mode: split.Alphanumeric}}},
		{[]seg{{Text: "\xb0\xa1", Mode: split.GBK}, {Text: "b", Mode: split.Byte}}, 1,
			[]seg{{Text: "\xb0\xa1", Mode: split.GBK}, {Text: "b", Mode: split.Byte}}},
		// Merges cascade.
		{[]seg{
			{Text: "1", Mode: split.Numeric}, {Text: "A", Mode: split.Alphanumeric}, {Text: "b", Mode: split.Byte},
		}, 1, []seg{{Text: "1Ab", Mode: split.Byte}}},
		{[]seg{
			{Text: "ab", Mode: split.Byte}, {Text: "1", Mode: split.Numeric}, {Text: "cd", Mode: split.Byte},
		}, 1, []seg{{Text: "ab1cd", Mode: split.Byte}}},
	} {
		assert.Equal(t, tc.want, split.Merge(tc.in, tc.v), "%v", tc.in)
	}
}

func TestMergeCopies(t *testing.T) {
	in := []seg{{Text: "a", Mode: split.Byte}, {Text: "b", Mode: split.Byte}}
	out := split.Merge(in, 1)
	assert.Equal(t, []seg{{Text: "a", Mode: split.Byte}, {Text: "b", Mode: split.Byte}}, in)
	assert.Len(t, out, 1)
}

// checkSegments verifies that segs cover s with encodable segments.
func checkSegments(t *testing.T, s string, segs []seg) {
	t.Helper()
	var b strings.Builder
	for _, sg := range segs {
		require.NotEmpty(t, sg.Text, "%q", s)
		require.True(t, sg.IsValid(), "%q: %v", s, sg)
		b.WriteString(sg.Text)
	}
	require.Equal(t, s, b.String())
}

// randomString returns a string biased towards runs of digits,
// letters and GB 2312 pairs.
func randomString(r *rand.Rand) string {
	const pieces = "0123456789ABCXYZ $%:abcxyz\x00\n\x7f"
	var b strings.Builder
	for n := r.Intn(40); n > 0; n-- {
		switch r.Intn(4) {
		case 0:
			b.WriteByte(pieces[r.Intn(len(pieces))])
		case 1:
			b.WriteByte(byte(r.Intn(256)))
		case 2:
			b.WriteByte(byte(0xb0 + r.Intn(0x4b)))
			b.WriteByte(byte(0xa1 + r.Intn(0x5e)))
		default:
			b.WriteString(strings.Repeat("7", r.Intn(20)))
		}
	}
	return b.String()
}

func TestSegmentRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		s := randomString(r)
		segs := split.Segment(s)
		checkSegments(t, s, segs)
		for j := 1; j < len(segs); j++ {
			require.NotEqual(t, segs[j-1].Mode, segs[j].Mode, "%q", s)
		}
		for _, v := range []coding.Version{1, 10, 27} {
			merged := split.Merge(segs, v)
			checkSegments(t, s, merged)
			require.LessOrEqual(t, len(merged), len(segs))
		}
	}
}

func FuzzSegment(f *testing.F) {
	for _, s := range []string{"", "HELLO WORLD", "12345", "\xb0\xa1",
		"abc123DEF\xb0\xa1", "\x80A", "\xff\xfe\xfd"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		segs := split.Segment(s)
		checkSegments(t, s, segs)
		checkSegments(t, s, split.Merge(segs, 1))
		checkSegments(t, s, split.Merge(segs, 40))
	})
}
