// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"strings"
	"testing"

	"github.com/liyue201/goqr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/gbqr"
	"github.com/unixdj/gbqr/coding"
)

func TestEncodeText(t *testing.T) {
	for _, tc := range []struct {
		text string
		enc  qr.Encoding
		mode coding.Mode
	}{
		{"", qr.UTF8, coding.Byte},
		{"0123", qr.UTF8, coding.Numeric},
		{"HELLO WORLD 42", qr.UTF8, coding.Alphanumeric},
		{"héllo wörld", qr.UTF8, coding.Byte},
		{"点茗", qr.ShiftJIS, coding.Kanji},
		{"", qr.ShiftJIS, coding.Byte},
	} {
		c, err := qr.EncodeText(tc.text, qr.M, tc.enc)
		require.NoError(t, err, "%q", tc.text)
		assert.Equal(t, tc.mode, c.Mode, "%q", tc.text)
		assert.Equal(t, coding.Version(1), c.Version, "%q", tc.text)
	}

	_, err := qr.EncodeText("abc", qr.M, qr.ShiftJIS)
	assert.ErrorIs(t, err, qr.ErrCharacter)
	_, err = qr.EncodeText("\U0001f600", qr.M, qr.ShiftJIS)
	assert.ErrorIs(t, err, qr.ErrCharacter)
	var se coding.SegmentError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, coding.Kanji, se.Mode)

	_, err = qr.EncodeText("x", qr.M, qr.Encoding(2))
	assert.ErrorIs(t, err, qr.ErrArgs)
	_, err = qr.EncodeText(strings.Repeat("x", 3000), qr.L, qr.UTF8)
	assert.ErrorIs(t, err, qr.ErrCapacity)
}

func TestEncodeTextRoundTrip(t *testing.T) {
	c, err := qr.EncodeText("点茗", qr.L, qr.ShiftJIS)
	require.NoError(t, err)
	assert.Equal(t, "点茗", decode(t, c))

	// goqr returns kanji segments as raw Shift JIS.
	codes, err := goqr.Recognize(c.Image())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "\x93\x5f\xe4\xaa", string(codes[0].Payload))

	c, err = qr.EncodeText("HELLO 2024", qr.Q, qr.UTF8)
	require.NoError(t, err)
	assert.Equal(t, coding.Alphanumeric, c.Mode)
	assert.Equal(t, "HELLO 2024", decode(t, c))
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "utf-8", qr.UTF8.String())
	assert.Equal(t, "shift-jis", qr.ShiftJIS.String())
	assert.Equal(t, "invalid", qr.Encoding(9).String())
}

func TestToGBK(t *testing.T) {
	s, err := qr.ToGBK("啊abc")
	require.NoError(t, err)
	assert.Equal(t, "\xb0\xa1abc", s)

	c, err := qr.Encode(s[:2], qr.M)
	require.NoError(t, err)
	assert.Equal(t, coding.GBK, c.Mode)

	c, err = qr.Encode(s, qr.M)
	require.NoError(t, err)
	assert.Equal(t, "啊abc", decode(t, c))

	_, err = qr.ToGBK("\U0001f600")
	assert.Error(t, err)
}

func TestToLatin1(t *testing.T) {
	s, err := qr.ToLatin1("café")
	require.NoError(t, err)
	assert.Equal(t, "caf\xe9", s)
	_, err = qr.ToLatin1("啊")
	assert.Error(t, err)
}
