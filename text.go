// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/unixdj/gbqr/coding"
)

// An Encoding is the character encoding of a single segment.
type Encoding int

const (
	UTF8     Encoding = iota // numeric, alphanumeric or byte mode
	ShiftJIS                 // kanji mode, text converted to Shift JIS
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case ShiftJIS:
		return "shift-jis"
	}
	return "invalid"
}

// EncodeText returns an encoding of UTF-8 text as a single segment in
// the smallest version that fits.  With UTF8 the mode is the most
// compact of numeric, alphanumeric and byte that accepts all of text.
// With ShiftJIS text is converted to Shift JIS and encoded in kanji
// mode; characters with no kanji mode encoding yield an error matching
// ErrCharacter.
func EncodeText(text string, level Level, enc Encoding) (*Code, error) {
	var seg coding.Segment
	switch enc {
	case UTF8:
		seg = coding.Segment{Text: text, Mode: coding.ChooseMode(text)}
	case ShiftJIS:
		s, err := japanese.ShiftJIS.NewEncoder().String(text)
		if err != nil {
			return nil, coding.SegmentError{Text: text, Mode: coding.Kanji}
		}
		seg = coding.Segment{Text: s, Mode: coding.Kanji}
	default:
		return nil, ErrArgs
	}
	var segs []coding.Segment
	if text != "" {
		segs = []coding.Segment{seg}
	}
	return encode(segs, level, 0)
}

func convert(e encoding.Encoding, s string) (string, error) {
	return e.NewEncoder().String(s)
}

// ToGBK converts UTF-8 text to GBK.  Chinese characters of GB 2312
// are then encoded by Encode in GBK mode.
func ToGBK(s string) (string, error) {
	return convert(simplifiedchinese.GBK, s)
}

// ToLatin1 converts UTF-8 text to ISO 8859-1, the default byte mode
// character set.
func ToLatin1(s string) (string, error) {
	return convert(charmap.ISO8859_1, s)
}
