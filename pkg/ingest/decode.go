package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding guesses the encoding of raw export bytes. A byte order mark
// wins; otherwise NUL bytes at odd or even offsets identify BOM-less UTF-16.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE
	}

	if len(data)%2 == 0 && bytes.IndexByte(data, 0) >= 0 {
		var odd, even int
		for i, b := range data {
			if b != 0 {
				continue
			}
			if i%2 == 1 {
				odd++
			} else {
				even++
			}
		}
		half := len(data) / 2
		switch {
		case odd > half/2 && even == 0:
			return UTF16LE
		case even > half/2 && odd == 0:
			return UTF16BE
		}
	}

	if utf8.Valid(data) {
		return UTF8
	}
	return Unknown
}

// Decode converts raw export bytes to text using the detected encoding.
func Decode(data []byte) (string, Encoding, error) {
	enc := DetectEncoding(data)
	if enc == Unknown {
		return "", Unknown, ErrUndecodable
	}
	text, err := DecodeAs(data, enc)
	if err != nil {
		return "", Unknown, err
	}
	return text, enc, nil
}

// DecodeAs converts raw bytes from the given encoding, dropping any BOM.
func DecodeAs(data []byte, enc Encoding) (string, error) {
	var t transform.Transformer
	switch enc {
	case UTF8, UTF8BOM:
		t = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case UTF16LE:
		t = unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	case UTF16BE:
		t = unicode.BOMOverride(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())
	default:
		return "", fmt.Errorf("%w: %q", ErrUndecodable, enc)
	}

	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", enc, err)
	}
	if !utf8.Valid(out) {
		return "", ErrUndecodable
	}
	return string(out), nil
}
