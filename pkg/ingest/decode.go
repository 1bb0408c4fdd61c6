package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseError reports input that cannot be decoded as text. It is the only
// condition that aborts an import.
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("input is not decodable text at byte %d: %s", e.Offset, e.Reason)
}

//nolint:gochecknoglobals // Byte order marks
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns raw file bytes into text. UTF-8 is preferred, BOM-marked UTF-16
// is transcoded, and anything else that is not valid UTF-8 is read as
// Windows-1252, the default encoding of spreadsheet exports on Brazilian desktops.
func Decode(raw []byte) (text string, err error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		raw = raw[len(bomUTF8):]
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		var decoded []byte
		decoded, _, err = transform.Bytes(decoder, raw)
		if err != nil {
			err = &ParseError{Offset: 0, Reason: "invalid UTF-16: " + err.Error()}
			return text, err
		}
		raw = decoded
	}

	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		err = &ParseError{Offset: idx, Reason: "NUL byte in text input"}
		return text, err
	}

	if utf8.Valid(raw) {
		text = string(raw)
		return text, err
	}

	var decoded []byte
	decoded, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		err = &ParseError{Offset: 0, Reason: "invalid Windows-1252: " + err.Error()}
		return text, err
	}

	text = string(decoded)
	return text, err
}
