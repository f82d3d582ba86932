package importer

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText converts spreadsheet exports to UTF-8. A byte order mark
// selects UTF-8 or UTF-16; input that is not valid UTF-8 is read as
// Windows-1252. Full-width ASCII is folded to its narrow form. The name of
// the detected encoding is returned alongside the text.
func decodeText(data []byte) ([]byte, string, error) {
	var fallback encoding.Encoding = unicode.UTF8
	name := "utf-8"
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		name = "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		name = "utf-16be"
	case !utf8.Valid(data):
		fallback = charmap.Windows1252
		name = "windows-1252"
	}

	decoder := unicode.BOMOverride(fallback.NewDecoder())
	out, _, err := transform.Bytes(transform.Chain(decoder, width.Fold), data)
	if err != nil {
		return nil, name, err
	}
	return out, name, nil
}
