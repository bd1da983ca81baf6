package convert

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// LookupEncoding resolves IANA character set name.
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("character set %q is not supported", name)
	}
	return enc, nil
}

// DecodeText turns manuscript bytes into text. Byte order mark always wins.
// Otherwise explicit encoding is used when given, valid UTF-8 is taken as is
// and anything else is decoded as GB18030.
func DecodeText(data []byte, enc encoding.Encoding, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		name string
		dec  *encoding.Decoder
	)
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF32LE):
		name, dec = "UTF-32LE", utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, bomUTF32BE):
		name, dec = "UTF-32BE", utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, bomUTF16LE):
		name, dec = "UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, bomUTF16BE):
		name, dec = "UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case enc != nil:
		name, _ = ianaindex.IANA.Name(enc)
		dec = enc.NewDecoder()
	case utf8.Valid(data):
		return string(data), nil
	default:
		name, dec = "GB18030", simplifiedchinese.GB18030.NewDecoder()
	}

	log.Debug("Decoding manuscript", zap.String("charset", name))
	out, err := dec.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: unable to decode text as %s: %w", ErrIO, name, err)
	}
	return string(out), nil
}
