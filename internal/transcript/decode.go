package transcript

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	errs "github.com/edgard/chatstat/internal/errors"
)

// Decode converts raw export bytes to text. A leading byte order mark is
// dropped and CRLF line endings are normalized. Input that is not valid
// UTF-8 fails with a DecodeError and no text.
func Decode(raw []byte) (string, error) {
	if offset := invalidUTF8Offset(raw); offset >= 0 {
		return "", errs.NewDecodeError("input is not valid UTF-8", offset, nil)
	}

	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errs.NewDecodeError("failed to decode input", 0, err)
	}

	return strings.ReplaceAll(string(decoded), "\r\n", "\n"), nil
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence, or -1.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
