package mailparse

import (
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/ianaindex"
)

// decodeHeader resolves RFC 2047 encoded words in a header value. Values
// without encoded words come back unchanged. Otherwise each
// whitespace-separated segment is decoded on its own and the results are
// joined with single spaces; words in unknown charsets decode with
// replacement runes and malformed words stay as they were.
func decodeHeader(value string) string {
	if !strings.Contains(value, "=?") {
		return value
	}

	dec := mime.WordDecoder{CharsetReader: charsetReader}
	fields := strings.Fields(value)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "=?") && strings.HasSuffix(f, "?=") {
			if decoded, err := dec.Decode(f); err == nil {
				out = append(out, toValidUTF8(decoded))
				continue
			}
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// charsetReader resolves a declared charset to a decoding reader. It tries
// the message charset registry first, then the IANA index, and finally
// passes bytes through untouched so unknown charsets degrade to
// replacement runes instead of failing. Importing the charset package also
// registers its handlers for body decoding.
func charsetReader(name string, input io.Reader) (io.Reader, error) {
	if r, err := charset.Reader(name, input); err == nil {
		return r, nil
	}
	if enc, err := ianaindex.MIME.Encoding(name); err == nil && enc != nil {
		return enc.NewDecoder().Reader(input), nil
	}
	return input, nil
}

func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}
