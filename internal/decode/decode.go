// Package decode turns uploaded bytes into text without ever failing.
package decode

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/accrava/clausescan/internal/logging"
)

// Bytes decodes b as UTF-8, or as UTF-16 when a byte order mark says so.
// Undecodable bytes become U+FFFD.
func Bytes(b []byte) string {
	return decodeWith(unicode.BOMOverride(unicode.UTF8.NewDecoder()), b)
}

func decodeWith(t transform.Transformer, b []byte) string {
	out, _, err := transform.Bytes(t, b)
	if err != nil {
		logging.Logger.Warnw("decode fallback to lossy UTF-8", "bytes", len(b), "error", err)
		// rune conversion maps each invalid byte to U+FFFD
		return string([]rune(string(b)))
	}
	return string(out)
}
