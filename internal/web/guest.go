package web

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// DecodeGuestName decodes the base64 guest parameter from a
// personalized invitation link. Returns "" for anything that does not
// decode to printable UTF-8 text; the caller substitutes the default
// placeholder, so a garbled link greets rather than errors.
func DecodeGuestName(encoded string) string {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return ""
	}

	// Links in the wild carry both padded standard and URL-safe
	// alphabets; try them in order.
	var decoded []byte
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(encoded)
		if err == nil {
			decoded = b
			break
		}
	}
	if decoded == nil {
		return ""
	}

	name := strings.TrimSpace(string(decoded))
	if name == "" || !utf8.ValidString(name) {
		return ""
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return ""
		}
	}
	return name
}
