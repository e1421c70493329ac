package web

import (
	"encoding/base64"
	"testing"
)

func TestDecodeGuestName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"standard padded", base64.StdEncoding.EncodeToString([]byte("Aisha Verma")), "Aisha Verma"},
		{"raw url-safe", base64.RawURLEncoding.EncodeToString([]byte("Rahul")), "Rahul"},
		{"unicode", base64.StdEncoding.EncodeToString([]byte("प्रिया")), "प्रिया"},
		{"surrounding whitespace decoded away", base64.StdEncoding.EncodeToString([]byte("  Maya ")), "Maya"},
		{"empty", "", ""},
		{"garbled", "%%%not-base64%%%", ""},
		{"decodes to empty", base64.StdEncoding.EncodeToString([]byte("   ")), ""},
		{"control characters", base64.StdEncoding.EncodeToString([]byte("evil\x00name")), ""},
		{"invalid utf8", base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}), ""},
	}
	for _, c := range cases {
		if got := DecodeGuestName(c.in); got != c.want {
			t.Errorf("%s: DecodeGuestName(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}
