package checkout

import (
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// DeepLink builds a wa.me link that opens a chat with phone prefilled with text.
func DeepLink(phone, text string) string {
	return whatsAppBaseURL + digitsOnly(phone) + "?text=" + encodeURIComponent(text)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// encodeURIComponent percent-encodes every byte outside A-Z a-z 0-9 - _ . ! ~ * ' ( ).
// url.QueryEscape differs: it writes spaces as "+" and escapes ! ' ( ) *.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}

	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
