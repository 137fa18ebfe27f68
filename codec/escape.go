package codec

import "strings"

// uriComponentEncode escapes a string exactly like JavaScript's
// encodeURIComponent: unreserved characters plus !'()*-._~ pass through,
// everything else becomes percent-encoded UTF-8 bytes. Go's net/url
// escapers differ on several of these characters, and token compatibility
// with the web client depends on matching the JS form byte for byte.
func uriComponentEncode(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriComponentUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func uriComponentUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
