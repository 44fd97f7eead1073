package auth

import "strings"

// TokenFromCookieHeader scans a raw Cookie header for the named cookie and
// returns its value. Malformed headers are treated as "absent", never as an
// error: the gate must not fail open or crash on garbage input.
func TokenFromCookieHeader(header, name string) (string, bool) {
	if header == "" || name == "" {
		return "", false
	}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		eq := strings.IndexByte(part, '=')
		if eq <= 0 {
			continue
		}
		if part[:eq] == name {
			return part[eq+1:], true
		}
	}
	return "", false
}
