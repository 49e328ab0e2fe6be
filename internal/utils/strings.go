package utils

import "strings"

// FormatSOH replaces FIX SOH delimiter bytes (0x01) with `|` so wire bytes can
// be printed and logged
func FormatSOH(s []byte) string {
	buf := strings.Builder{}
	buf.Grow(len(s))
	for _, c := range s {
		if c == 0x01 {
			buf.WriteByte('|')
			continue
		}
		buf.WriteByte(c)
	}
	return buf.String()
}
