package xlcodec

import (
	"fmt"
	"strings"
)

// ARGBToHex converts a stored ARGB string ("FFAABBCC") into the display form
// "#AABBCC". A 6-digit RGB string is accepted as is. Any other length is
// returned with a "#" prefix and no further interpretation.
func ARGBToHex(argb string) string {
	s := strings.TrimPrefix(strings.TrimSpace(argb), "#")
	if len(s) == 8 {
		return "#" + strings.ToUpper(s[2:])
	}
	return "#" + strings.ToUpper(s)
}

// HexToARGB converts "#AABBCC" (or "AABBCC") into the opaque ARGB form
// "FFAABBCC". An 8-digit input already carries alpha and is kept.
func HexToARGB(hex string) string {
	s := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(s) == 8 {
		return s
	}
	return "FF" + s
}

// NormalizeRGB accepts "RRGGBB", "#RRGGBB" or "AARRGGBB" and returns the
// upper-case 6-digit form. Anything else is rejected.
func NormalizeRGB(color string) (string, error) {
	s := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 || !isHex(s) {
		return "", fmt.Errorf("%w: color %q", ErrInvalidEnumValue, color)
	}
	return s, nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// displayColor turns a document colour (6 or 8 digits, possibly empty) into
// "#RRGGBB", or "" when the document carries no explicit colour.
func displayColor(c string) string {
	if c == "" {
		return ""
	}
	return ARGBToHex(c)
}
