// Package pathnorm implements the path normalizer (C1): trimming,
// separator canonicalization, volume-root detection, and drive-letter
// extraction for the two device-path spellings Windows accepts
// (\\.\X: and \\?\X:).
package pathnorm

import (
	"strings"
)

// Normalize trims whitespace and, on platforms where backslash is the
// native separator, rewrites forward slashes to backslashes. Elsewhere it
// returns the trimmed input unchanged.
func Normalize(input string) string {
	return normalize(strings.TrimSpace(input))
}

// IsVolumeRoot reports whether the canonicalized form of path names a
// whole Windows volume: "X:", "X:\", or either device-path spelling
// "\\.\X:" / "\\?\X:", where X is a single ASCII letter.
func IsVolumeRoot(path string) bool {
	_, ok := DriveLetter(path)
	if !ok {
		return false
	}
	trimmed := stripDevicePrefix(path)
	switch len(trimmed) {
	case 2:
		return trimmed[1] == ':'
	case 3:
		return trimmed[1] == ':' && isSeparator(trimmed[2])
	default:
		return false
	}
}

// DriveLetter extracts the single ASCII drive letter from a volume-root
// path in any of its accepted spellings. The second return value is false
// if path does not name a volume root.
func DriveLetter(path string) (byte, bool) {
	trimmed := stripDevicePrefix(path)
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return 0, false
	}
	c := trimmed[0]
	if !isASCIILetter(c) {
		return 0, false
	}
	if len(trimmed) > 2 && !isSeparator(trimmed[2]) {
		return 0, false
	}
	return upper(c), true
}

// stripDevicePrefix removes a leading "\\.\" or "\\?\" extended-length
// device prefix, if present, leaving the drive-letter form behind.
func stripDevicePrefix(path string) string {
	for _, prefix := range []string{`\\.\`, `\\?\`} {
		if strings.HasPrefix(path, prefix) {
			return path[len(prefix):]
		}
	}
	return path
}

func isSeparator(c byte) bool {
	return c == '\\' || c == '/'
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
