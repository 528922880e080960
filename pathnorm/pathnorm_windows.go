//go:build windows

package pathnorm

import "strings"

func normalize(input string) string {
	return strings.ReplaceAll(input, "/", `\`)
}
