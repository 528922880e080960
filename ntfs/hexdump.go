package ntfs

import "fmt"

// hexDump renders b as a 16-bytes-per-row hex/ASCII dump with a leading
// hex offset column, in the style of xxd, for inclusion in a
// CorruptionError's detail when debug logging is enabled.
func hexDump(b []byte) string {
	const bytesPerRow = 16
	var out string
	numRows := (len(b) + bytesPerRow - 1) / bytesPerRow

	for row := 0; row < numRows; row++ {
		start := row * bytesPerRow
		end := start + bytesPerRow

		line := fmt.Sprintf("%08x  ", start)
		var ascii []byte
		for i := start; i < end; i++ {
			if i%8 == 0 && i != start {
				line += " "
			}
			if i < len(b) {
				line += fmt.Sprintf(" %02x", b[i])
				if b[i] < 32 || b[i] > 126 {
					ascii = append(ascii, '.')
				} else {
					ascii = append(ascii, b[i])
				}
			} else {
				line += "   "
			}
		}
		line += fmt.Sprintf("  %s\n", ascii)
		out += line
	}
	return out
}
