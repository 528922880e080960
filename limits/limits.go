// Package limits holds the numeric bounds and name sets shared by the
// walker, the MFT reader, the tree builder, and the result assembler, so
// that every component that caps depth, fan-out, or batch size agrees with
// the others.
package limits

const (
	// MaxDepth is the construction-time recursion cap shared by the
	// generic walker (C2) and the MFT tree builder (C6). A directory at
	// this depth is represented as a leaf.
	MaxDepth = 10

	// MaxChildrenPerDir bounds how many entries of a single directory are
	// turned into nodes during construction. The rest get no node and add
	// nothing to their parent's size; the walker also leaves them out of
	// file_count, while the MFT path's file_count (its record count)
	// includes them.
	MaxChildrenPerDir = 500

	// MaxDepthReturn is the display-pruning depth cap applied by the
	// result assembler (C8), independent of and shallower than MaxDepth.
	MaxDepthReturn = 6

	// MaxChildrenPerDirReturn is the display-pruning fan-out cap applied
	// by the result assembler (C8).
	MaxChildrenPerDirReturn = 250

	// ProgressEvery is the sampling interval for enumeration-phase
	// progress callbacks (C4).
	ProgressEvery = 10_000

	// BuildTreeProgressEvery is the sampling interval for tree-build-phase
	// progress callbacks (C6).
	BuildTreeProgressEvery = 10_000

	// TopFilesForResult caps how many of the largest files are attached to
	// a ScanResult by the result assembler (C8).
	TopFilesForResult = 500

	// FirstNormalRecord is the first MFT record index that can hold a
	// user file or directory; everything below it is a reserved system
	// record and is always skipped regardless of $BITMAP.
	FirstNormalRecord = 24
)

// ShallowDirNames is the case-insensitive set of directory names the
// walker and the MFT tree builder report as sized leaves rather than
// recursing into, when shallow mode is requested.
var ShallowDirNames = map[string]struct{}{
	"node_modules":     {},
	".git":             {},
	".github":          {},
	".venv":            {},
	"venv":             {},
	"__pycache__":      {},
	"target":           {},
	"vendor":           {},
	".npm":             {},
	".yarn":            {},
	".pnpm":            {},
	"bower_components": {},
	"jspm_packages":    {},
}

// IsShallowDirName reports whether name (any case) matches one of
// ShallowDirNames.
func IsShallowDirName(name string) bool {
	_, ok := ShallowDirNames[toLower(name)]
	return ok
}

// toLower is a small ASCII-only lowercase helper so this package has no
// dependency beyond the language itself; directory names matched here are
// always ASCII tool/VCS directory names.
func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
