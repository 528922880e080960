//go:build !windows

package ntfs

import (
	"fmt"

	"github.com/volumescan/volumescan/backend"
)

// OpenVolume is only meaningful on Windows, where NTFS volumes are opened
// through a raw device path. Elsewhere it always fails, so a dispatcher
// call for an "X:"-shaped path falls back to the generic walker; it
// exists so the package compiles and its tests - which exercise
// ReadVolume directly against an in-memory backend.File - can run on
// every platform.
func OpenVolume(driveLetter byte) (backend.Storage, error) {
	return nil, fmt.Errorf("MFT mode is only supported on Windows (requested drive %c:)", driveLetter)
}
