//go:build windows

package ntfs

import (
	"errors"
	"fmt"
	"os"

	"github.com/volumescan/volumescan/backend"
	"github.com/volumescan/volumescan/backend/file"
)

// OpenVolume opens a Windows volume's raw device path (\\.\X:) for
// read-only access. Opening this path requires administrator privileges;
// a permission failure is reported as an *ElevationError so callers can
// distinguish it from a generic I/O failure.
func OpenVolume(driveLetter byte) (backend.Storage, error) {
	path := fmt.Sprintf(`\\.\%c:`, driveLetter)
	vol, err := file.OpenFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, &ElevationError{Drive: driveLetter}
		}
		return nil, err
	}
	return vol, nil
}
