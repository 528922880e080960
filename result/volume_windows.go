//go:build windows

package result

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// VolumeSpace queries total and free bytes for the volume whose drive
// letter is path's first character via GetDiskFreeSpaceEx. ok is false if the query fails; the
// caller treats this as non-fatal and leaves the corresponding
// ScanResult fields absent.
func VolumeSpace(path string) (total, free uint64, ok bool) {
	root := fmt.Sprintf(`%c:\`, path[0])
	rootPtr, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return 0, 0, false
	}

	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(rootPtr, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0, 0, false
	}
	return totalBytes, freeBytesAvailable, true
}
