//go:build !windows

package result

import (
	"golang.org/x/sys/unix"
)

// VolumeSpace queries total and free bytes for the filesystem containing
// path. ok is false if the query fails; the caller treats this as
// non-fatal and leaves the corresponding ScanResult fields absent.
func VolumeSpace(path string) (total, free uint64, ok bool) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, false
	}
	total = uint64(stat.Blocks) * uint64(stat.Bsize)
	free = uint64(stat.Bavail) * uint64(stat.Bsize)
	return total, free, true
}
