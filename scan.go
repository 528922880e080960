// Package volumescan is the dual-mode volume scanner: a parallel
// recursive walker for arbitrary paths (walker) and a specialized NTFS
// Master File Table enumerator for Windows volume roots (ntfs), chosen
// between by the dispatcher in this file (C9).
package volumescan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/volumescan/volumescan/model"
	"github.com/volumescan/volumescan/ntfs"
	"github.com/volumescan/volumescan/pathnorm"
	"github.com/volumescan/volumescan/result"
	"github.com/volumescan/volumescan/topn"
	"github.com/volumescan/volumescan/walker"
)

// openVolume is a seam over ntfs.OpenVolume so tests can substitute a
// fake backend.Storage without a real Windows volume.
var openVolume = ntfs.OpenVolume

// ProgressFunc is invoked from worker goroutines with the cumulative
// file+directory count and the path just finished. Implementations must
// be safe for concurrent use and must not block.
type ProgressFunc func(cumulativeCount uint64, currentPath string)

// ScanOptions configures a single Scan call.
type ScanOptions struct {
	Progress ProgressFunc
	// ShallowDirs reports well-known large tool/VCS directories as sized
	// leaves instead of recursing into them. DefaultOptions sets it to true.
	ShallowDirs bool
	// UseMFT requests the NTFS MFT reader when the target is a Windows
	// volume root. DefaultOptions sets it to true; ignored (falls back
	// silently, no warning) when the path is not a volume root.
	UseMFT bool
}

// DefaultOptions returns the default scan options: shallow directories
// on, MFT mode on. Scan does not fill in defaults itself; the zero
// ScanOptions value has both turned off.
func DefaultOptions() ScanOptions {
	return ScanOptions{ShallowDirs: true, UseMFT: true}
}

// Scan is the scanner's sole public entry point. It canonicalizes path,
// chooses the MFT path if requested and path is a volume root, and falls
// back to the generic walker on any MFT failure, recording the failure in
// the result's ScanWarning. usedMFT reports which path was actually
// taken.
func Scan(path string, opts ScanOptions) (res *model.ScanResult, usedMFT bool, err error) {
	start := time.Now()
	scanID := uuid.NewString()
	log := logrus.WithField("scan_id", scanID)

	normalized := pathnorm.Normalize(path)
	isRoot := pathnorm.IsVolumeRoot(normalized)

	if !isRoot {
		if _, statErr := os.Stat(normalized); statErr != nil {
			return nil, false, &ScanError{Kind: KindInvalidPath, Path: normalized, Err: statErr}
		}
	}

	if opts.UseMFT && isRoot {
		mftRes, mftErr := scanMFT(normalized, opts, log)
		if mftErr == nil {
			mftRes.ScanTimeMs = time.Since(start).Milliseconds()
			return mftRes, true, nil
		}
		log.WithError(mftErr).Warn("MFT scan failed, falling back to generic walker")

		fallback, fallbackErr := scanWalker(normalized, opts, log)
		if fallbackErr != nil {
			return nil, false, fallbackErr
		}
		fallback.ScanWarning = model.StringPtr(mftErr.Error())
		fallback.ScanTimeMs = time.Since(start).Milliseconds()
		return fallback, false, nil
	}

	res, err = scanWalker(normalized, opts, log)
	if err != nil {
		return nil, false, err
	}
	res.ScanTimeMs = time.Since(start).Milliseconds()
	return res, false, nil
}

// ScanTopFiles is the standalone top-N API (C7): an alternate terminal
// path that never builds a tree, a child index, or a recursive-size map.
// Requires a Windows volume root.
func ScanTopFiles(path string, n int, progress ProgressFunc) ([]*model.TopFileEntry, error) {
	normalized := pathnorm.Normalize(path)
	if !pathnorm.IsVolumeRoot(normalized) {
		return nil, &ScanError{Kind: KindInvalidPath, Path: normalized}
	}
	driveLetter, _ := pathnorm.DriveLetter(normalized)

	vol, err := openVolume(driveLetter)
	if err != nil {
		return nil, mftOpenError(err)
	}
	defer vol.Close()

	records, err := ntfs.ReadVolume(vol, driveLetter, func(c uint64) {
		if progress != nil {
			progress(c, normalized)
		}
	})
	if err != nil {
		return nil, mftReadError(err)
	}

	sel := topn.NewSelector(n)
	for _, r := range records {
		if r.IsDir {
			continue
		}
		sel.Push(topn.Candidate{Path: r.FullPath, Size: r.Size, Modified: r.Modified})
	}

	selected := sel.Result()
	out := make([]*model.TopFileEntry, len(selected))
	for i, c := range selected {
		out[i] = &model.TopFileEntry{Path: c.Path, Size: c.Size, Modified: c.Modified}
	}
	return out, nil
}

func scanWalker(path string, opts ScanOptions, log logrus.FieldLogger) (*model.ScanResult, error) {
	w := walker.New(walker.Options{
		ShallowDirs: opts.ShallowDirs,
		Progress: func(c uint64, p string) {
			if opts.Progress != nil {
				opts.Progress(c, p)
			}
		},
	})

	root, count, err := w.Walk(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || os.IsPermission(err) {
			return nil, &ScanError{Kind: KindPermissionDenied, Path: path, Err: err}
		}
		return nil, &ScanError{Kind: KindIo, Detail: err.Error(), Err: err}
	}

	pruned := result.PruneTree(root)
	res := &model.ScanResult{
		Root:      pruned,
		FileCount: count,
		TotalSize: root.Size,
	}

	if pathnorm.IsVolumeRoot(path) {
		if total, free, ok := result.VolumeSpace(path); ok {
			res.VolumeTotalBytes = model.Uint64Ptr(total)
			res.VolumeFreeBytes = model.Uint64Ptr(free)
		}
	}

	log.WithFields(logrus.Fields{"file_count": count, "total_size": root.Size}).Debug("walker scan complete")
	return res, nil
}

func scanMFT(path string, opts ScanOptions, log logrus.FieldLogger) (*model.ScanResult, error) {
	driveLetter, ok := pathnorm.DriveLetter(path)
	if !ok {
		return nil, &ScanError{Kind: KindInvalidPath, Path: path}
	}

	var timing ntfs.Timing
	tOpen := time.Now()
	vol, err := openVolume(driveLetter)
	timing.GetMft = time.Since(tOpen)
	if err != nil {
		return nil, mftOpenError(err)
	}
	defer vol.Close()

	t0 := time.Now()

	var enumCount uint64
	records, err := ntfs.ReadVolume(vol, driveLetter, func(c uint64) {
		enumCount = c
		if opts.Progress != nil {
			opts.Progress(c, path)
		}
	})
	timing.Iterate = time.Since(t0)
	if err != nil {
		return nil, mftReadError(err)
	}

	// indexRootPath is the bare "X:" form every MftRecord and index key uses
	// internally (see ntfs.resolvePaths). displayRootPath is the
	// canonicalized input path returned to the caller as Root.Path, per
	// spec.md §4.6 ("Root node uses the canonicalized input path as its
	// path") - it must never be the bare internal form.
	indexRootPath := fmt.Sprintf("%c:", driveLetter)
	displayRootPath := fmt.Sprintf("%c:\\", driveLetter)
	idx := ntfs.BuildIndex(records)
	recursive := ntfs.ComputeRecursiveSizes(idx, indexRootPath)

	t1 := time.Now()
	tree := ntfs.BuildTree(idx, indexRootPath, displayRootPath, recursive, opts.ShallowDirs, enumCount, func(c uint64, p string) {
		if opts.Progress != nil {
			opts.Progress(c, p)
		}
	})
	timing.BuildTree = time.Since(t1)

	if ntfs.TimingEnabled() {
		ntfs.LogTiming(log, timing)
	}

	frecords := make([]result.FileRecord, len(records))
	for i, r := range records {
		frecords[i] = result.FileRecord{Path: r.FullPath, Size: r.Size, IsDir: r.IsDir, Modified: r.Modified}
	}

	// records never holds the volume root itself (its record index is below
	// limits.FirstNormalRecord), so it is counted here separately.
	res := &model.ScanResult{
		Root:      result.PruneTree(tree),
		FileCount: uint64(len(records)) + 1,
		TotalSize: tree.Size,
		TopFiles:  result.TopFilesFromRecords(frecords),
	}
	if total, free, ok := result.VolumeSpace(path); ok {
		res.VolumeTotalBytes = model.Uint64Ptr(total)
		res.VolumeFreeBytes = model.Uint64Ptr(free)
	}

	log.WithFields(logrus.Fields{"drive": string(driveLetter), "file_count": len(records)}).Debug("mft scan complete")
	return res, nil
}

func mftOpenError(err error) error {
	var elev *ntfs.ElevationError
	if errors.As(err, &elev) {
		return &ScanError{Kind: KindElevationRequired, Err: err}
	}
	return &ScanError{Kind: KindIo, Detail: err.Error(), Err: err}
}

func mftReadError(err error) error {
	var corrupt *ntfs.CorruptionError
	if errors.As(err, &corrupt) {
		return &ScanError{Kind: KindMftCorruption, Detail: corrupt.Detail, Err: err}
	}
	var elev *ntfs.ElevationError
	if errors.As(err, &elev) {
		return &ScanError{Kind: KindElevationRequired, Err: err}
	}
	return &ScanError{Kind: KindIo, Detail: err.Error(), Err: err}
}
