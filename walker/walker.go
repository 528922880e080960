// Package walker implements the generic parallel directory walker (C2): a
// goroutine-per-directory traversal bounded by depth and fan-out caps, with
// a "shallow directory" shortcut for well-known large tool/VCS directories
// and a synthetic node for permission-denied subtrees.
package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	times "gopkg.in/djherbis/times.v1"

	"github.com/volumescan/volumescan/limits"
	"github.com/volumescan/volumescan/model"
)

// noPermissionMarker is appended to the name of a directory node whose
// contents could not be listed because of a permission error.
const noPermissionMarker = " [无权限]"

// Progress is invoked from worker goroutines after each directory finishes
// processing. Implementations must be safe for concurrent use and must not
// block.
type Progress func(cumulativeCount uint64, currentPath string)

// Options configures a single walk.
type Options struct {
	// ShallowDirs, when true, reports directories matching limits.ShallowDirNames
	// as childless sized leaves instead of recursing into them.
	ShallowDirs bool
	// Progress receives cumulative-count/current-path updates. May be nil.
	Progress Progress
}

// Walker runs one walk and owns the semaphore bounding directory-goroutine
// fan-out across the whole traversal.
type Walker struct {
	opts  Options
	sem   chan struct{}
	count atomic.Uint64
}

// New returns a Walker configured by opts.
func New(opts Options) *Walker {
	numWorkers := runtime.NumCPU() * 32
	if numWorkers < 256 {
		numWorkers = 256
	}
	return &Walker{
		opts: opts,
		sem:  make(chan struct{}, numWorkers),
	}
}

// Walk traverses the tree rooted at rootPath and returns its FileNode plus
// the total number of filesystem entries visited (including the root
// itself). A permission error on the root path itself is fatal; all other
// permission errors encountered deeper in the tree are recovered as
// synthetic nodes. Any non-permission I/O error aborts the walk.
func (w *Walker) Walk(rootPath string) (*model.FileNode, uint64, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, 0, err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return nil, 0, err
	}
	node, err := w.visit(abs, filepath.Base(abs), info, 0, true)
	if err != nil {
		return nil, 0, err
	}
	return node, w.count.Load(), nil
}

func (w *Walker) visit(path, name string, info fs.FileInfo, depth int, isRoot bool) (*model.FileNode, error) {
	w.count.Add(1)

	if !info.IsDir() {
		return &model.FileNode{
			Path:     path,
			Name:     name,
			Size:     uint64(info.Size()),
			IsDir:    false,
			Modified: modifiedOf(path, info),
		}, nil
	}

	if w.opts.ShallowDirs && limits.IsShallowDirName(name) {
		size, visited := dirSizeOnly(path)
		w.count.Add(visited)
		node := &model.FileNode{
			Path:     path,
			Name:     name,
			Size:     size,
			IsDir:    true,
			Modified: modifiedOf(path, info),
		}
		w.reportProgress(path)
		return node, nil
	}

	if depth >= limits.MaxDepth {
		node := &model.FileNode{
			Path:     path,
			Name:     name,
			Size:     0,
			IsDir:    true,
			Modified: modifiedOf(path, info),
		}
		w.reportProgress(path)
		return node, nil
	}

	entries, err := readDirEntries(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || os.IsPermission(err) {
			if isRoot {
				return nil, err
			}
			node := &model.FileNode{
				Path:  path,
				Name:  name + noPermissionMarker,
				Size:  0,
				IsDir: true,
			}
			w.reportProgress(path)
			return node, nil
		}
		return nil, err
	}

	sortEntries(entries)
	if len(entries) > limits.MaxChildrenPerDir {
		entries = entries[:limits.MaxChildrenPerDir]
	}

	children := make([]*model.FileNode, len(entries))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		total    uint64
	)

	numChunks := 8
	if len(entries) < 32 {
		numChunks = 1
	}
	chunkSize := (len(entries) + numChunks - 1) / numChunks
	if chunkSize == 0 {
		chunkSize = 1
	}

	for start := 0; start < len(entries); start += chunkSize {
		end := start + chunkSize
		if end > len(entries) {
			end = len(entries)
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			var localTotal uint64
			for i := s; i < e; i++ {
				entry := entries[i]
				childPath := filepath.Join(path, entry.Name())
				childInfo, err := entry.Info()
				if err != nil {
					if errors.Is(err, fs.ErrPermission) {
						w.count.Add(1)
						children[i] = &model.FileNode{
							Path:  childPath,
							Name:  entry.Name() + noPermissionMarker,
							IsDir: entry.IsDir(),
						}
						continue
					}
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				var child *model.FileNode
				if entry.IsDir() {
					w.sem <- struct{}{}
					child, err = w.visit(childPath, entry.Name(), childInfo, depth+1, false)
					<-w.sem
				} else {
					child, err = w.visit(childPath, entry.Name(), childInfo, depth+1, false)
				}
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				children[i] = child
				localTotal += child.Size
			}
			atomic.AddUint64(&total, localTotal)
		}(start, end)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	node := &model.FileNode{
		Path:     path,
		Name:     name,
		Size:     total,
		IsDir:    true,
		Modified: modifiedOf(path, info),
		Children: children,
	}
	w.reportProgress(path)
	return node, nil
}

func (w *Walker) reportProgress(path string) {
	if w.opts.Progress == nil {
		return
	}
	w.opts.Progress(w.count.Load(), path)
}

// readDirEntries bypasses os.ReadDir's mandatory sort since this package
// applies its own directories-first ordering afterward.
func readDirEntries(path string) ([]fs.DirEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

// sortEntries orders directories before files, then lexicographically by
// name within each group, matching the walker's documented sibling order.
func sortEntries(entries []fs.DirEntry) {
	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})
}

// dirSizeOnly computes the total size and entry count of path's subtree
// without materializing any FileNode, for the shallow-directory shortcut.
// Symlinks are not followed, matching filepath.WalkDir's own behavior of
// treating them as leaves.
func dirSizeOnly(path string) (size uint64, count uint64) {
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries; best effort only.
			return nil
		}
		if p == path {
			// The shallow directory itself is already counted by the
			// caller; only its descendants are new here.
			return nil
		}
		count++
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size += uint64(info.Size())
		return nil
	})
	return size, count
}

func modifiedOf(path string, fallback fs.FileInfo) *int64 {
	t, err := times.Stat(path)
	if err != nil {
		return model.Int64Ptr(fallback.ModTime().Unix())
	}
	return model.Int64Ptr(t.ModTime().Unix())
}
