package ntfs

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/volumescan/volumescan/limits"
	"github.com/volumescan/volumescan/model"
)

// TreeProgress is invoked during tree construction (C6). The first
// argument is frozen at the enumeration-phase's final count so the
// displayed total never appears to jump backward; only path changes from
// call to call.
type TreeProgress func(displayCount uint64, currentPath string)

// BuildTree assembles the bounded display tree (C6) rooted at indexRootPath
// from idx and the previously computed recursive-size map. indexRootPath is
// the bare "X:" form every MftRecord and index key uses internally;
// displayRootPath is the canonicalized input path (e.g. "X:\") that the
// returned root node's Path/Name are built from, per spec.md §4.6 ("Root
// node uses the canonicalized input path as its path"). Top-level children
// are built in parallel; deeper levels recurse sequentially within each
// parallel branch to keep contention bounded.
func BuildTree(idx *Index, indexRootPath, displayRootPath string, recursive map[string]uint64, shallowDirs bool, enumerationCount uint64, progress TreeProgress) *model.FileNode {
	pathIndex := make(map[string]int, len(idx.Records))
	for i, r := range idx.Records {
		pathIndex[r.FullPath] = i
	}

	var rootModified *int64
	if i, ok := pathIndex[indexRootPath]; ok {
		rootModified = idx.Records[i].Modified
	}

	var nodesBuilt atomic.Uint64
	children, total := buildChildren(idx, indexRootPath, 0, recursive, shallowDirs, &nodesBuilt, enumerationCount, progress)

	return &model.FileNode{
		Path:     displayRootPath,
		Name:     lastComponent(displayRootPath),
		Size:     total,
		IsDir:    true,
		Modified: rootModified,
		Children: children,
	}
}

func buildChildren(idx *Index, parentPath string, depth int, recursive map[string]uint64, shallowDirs bool, nodesBuilt *atomic.Uint64, enumerationCount uint64, progress TreeProgress) ([]*model.FileNode, uint64) {
	indices := idx.ChildIndex[parentPath]
	if len(indices) > limits.MaxChildrenPerDir {
		indices = indices[:limits.MaxChildrenPerDir]
	}

	children := make([]*model.FileNode, len(indices))

	if depth == 0 {
		var wg sync.WaitGroup
		for i, recIdx := range indices {
			wg.Add(1)
			go func(i, recIdx int) {
				defer wg.Done()
				children[i] = buildNode(idx, recIdx, depth+1, recursive, shallowDirs, nodesBuilt, enumerationCount, progress)
			}(i, recIdx)
		}
		wg.Wait()
	} else {
		for i, recIdx := range indices {
			children[i] = buildNode(idx, recIdx, depth+1, recursive, shallowDirs, nodesBuilt, enumerationCount, progress)
		}
	}

	var total uint64
	for _, c := range children {
		total = addSaturating(total, c.Size)
	}
	return children, total
}

func buildNode(idx *Index, recordIdx, depth int, recursive map[string]uint64, shallowDirs bool, nodesBuilt *atomic.Uint64, enumerationCount uint64, progress TreeProgress) *model.FileNode {
	rec := idx.Records[recordIdx]
	name := lastComponent(rec.FullPath)
	reportTreeProgress(nodesBuilt, enumerationCount, progress, rec.FullPath)

	if !rec.IsDir {
		return &model.FileNode{
			Path:     rec.FullPath,
			Name:     name,
			Size:     rec.Size,
			IsDir:    false,
			Modified: rec.Modified,
		}
	}

	if shallowDirs && limits.IsShallowDirName(name) {
		return &model.FileNode{
			Path:     rec.FullPath,
			Name:     name,
			Size:     recursive[rec.FullPath],
			IsDir:    true,
			Modified: rec.Modified,
		}
	}

	if depth >= limits.MaxDepth {
		return &model.FileNode{
			Path:     rec.FullPath,
			Name:     name,
			Size:     rec.Size,
			IsDir:    true,
			Modified: rec.Modified,
		}
	}

	children, childTotal := buildChildren(idx, rec.FullPath, depth, recursive, shallowDirs, nodesBuilt, enumerationCount, progress)
	return &model.FileNode{
		Path:     rec.FullPath,
		Name:     name,
		Size:     addSaturating(rec.Size, childTotal),
		IsDir:    true,
		Modified: rec.Modified,
		Children: children,
	}
}

func reportTreeProgress(nodesBuilt *atomic.Uint64, enumerationCount uint64, progress TreeProgress, path string) {
	if progress == nil {
		return
	}
	n := nodesBuilt.Add(1)
	if n%limits.BuildTreeProgressEvery == 0 {
		progress(enumerationCount, path)
	}
}

func lastComponent(path string) string {
	trimmed := strings.TrimSuffix(path, `\`)
	if i := strings.LastIndex(trimmed, `\`); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
