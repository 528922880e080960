// Package result implements the result assembler (C8): display-tree
// pruning, the sorted top-files extraction used when a full record set is
// already in memory, and the cross-platform volume free/total bytes
// query.
package result

import (
	"sort"

	"github.com/volumescan/volumescan/limits"
	"github.com/volumescan/volumescan/model"
)

// PruneTree returns a depth-first copy of root suitable for transport: at
// depth >= limits.MaxDepthReturn children are stripped, and at every
// level children are sorted descending by size and capped at
// limits.MaxChildrenPerDirReturn before recursing. The node's own Size is
// never changed by pruning.
func PruneTree(root *model.FileNode) *model.FileNode {
	return prune(root, 0)
}

func prune(node *model.FileNode, depth int) *model.FileNode {
	pruned := &model.FileNode{
		Path:     node.Path,
		Name:     node.Name,
		Size:     node.Size,
		IsDir:    node.IsDir,
		Modified: node.Modified,
	}

	if !node.IsDir || depth >= limits.MaxDepthReturn || len(node.Children) == 0 {
		return pruned
	}

	children := make([]*model.FileNode, len(node.Children))
	copy(children, node.Children)
	sort.Slice(children, func(i, j int) bool {
		return children[i].Size > children[j].Size
	})
	if len(children) > limits.MaxChildrenPerDirReturn {
		children = children[:limits.MaxChildrenPerDirReturn]
	}

	pruned.Children = make([]*model.FileNode, len(children))
	for i, c := range children {
		pruned.Children[i] = prune(c, depth+1)
	}
	return pruned
}

// FileRecord is the minimal shape TopFilesFromRecords needs; callers
// holding ntfs.MftRecord values convert each one field by field.
type FileRecord struct {
	Path     string
	Size     uint64
	IsDir    bool
	Modified *int64
}

// TopFilesFromRecords scans records once for non-directory entries, sorts
// them descending by size, and returns the first limits.TopFilesForResult.
func TopFilesFromRecords(records []FileRecord) []*model.TopFileEntry {
	files := make([]FileRecord, 0, len(records))
	for _, r := range records {
		if !r.IsDir {
			files = append(files, r)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Size > files[j].Size })
	if len(files) > limits.TopFilesForResult {
		files = files[:limits.TopFilesForResult]
	}

	out := make([]*model.TopFileEntry, len(files))
	for i, f := range files {
		out[i] = &model.TopFileEntry{Path: f.Path, Size: f.Size, Modified: f.Modified}
	}
	return out
}
