package ntfs

import "strings"

// Index is the record indexer's output (C4): a parent-path to
// child-record-index map and a path to own-contribution size map, plus
// the dense record vector they key into.
type Index struct {
	Records     []MftRecord
	ChildIndex  map[string][]int
	DirectSizes map[string]uint64
}

// BuildIndex appends each record to a dense vector, adds its own size to
// its own path's direct contribution, and, unless it is the volume root
// itself, indexes it under its parent path (the path up to the last
// separator).
func BuildIndex(records []MftRecord) *Index {
	idx := &Index{
		Records:     records,
		ChildIndex:  make(map[string][]int),
		DirectSizes: make(map[string]uint64),
	}

	for i, r := range records {
		idx.DirectSizes[r.FullPath] = addSaturating(idx.DirectSizes[r.FullPath], r.Size)

		parent, ok := parentOf(r.FullPath)
		if !ok {
			continue // volume root: no parent to index under
		}
		idx.ChildIndex[parent] = append(idx.ChildIndex[parent], i)
	}

	return idx
}

// parentOf returns path with its final path component removed. Returns
// ok=false for a bare volume root ("X:"), which has no parent.
func parentOf(path string) (string, bool) {
	trimmed := strings.TrimSuffix(path, `\`)
	sep := strings.LastIndex(trimmed, `\`)
	if sep < 0 {
		return "", false
	}
	return trimmed[:sep], true
}
