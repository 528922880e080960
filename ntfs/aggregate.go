package ntfs

import (
	"math"
	"sort"
	"strings"
)

// addSaturating adds a and b, clamping to the maximum uint64 value
// instead of wrapping, so a malformed or adversarial MFT record cannot
// make an aggregate size appear smaller than it is.
func addSaturating(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

// ComputeRecursiveSizes computes the recursive-size map (C5) in a single
// reverse-depth pass: every unique directory path (the child-index's keys
// plus the synthetic volume root) is visited deepest-first, so
// recursive[p] = direct[p] + sum(recursive[c] for c in children(p)) always
// finds its children's terms already populated.
func ComputeRecursiveSizes(idx *Index, rootPath string) map[string]uint64 {
	recursive := make(map[string]uint64, len(idx.DirectSizes))
	for p, v := range idx.DirectSizes {
		recursive[p] = v
	}

	dirs := make([]string, 0, len(idx.ChildIndex)+1)
	for p := range idx.ChildIndex {
		dirs = append(dirs, p)
	}
	if _, ok := idx.ChildIndex[rootPath]; !ok {
		dirs = append(dirs, rootPath)
	}
	sort.Slice(dirs, func(i, j int) bool {
		return depthOf(dirs[i]) > depthOf(dirs[j])
	})

	for _, dir := range dirs {
		var childSum uint64
		for _, childIdx := range idx.ChildIndex[dir] {
			childSum = addSaturating(childSum, recursive[idx.Records[childIdx].FullPath])
		}
		recursive[dir] = addSaturating(recursive[dir], childSum)
	}

	return recursive
}

func depthOf(path string) int {
	return strings.Count(strings.TrimSuffix(path, `\`), `\`)
}
