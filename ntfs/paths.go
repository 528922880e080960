package ntfs

import "fmt"

// rootRecordIndex is the well-known MFT record index of the volume's root
// directory ("." in NTFS terms).
const rootRecordIndex = 5

// resolvePaths rewrites each rawRecord's parent-chain into a full
// "X:\a\b" path, memoizing already-resolved ancestors and guarding against
// reference cycles the same way a corrupted or adversarial MFT might
// produce. Records whose ancestry cannot be resolved (missing parent,
// cycle) are dropped.
func resolvePaths(records []rawRecord, driveLetter byte) []MftRecord {
	byIndex := make(map[int]*rawRecord, len(records))
	for i := range records {
		byIndex[records[i].index] = &records[i]
	}

	rootPath := fmt.Sprintf("%c:", driveLetter)
	cache := map[int]string{rootRecordIndex: rootPath}

	var resolve func(idx int, visited map[int]bool) (string, bool)
	resolve = func(idx int, visited map[int]bool) (string, bool) {
		if p, ok := cache[idx]; ok {
			return p, true
		}
		if visited[idx] {
			return "", false
		}
		r, ok := byIndex[idx]
		if !ok || !r.hasName {
			return "", false
		}
		visited[idx] = true
		parentPath, ok := resolve(r.parentRecord, visited)
		if !ok {
			return "", false
		}
		full := parentPath + `\` + r.name
		cache[idx] = full
		return full, true
	}

	out := make([]MftRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		var path string
		if r.index == rootRecordIndex {
			path = rootPath
		} else {
			if !r.hasName {
				continue
			}
			p, ok := resolve(r.index, map[int]bool{})
			if !ok {
				continue
			}
			path = p
		}

		rec := MftRecord{
			FullPath: path,
			Size:     r.size,
			IsDir:    r.isDir || r.index == rootRecordIndex,
		}
		if r.hasModified {
			rec.Modified = int64Ptr(r.modified)
		}
		out = append(out, rec)
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }
