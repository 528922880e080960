// Package model holds the wire-level data types shared across the scanner:
// the FileNode tree, the top-N file list, and the ScanResult envelope
// returned to callers and serialized to JSON for the desktop bridge.
package model

import "encoding/json"

// FileNode is a single node in a size-annotated directory tree.
//
// Invariant: if IsDir is false, Children is always empty.
// Invariant: before display pruning, a directory's Size equals its own
// direct contribution plus the sum of its children's recursive sizes.
type FileNode struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Size     uint64      `json:"size"`
	IsDir    bool        `json:"is_dir"`
	Modified *int64      `json:"modified,omitempty"`
	Children []*FileNode `json:"children"`
}

// fileNodeAlias has FileNode's fields without its methods, so MarshalJSON
// can embed it without recursing into itself.
type fileNodeAlias FileNode

// MarshalJSON normalizes a nil Children (every leaf-node constructor in
// walker and ntfs builds a FileNode{} literal without setting Children)
// to an empty JSON array rather than null, matching spec.md §6's wire
// schema: "children (empty array when absent)".
func (n *FileNode) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []*FileNode{}
	}
	return json.Marshal(&struct {
		Children []*FileNode `json:"children"`
		*fileNodeAlias
	}{
		Children:      children,
		fileNodeAlias: (*fileNodeAlias)(n),
	})
}

// TopFileEntry is one entry of a top-N largest-files result. Never a
// directory.
type TopFileEntry struct {
	Path     string `json:"path"`
	Size     uint64 `json:"size"`
	Modified *int64 `json:"modified,omitempty"`
}

// ScanResult is the top-level envelope returned by Scan.
//
// Invariant: TotalSize equals Root.Size before display pruning.
// Invariant: FileCount counts every file and directory visited, including
// the root itself.
type ScanResult struct {
	Root             *FileNode       `json:"root"`
	ScanTimeMs       int64           `json:"scan_time_ms"`
	FileCount        uint64          `json:"file_count"`
	TotalSize        uint64          `json:"total_size"`
	ScanWarning      *string         `json:"scan_warning,omitempty"`
	VolumeTotalBytes *uint64         `json:"volume_total_bytes,omitempty"`
	VolumeFreeBytes  *uint64         `json:"volume_free_bytes,omitempty"`
	TopFiles         []*TopFileEntry `json:"top_files,omitempty"`
}

// Int64Ptr is a small convenience constructor used by components that
// build FileNode/TopFileEntry values from an optional modification time.
func Int64Ptr(v int64) *int64 {
	return &v
}

// Uint64Ptr is the analogous helper for the ScanResult's optional
// uint64-valued fields.
func Uint64Ptr(v uint64) *uint64 {
	return &v
}

// StringPtr is the analogous helper for ScanWarning.
func StringPtr(v string) *string {
	return &v
}
