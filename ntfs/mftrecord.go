package ntfs

// MftRecord is the internal per-file record emitted by the MFT reader and
// consumed by the record indexer (C4), the size aggregator (C5), the tree
// builder (C6), and the top-N selector (C7).
//
// Invariant: the volume-root record, if present, has FullPath equal to
// "X:" after trimming.
type MftRecord struct {
	FullPath string
	Size     uint64
	IsDir    bool
	Modified *int64
}
