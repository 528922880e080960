package ntfs

import "fmt"

// CorruptionError reports an invalid record 0 signature, a fixup
// signature mismatch, or any other structural inconsistency in the MFT
// stream framing. Fatal for MFT mode; the dispatcher may fall back to the
// generic walker.
type CorruptionError struct {
	Detail string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("MFT corruption: %s", e.Detail)
}

// ElevationError reports that opening the raw volume failed because the
// process lacks the administrator privileges Windows requires for
// \\.\X: access.
type ElevationError struct {
	Drive byte
}

func (e *ElevationError) Error() string {
	return fmt.Sprintf("opening volume %c: requires elevated (admin) privileges", e.Drive)
}
