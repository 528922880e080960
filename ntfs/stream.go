// Package ntfs implements the specialized Windows NTFS reader: boot
// sector parsing, record fixup, a producer/consumer pipeline streaming
// $MFT's $DATA attribute, the record indexer, the recursive size
// aggregator, and the MFT-backed tree builder.
package ntfs

import (
	"strings"

	"github.com/volumescan/volumescan/backend"
	"github.com/volumescan/volumescan/limits"
)

// Progress is invoked during record enumeration with the cumulative
// number of in-use records seen so far, sampled every
// limits.ProgressEvery records to amortize callback cost. May be nil.
type Progress func(cumulative uint64)

// mftMessage is the producer/consumer channel's message protocol.
// Message order is always: recordSizeMsg, bitmapMsg, volumeMsg, a single
// totalSizeMsg, then zero or more dataChunkMsgs; if the producer fails, a
// single errMsg is the last message sent.
type mftMessage interface{ isMftMessage() }

type recordSizeMsg struct{ size uint32 }
type bitmapMsg struct{ data []byte }
type volumeMsg struct{ vol backend.File }
type totalSizeMsg struct{ total uint64 }
type dataChunkMsg struct{ data []byte }
type errMsg struct{ err error }

func (recordSizeMsg) isMftMessage() {}
func (bitmapMsg) isMftMessage()     {}
func (volumeMsg) isMftMessage()     {}
func (totalSizeMsg) isMftMessage()  {}
func (dataChunkMsg) isMftMessage()  {}
func (errMsg) isMftMessage()        {}

// dataChunkSize bounds how much of a single data run is read into memory
// before being handed to the channel, keeping peak memory bounded on
// volumes with a heavily fragmented $MFT.
const dataChunkSize = 1 << 20 // 1 MiB

// ReadVolume opens and streams vol's $MFT, returning the full set of
// in-use file records under driveLetter's volume root. The producer runs
// on its own goroutine so disk I/O overlaps with this function's
// CPU-bound fixup and attribute parsing; progress is sampled every
// limits.ProgressEvery records.
func ReadVolume(vol backend.File, driveLetter byte, progress Progress) ([]MftRecord, error) {
	boot, err := ReadBootSector(vol)
	if err != nil {
		return nil, err
	}

	ch := make(chan mftMessage, 4)
	go produce(vol, boot, ch)

	var (
		recordSize uint32
		bm         *inUseBitmap
		buf        []byte
		nextIndex  int
		raws       []rawRecord
		prodErr    error
	)

	for msg := range ch {
		switch m := msg.(type) {
		case errMsg:
			prodErr = m.err
		case recordSizeMsg:
			recordSize = m.size
		case bitmapMsg:
			bm = newInUseBitmap(m.data)
		case volumeMsg:
			// The producer hands back the volume handle it owns so a
			// caller could issue further reads against it; this reader
			// has no further use for it once streaming completes.
			_ = m.vol
		case totalSizeMsg:
			// Total $DATA size is informational only; the loop below
			// stops naturally when the channel closes.
		case dataChunkMsg:
			buf = append(buf, m.data...)
			for recordSize > 0 && len(buf) >= int(recordSize) {
				rec := buf[:recordSize]
				buf = buf[recordSize:]
				idx := nextIndex
				nextIndex++

				if err := applyFixup(rec); err != nil {
					continue
				}
				if idx < limits.FirstNormalRecord {
					continue
				}
				if bm != nil {
					inUse, err := bm.IsSet(idx)
					if err != nil || !inUse {
						continue
					}
				}
				raws = append(raws, parseRecord(idx, rec))
				if progress != nil && len(raws)%limits.ProgressEvery == 0 {
					progress(uint64(len(raws)))
				}
			}
		}
	}

	if prodErr != nil {
		return nil, prodErr
	}

	records := resolvePaths(raws, driveLetter)
	filtered := records[:0]
	for _, r := range records {
		if pathUnderVolume(r.FullPath, driveLetter) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// produce reads record 0, derives $BITMAP and the $DATA data-run list,
// and streams $DATA's content in bounded chunks through ch, closing it
// when done or on the first error.
func produce(vol backend.File, boot *BootSector, ch chan<- mftMessage) {
	defer close(ch)

	record0 := make([]byte, boot.RecordSize)
	if _, err := vol.ReadAt(record0, boot.MftOffset()); err != nil {
		ch <- errMsg{err}
		return
	}
	if err := applyFixup(record0); err != nil {
		ch <- errMsg{err}
		return
	}

	bm, runs, realSize, err := extractBitmapAndDataRuns(record0)
	if err != nil {
		ch <- errMsg{err}
		return
	}

	ch <- recordSizeMsg{boot.RecordSize}
	ch <- bitmapMsg{bm}
	ch <- volumeMsg{vol}
	ch <- totalSizeMsg{realSize}

	clusterSize := boot.ClusterSize()
	var currentCluster int64
	remaining := realSize

	for _, run := range runs {
		if remaining == 0 {
			break
		}
		currentCluster += run.offsetClusters
		runBytes := uint64(run.lengthClusters) * uint64(clusterSize)
		if runBytes > remaining {
			runBytes = remaining
		}

		if run.sparse {
			remaining -= runBytes
			continue
		}

		offset := currentCluster * clusterSize
		for runBytes > 0 {
			chunkLen := uint64(dataChunkSize)
			if chunkLen > runBytes {
				chunkLen = runBytes
			}
			chunk := make([]byte, chunkLen)
			if _, err := vol.ReadAt(chunk, offset); err != nil {
				ch <- errMsg{err}
				return
			}
			ch <- dataChunkMsg{chunk}
			offset += int64(chunkLen)
			runBytes -= chunkLen
			remaining -= chunkLen
		}
	}
}

// pathUnderVolume reports whether path lexically lies under the volume
// root "X:" (ASCII, case-insensitive), guarding against a false-positive
// prefix match like "F:\foo" matching drive letter "F" but "F:bar"
// (no separator) not counting as a path under the root's subtree once
// past the bare drive spec.
func pathUnderVolume(path string, driveLetter byte) bool {
	if len(path) < 2 {
		return false
	}
	if !strings.EqualFold(path[:2], string([]byte{driveLetter, ':'})) {
		return false
	}
	if len(path) == 2 {
		return true
	}
	return path[2] == '\\'
}
