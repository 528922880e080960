package ntfs

import "encoding/binary"

// rawRecord is a single fixed-up MFT record's fields before full-path
// resolution (which requires every record's parent to be known).
type rawRecord struct {
	index        int
	isDir        bool
	size         uint64
	modified     int64
	hasModified  bool
	name         string
	hasName      bool
	parentRecord int
}

// parseRecord extracts the is-directory flag, the preferred $FILE_NAME
// (Win32 over POSIX, never a DOS short name), and the unnamed $DATA
// attribute's size from a fixed-up MFT record.
func parseRecord(index int, record []byte) rawRecord {
	r := rawRecord{index: index}

	if len(record) > offFlags+2 {
		flags := binary.LittleEndian.Uint16(record[offFlags : offFlags+2])
		r.isDir = flags&flagIsDirectory != 0
	}

	bestNameType := -1
	walkAttributes(record, func(a attribute) bool {
		switch a.attrType {
		case attrFileName:
			if a.nonResident || a.resident == nil {
				return true
			}
			fn, ok := parseFileNameAttr(a.resident)
			if !ok {
				return true
			}
			// Prefer Win32 (1) and Win32&DOS (3) names over POSIX (0);
			// DOS-only (2) was already excluded by parseFileNameAttr.
			priority := namePriority(fn.nameType)
			if priority > bestNameType {
				bestNameType = priority
				r.name = fn.name
				r.hasName = true
				r.parentRecord = int(fn.parentRecord)
				r.modified = fn.modified
				r.hasModified = true
			}
		case attrData:
			if a.nameLength != 0 {
				return true // alternate data stream, not the primary size
			}
			if a.nonResident {
				r.size = a.realSize
			} else if a.resident != nil {
				r.size = uint64(len(a.resident))
			}
		}
		return true
	})

	return r
}

func namePriority(nameType byte) int {
	switch nameType {
	case 1: // Win32
		return 2
	case 3: // Win32 & DOS
		return 1
	default: // POSIX
		return 0
	}
}

// extractBitmapAndDataRuns scans record 0 (already fixed up) for the
// resident $BITMAP attribute value and the $DATA attribute's data-run
// stream plus real size, which the producer needs to stream $MFT's
// contents.
func extractBitmapAndDataRuns(record []byte) (bitmap []byte, dataRuns []dataRun, dataRealSize uint64, err error) {
	found := false
	walkAttributes(record, func(a attribute) bool {
		switch a.attrType {
		case 0xB0: // $BITMAP
			if !a.nonResident && a.resident != nil {
				bitmap = append([]byte(nil), a.resident...)
			}
		case attrData:
			if a.nameLength != 0 {
				return true
			}
			found = true
			dataRealSize = a.realSize
			if a.nonResident {
				dataRuns = parseDataRuns(record, a.dataRunsOff)
			}
		}
		return true
	})
	if !found {
		return nil, nil, 0, &CorruptionError{Detail: "record 0 has no unnamed $DATA attribute"}
	}
	return bitmap, dataRuns, dataRealSize, nil
}
