package ntfs

import (
	"encoding/binary"
	"unicode/utf16"
)

// nameTypeDOS is the $FILE_NAME name-type value for a generated 8.3 short
// name; such attributes are skipped in favor of the Win32 (long) name.
const nameTypeDOS = 2

// fileNameAttr is the decoded value of a resident $FILE_NAME attribute.
type fileNameAttr struct {
	parentRecord uint64 // low 48 bits of the parent file reference
	name         string
	nameType     byte
	modified     int64 // unix seconds
}

// parseFileNameAttr decodes a $FILE_NAME attribute's resident value.
// Returns ok=false if the value is too short or carries a DOS short name.
func parseFileNameAttr(value []byte) (fileNameAttr, bool) {
	if len(value) < 66 {
		return fileNameAttr{}, false
	}
	parentRef := binary.LittleEndian.Uint64(value[0:8])
	mtimeFiletime := binary.LittleEndian.Uint64(value[16:24])
	nameLength := int(value[64])
	nameType := value[65]
	if nameType == nameTypeDOS {
		return fileNameAttr{}, false
	}
	nameStart := 66
	nameEnd := nameStart + nameLength*2
	if nameEnd > len(value) {
		return fileNameAttr{}, false
	}

	return fileNameAttr{
		parentRecord: parentRef & 0x0000FFFFFFFFFFFF,
		name:         decodeUTF16(value[nameStart:nameEnd]),
		nameType:     nameType,
		modified:     filetimeToUnix(mtimeFiletime),
	}, true
}

func decodeUTF16(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	u16 := make([]uint16, len(b)/2)
	for i := range u16 {
		u16[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
	}
	return string(utf16.Decode(u16))
}

// filetimeEpochDiff is the number of 100-nanosecond intervals between the
// Windows FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDiff = 116444736000000000

func filetimeToUnix(ft uint64) int64 {
	if ft < filetimeEpochDiff {
		return 0
	}
	return int64((ft - filetimeEpochDiff) / 10_000_000)
}
