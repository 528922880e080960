package ntfs

import (
	"bytes"
	"encoding/binary"

	"github.com/sirupsen/logrus"
)

const sectorSize = 512

// applyFixup reverses the NTFS update-sequence-array integrity mechanism
// in place: the update-sequence offset and length live at bytes [4:8] of
// the record; the first two bytes of the array are a per-record signature
// that must match the last two bytes of every 512-byte sector, which are
// then replaced with the array's real per-sector value.
//
// Returns an error if the record is too short, the signature does not
// match every sector (indicating torn or corrupt data), or the record
// does not carry the "FILE" magic.
func applyFixup(record []byte) error {
	if len(record) < 8 || string(record[0:4]) != "FILE" {
		return &CorruptionError{Detail: "record missing FILE signature"}
	}

	usaOffset := binary.LittleEndian.Uint16(record[4:6])
	usaCount := binary.LittleEndian.Uint16(record[6:8])
	if usaCount == 0 {
		return &CorruptionError{Detail: "update sequence array is empty"}
	}
	usaEnd := int(usaOffset) + int(usaCount)*2
	if int(usaOffset) < 0 || usaEnd > len(record) {
		return &CorruptionError{Detail: "update sequence array exceeds record bounds"}
	}

	signature := record[usaOffset : usaOffset+2]
	numSectors := int(usaCount) - 1

	for i := 0; i < numSectors; i++ {
		sectorEnd := (i + 1) * sectorSize
		if sectorEnd > len(record) {
			break
		}
		checkPos := sectorEnd - 2
		if !bytes.Equal(record[checkPos:checkPos+2], signature) {
			return &CorruptionError{Detail: "update sequence signature mismatch" + hexDumpDetail(record)}
		}
		entryStart := int(usaOffset) + 2 + i*2
		copy(record[checkPos:checkPos+2], record[entryStart:entryStart+2])
	}

	return nil
}

// hexDumpDetail appends a hex/ASCII dump of record's first two sectors to a
// CorruptionError's detail string, but only when debug logging is enabled -
// the dump is verbose and only useful when actively diagnosing a torn or
// adversarial MFT record.
func hexDumpDetail(record []byte) string {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return ""
	}
	n := len(record)
	if n > sectorSize*2 {
		n = sectorSize * 2
	}
	return "\n" + hexDump(record[:n])
}
