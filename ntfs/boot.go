package ntfs

import (
	"encoding/binary"
	"fmt"

	"github.com/volumescan/volumescan/backend"
)

// BootSector holds the fields of an NTFS boot sector needed to locate and
// size $MFT records.
type BootSector struct {
	BytesPerSector       uint16
	SectorsPerCluster    uint8
	TotalSectors         uint64
	MftClusterNumber     uint64
	ClustersPerMftRecord int8

	// RecordSize is the derived size in bytes of one MFT record.
	RecordSize uint32
}

// MftOffset returns the byte offset of $MFT record 0 on the volume.
func (b *BootSector) MftOffset() int64 {
	clusterSize := int64(b.BytesPerSector) * int64(b.SectorsPerCluster)
	return int64(b.MftClusterNumber) * clusterSize
}

// ClusterSize returns the size in bytes of one cluster.
func (b *BootSector) ClusterSize() int64 {
	return int64(b.BytesPerSector) * int64(b.SectorsPerCluster)
}

// VolumeSizeBytes returns the volume size as reported by the boot sector
// itself (total sectors times sector size), independent of any OS-level
// free/total space query.
func (b *BootSector) VolumeSizeBytes() uint64 {
	return b.TotalSectors * uint64(b.BytesPerSector)
}

// ReadBootSector reads and validates the NTFS boot sector at the start of
// vol, deriving the MFT record size per the signed clusters-per-record
// convention (a negative value n means 1<<(-n) bytes).
func ReadBootSector(vol backend.File) (*BootSector, error) {
	buf := make([]byte, 512)
	if _, err := vol.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("reading boot sector: %w", err)
	}
	if string(buf[3:7]) != "NTFS" {
		return nil, &CorruptionError{Detail: "boot sector missing NTFS OEM ID"}
	}

	b := &BootSector{
		BytesPerSector:       binary.LittleEndian.Uint16(buf[11:13]),
		SectorsPerCluster:    buf[13],
		TotalSectors:         binary.LittleEndian.Uint64(buf[40:48]),
		MftClusterNumber:     binary.LittleEndian.Uint64(buf[48:56]),
		ClustersPerMftRecord: int8(buf[64]),
	}
	if b.BytesPerSector == 0 || b.SectorsPerCluster == 0 {
		return nil, &CorruptionError{Detail: "boot sector reports zero sector or cluster size"}
	}

	switch {
	case b.ClustersPerMftRecord > 0:
		b.RecordSize = uint32(b.ClustersPerMftRecord) * uint32(b.SectorsPerCluster) * uint32(b.BytesPerSector)
	case b.ClustersPerMftRecord < 0:
		b.RecordSize = 1 << uint(-b.ClustersPerMftRecord)
	default:
		return nil, &CorruptionError{Detail: "boot sector reports zero clusters per MFT record"}
	}

	return b, nil
}
