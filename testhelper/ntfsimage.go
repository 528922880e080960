package testhelper

import "encoding/binary"

// This file builds a minimal synthetic NTFS volume image in memory,
// mirroring the on-disk layout ntfs/boot.go, ntfs/fixup.go, ntfs/attrs.go,
// and ntfs/filename.go parse (boot sector fields, the FILE record header
// and update-sequence array, attribute headers, and the $FILE_NAME value),
// so packages other than ntfs itself - notably the root package's
// dispatcher tests - can exercise ntfs.ReadVolume end to end without a
// real Windows volume. The magic offsets below are the NTFS on-disk
// format's own, not anything private to the ntfs package.
const (
	ntfsAttrFileName      uint32 = 0x30
	ntfsAttrData          uint32 = 0x80
	ntfsAttrBitmap        uint32 = 0xB0
	ntfsAttrEnd           uint32 = 0xFFFFFFFF
	ntfsOffAttrOffset            = 20
	ntfsOffFlags                 = 22
	ntfsFlagIsDirectory          = 0x0002
	ntfsFiletimeEpochDiff uint64 = 116444736000000000
	ntfsRecordSize               = 512
	ntfsClusterSize              = 512
	ntfsMftCluster               = 2
	ntfsRootRecordIndex   uint64 = 5
	ntfsFirstNormalRecord        = 24
)

// NewNTFSVolume builds a tiny synthetic NTFS volume: a boot sector,
// $MFT's own record (a resident $BITMAP marking one directory and one
// file record in use, and a non-resident $DATA run covering the whole
// image), one directory record named dirName directly under the volume
// root, and one file record named fileName of fileSize bytes inside that
// directory. The returned *FileImpl satisfies backend.File and can be
// read with ntfs.ReadBootSector / ntfs.ReadVolume exactly like a real
// raw volume handle.
func NewNTFSVolume(dirName, fileName string, fileSize int) *FileImpl {
	const numRecords = ntfsFirstNormalRecord + 2 // dir + file
	const mftOffset = ntfsMftCluster * ntfsClusterSize

	boot := ntfsBootSector(ntfsClusterSize, 1, 2000, ntfsMftCluster, -9)

	image := make([]byte, mftOffset+numRecords*ntfsRecordSize)
	copy(image, boot)

	putRecord := func(idx int, rec []byte) {
		copy(image[mftOffset+idx*ntfsRecordSize:], rec)
	}

	putRecord(0, ntfsRecord0(numRecords*ntfsRecordSize))
	putRecord(ntfsFirstNormalRecord, ntfsDirRecord(ntfsRootRecordIndex, dirName))
	putRecord(ntfsFirstNormalRecord+1, ntfsFileRecord(ntfsFirstNormalRecord, fileName, fileSize))

	return NewBuffer(image)
}

func ntfsBootSector(bytesPerSector uint16, sectorsPerCluster uint8, totalSectors, mftCluster uint64, clustersPerRecord int8) []byte {
	buf := make([]byte, 512)
	copy(buf[3:7], []byte("NTFS"))
	binary.LittleEndian.PutUint16(buf[11:13], bytesPerSector)
	buf[13] = sectorsPerCluster
	binary.LittleEndian.PutUint64(buf[40:48], totalSectors)
	binary.LittleEndian.PutUint64(buf[48:56], mftCluster)
	buf[64] = byte(clustersPerRecord)
	return buf
}

func ntfsRecordHeader(isDir bool) []byte {
	h := make([]byte, 56)
	binary.LittleEndian.PutUint16(h[ntfsOffAttrOffset:ntfsOffAttrOffset+2], 56)
	if isDir {
		binary.LittleEndian.PutUint16(h[ntfsOffFlags:ntfsOffFlags+2], ntfsFlagIsDirectory)
	}
	return h
}

func ntfsFinalizeFixup(rec []byte, usaOffset uint16) {
	const signature = uint16(0xA5A5)
	copy(rec[0:4], []byte("FILE"))
	binary.LittleEndian.PutUint16(rec[4:6], usaOffset)
	binary.LittleEndian.PutUint16(rec[6:8], 2)
	restore := binary.LittleEndian.Uint16(rec[len(rec)-2 : len(rec)])
	binary.LittleEndian.PutUint16(rec[usaOffset:usaOffset+2], signature)
	binary.LittleEndian.PutUint16(rec[usaOffset+2:usaOffset+4], restore)
	binary.LittleEndian.PutUint16(rec[len(rec)-2:len(rec)], signature)
}

func ntfsAppendResidentAttr(rec []byte, attrType uint32, nameLength byte, value []byte) []byte {
	header := make([]byte, 24)
	binary.LittleEndian.PutUint32(header[0:4], attrType)
	binary.LittleEndian.PutUint32(header[4:8], uint32(24+len(value)))
	header[8] = 0
	header[9] = nameLength
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(value)))
	binary.LittleEndian.PutUint16(header[20:22], 24)
	rec = append(rec, header...)
	rec = append(rec, value...)
	return rec
}

func ntfsAppendNonResidentAttr(rec []byte, attrType uint32, realSize uint64, dataRuns []byte) []byte {
	header := make([]byte, 64)
	binary.LittleEndian.PutUint32(header[0:4], attrType)
	binary.LittleEndian.PutUint32(header[4:8], uint32(64+len(dataRuns)))
	header[8] = 1
	header[9] = 0
	binary.LittleEndian.PutUint16(header[32:34], 64)
	binary.LittleEndian.PutUint64(header[48:56], realSize)
	rec = append(rec, header...)
	rec = append(rec, dataRuns...)
	return rec
}

func ntfsAppendEndMarker(rec []byte) []byte {
	end := make([]byte, 4)
	binary.LittleEndian.PutUint32(end, ntfsAttrEnd)
	return append(rec, end...)
}

// ntfsFileNameValue encodes a resident $FILE_NAME attribute value: parent
// file reference (low 48 bits), last-modified FILETIME, and the UTF-16LE
// Win32 name.
func ntfsFileNameValue(parentRecord uint64, name string) []byte {
	u16 := make([]uint16, 0, len(name))
	for _, r := range name {
		u16 = append(u16, uint16(r))
	}
	v := make([]byte, 66+len(u16)*2)
	binary.LittleEndian.PutUint64(v[0:8], parentRecord)
	ft := uint64(1700000000)*10_000_000 + ntfsFiletimeEpochDiff
	binary.LittleEndian.PutUint64(v[16:24], ft)
	v[64] = byte(len(u16))
	v[65] = 1 // Win32 name
	for i, c := range u16 {
		binary.LittleEndian.PutUint16(v[66+i*2:68+i*2], c)
	}
	return v
}

// ntfsRecord0 builds $MFT's own record: a resident $BITMAP marking
// ntfsFirstNormalRecord and ntfsFirstNormalRecord+1 in use, and a
// non-resident $DATA whose single data run covers the whole image.
func ntfsRecord0(totalDataSize int) []byte {
	rec := ntfsRecordHeader(false)
	// bitmap byte ntfsFirstNormalRecord/8 = byte 3, bits 0 and 1 set.
	rec = ntfsAppendResidentAttr(rec, ntfsAttrBitmap, 0, []byte{0, 0, 0, 0x03})
	// single data run: length in clusters covering totalDataSize, offset
	// +mftCluster clusters (the $MFT itself starts there).
	lengthClusters := byte((totalDataSize + ntfsClusterSize - 1) / ntfsClusterSize)
	rec = ntfsAppendNonResidentAttr(rec, ntfsAttrData, uint64(totalDataSize), []byte{0x11, lengthClusters, byte(ntfsMftCluster), 0x00})
	rec = ntfsAppendEndMarker(rec)
	rec = append(rec, make([]byte, ntfsRecordSize-len(rec))...)
	ntfsFinalizeFixup(rec, 48)
	return rec
}

func ntfsDirRecord(parent uint64, name string) []byte {
	rec := ntfsRecordHeader(true)
	rec = ntfsAppendResidentAttr(rec, ntfsAttrFileName, 0, ntfsFileNameValue(parent, name))
	rec = ntfsAppendEndMarker(rec)
	rec = append(rec, make([]byte, ntfsRecordSize-len(rec))...)
	ntfsFinalizeFixup(rec, 48)
	return rec
}

func ntfsFileRecord(parent uint64, name string, size int) []byte {
	rec := ntfsRecordHeader(false)
	rec = ntfsAppendResidentAttr(rec, ntfsAttrFileName, 0, ntfsFileNameValue(parent, name))
	rec = ntfsAppendResidentAttr(rec, ntfsAttrData, 0, make([]byte, size))
	rec = ntfsAppendEndMarker(rec)
	rec = append(rec, make([]byte, ntfsRecordSize-len(rec))...)
	ntfsFinalizeFixup(rec, 48)
	return rec
}
