package ntfs

import (
	"encoding/binary"
	"testing"

	"github.com/volumescan/volumescan/testhelper"
)

// buildMftHeader returns a 56-byte record header whose offAttrOffset field
// points right after itself, optionally carrying the directory flag.
func buildMftHeader(isDir bool) []byte {
	h := make([]byte, 56)
	binary.LittleEndian.PutUint16(h[offAttrOffset:offAttrOffset+2], 56)
	if isDir {
		binary.LittleEndian.PutUint16(h[offFlags:offFlags+2], flagIsDirectory)
	}
	return h
}

// finalizeFixup stamps a full recordSize-byte record with a valid "FILE"
// signature and a single-sector update-sequence array at usaOffset,
// preserving whatever already occupied the sector's last two bytes.
func finalizeFixup(rec []byte, usaOffset uint16) {
	const signature = uint16(0xA5A5)
	copy(rec[0:4], []byte("FILE"))
	binary.LittleEndian.PutUint16(rec[4:6], usaOffset)
	binary.LittleEndian.PutUint16(rec[6:8], 2)
	restore := binary.LittleEndian.Uint16(rec[len(rec)-2 : len(rec)])
	binary.LittleEndian.PutUint16(rec[usaOffset:usaOffset+2], signature)
	binary.LittleEndian.PutUint16(rec[usaOffset+2:usaOffset+4], restore)
	binary.LittleEndian.PutUint16(rec[len(rec)-2:len(rec)], signature)
}

// buildNtfsRecord0 builds $MFT's own record: a resident $BITMAP marking
// records 24-26 in use, and a non-resident $DATA whose single data run
// covers the whole synthetic image's 27 records.
func buildNtfsRecord0(t *testing.T, recordSize int) []byte {
	t.Helper()
	rec := buildMftHeader(false)
	rec = appendResidentAttr(rec, 0xB0, 0, []byte{0, 0, 0, 0x07})
	rec = appendNonResidentAttr(rec, attrData, uint64(27*recordSize), []byte{0x11, 0x1B, 0x02, 0x00})
	rec = appendEndMarker(rec)
	rec = append(rec, make([]byte, recordSize-len(rec))...)
	finalizeFixup(rec, 48)
	return rec
}

func buildNtfsDirRecord(t *testing.T, recordSize int, parent uint64, name string) []byte {
	t.Helper()
	rec := buildMftHeader(true)
	rec = appendResidentAttr(rec, attrFileName, 0, buildFileNameValue(t, parent, name, 1, 1700000000))
	rec = appendEndMarker(rec)
	rec = append(rec, make([]byte, recordSize-len(rec))...)
	finalizeFixup(rec, 48)
	return rec
}

func buildNtfsFileRecord(t *testing.T, recordSize int, parent uint64, name string, size int) []byte {
	t.Helper()
	rec := buildMftHeader(false)
	rec = appendResidentAttr(rec, attrFileName, 0, buildFileNameValue(t, parent, name, 1, 1700000000))
	rec = appendResidentAttr(rec, attrData, 0, make([]byte, size))
	rec = appendEndMarker(rec)
	rec = append(rec, make([]byte, recordSize-len(rec))...)
	finalizeFixup(rec, 48)
	return rec
}

// TestReadVolumeEndToEnd builds a minimal synthetic NTFS volume image in
// memory - boot sector, a 27-record $MFT whose own record carries the
// $BITMAP and $DATA attributes needed to stream it, and three real records
// (a directory and two files) - and checks the full producer/consumer
// pipeline resolves them to the expected paths and sizes.
func TestReadVolumeEndToEnd(t *testing.T) {
	const recordSize = 512
	const clusterSize = 512
	const mftCluster = 2
	const mftOffset = mftCluster * clusterSize
	const numRecords = 27

	boot := buildBootSector(clusterSize, 1, 200, mftCluster, -9)

	image := make([]byte, mftOffset+numRecords*recordSize)
	copy(image, boot)

	putRecord := func(idx int, rec []byte) {
		copy(image[mftOffset+idx*recordSize:], rec)
	}

	putRecord(0, buildNtfsRecord0(t, recordSize))
	// Records 1-23 stay zero-filled: they lack the "FILE" signature, fail
	// fixup, and are skipped before the in-use bitmap is even consulted.
	putRecord(24, buildNtfsDirRecord(t, recordSize, 5, "Documents"))
	putRecord(25, buildNtfsFileRecord(t, recordSize, 24, "a.txt", 100))
	putRecord(26, buildNtfsFileRecord(t, recordSize, 5, "b.txt", 50))

	vol := testhelper.NewBuffer(image)

	var sampled []uint64
	progress := func(cumulative uint64) { sampled = append(sampled, cumulative) }

	records, err := ReadVolume(vol, 'F', progress)
	if err != nil {
		t.Fatalf("ReadVolume: %v", err)
	}

	got := make(map[string]MftRecord, len(records))
	for _, r := range records {
		got[r.FullPath] = r
	}
	if len(got) != 3 {
		t.Fatalf("got %d resolved records, want 3: %+v", len(got), records)
	}

	if doc, ok := got[`F:\Documents`]; !ok || !doc.IsDir {
		t.Errorf(`F:\Documents = %+v, ok=%v, want a directory`, doc, ok)
	}
	if a, ok := got[`F:\Documents\a.txt`]; !ok || a.IsDir || a.Size != 100 {
		t.Errorf(`F:\Documents\a.txt = %+v, ok=%v, want file size 100`, a, ok)
	}
	if b, ok := got[`F:\b.txt`]; !ok || b.IsDir || b.Size != 50 {
		t.Errorf(`F:\b.txt = %+v, ok=%v, want file size 50`, b, ok)
	}
}

func TestReadVolumeBadBootSector(t *testing.T) {
	vol := testhelper.NewBuffer(make([]byte, 512))
	if _, err := ReadVolume(vol, 'F', nil); err == nil {
		t.Fatal("expected error for a volume with no NTFS boot sector")
	}
}

func TestReadVolumeCorruptRecord0(t *testing.T) {
	const clusterSize = 512
	const mftCluster = 2
	boot := buildBootSector(clusterSize, 1, 200, mftCluster, -9)
	image := make([]byte, mftCluster*clusterSize+512)
	copy(image, boot)
	// Record 0 left zero-filled: no "FILE" signature, so applyFixup fails
	// before $BITMAP/$DATA can even be found.
	vol := testhelper.NewBuffer(image)
	if _, err := ReadVolume(vol, 'F', nil); err == nil {
		t.Fatal("expected error when $MFT's own record fails fixup")
	}
}
