package ntfs

import (
	"testing"

	"github.com/go-test/deep"
)

func TestResolvePathsNestedAndRoot(t *testing.T) {
	records := []rawRecord{
		{index: 5, isDir: true, hasName: false},
		{index: 24, isDir: true, hasName: true, name: "Documents", parentRecord: 5},
		{index: 25, isDir: false, hasName: true, name: "a.txt", parentRecord: 24, size: 100},
		{index: 26, isDir: false, hasName: true, name: "b.txt", parentRecord: 5, size: 50},
	}

	got := resolvePaths(records, 'F')

	want := []MftRecord{
		{FullPath: `F:`, Size: 0, IsDir: true},
		{FullPath: `F:\Documents`, Size: 0, IsDir: true},
		{FullPath: `F:\Documents\a.txt`, Size: 100, IsDir: false},
		{FullPath: `F:\b.txt`, Size: 50, IsDir: false},
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("resolvePaths diff: %v", diff)
	}
}

func TestResolvePathsDropsCycle(t *testing.T) {
	records := []rawRecord{
		{index: 100, isDir: true, hasName: true, name: "a", parentRecord: 101},
		{index: 101, isDir: true, hasName: true, name: "b", parentRecord: 100},
	}
	got := resolvePaths(records, 'F')
	if len(got) != 0 {
		t.Errorf("got %d records, want 0 (cyclic ancestry must be dropped)", len(got))
	}
}

func TestResolvePathsDropsMissingParent(t *testing.T) {
	records := []rawRecord{
		{index: 30, isDir: false, hasName: true, name: "orphan.txt", parentRecord: 999},
	}
	got := resolvePaths(records, 'F')
	if len(got) != 0 {
		t.Errorf("got %d records, want 0 (missing parent must be dropped)", len(got))
	}
}

func TestResolvePathsDropsNoName(t *testing.T) {
	records := []rawRecord{
		{index: 30, isDir: false, hasName: false, parentRecord: 5},
	}
	got := resolvePaths(records, 'F')
	if len(got) != 0 {
		t.Errorf("got %d records, want 0 (record without a resolved $FILE_NAME must be dropped)", len(got))
	}
}

func TestPathUnderVolume(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{`F:`, true},
		{`F:\Documents`, true},
		{`f:\documents`, true},
		{`F:bar`, false},
		{`G:\x`, false},
		{`F`, false},
	}
	for _, c := range cases {
		if got := pathUnderVolume(c.path, 'F'); got != c.want {
			t.Errorf("pathUnderVolume(%q, 'F') = %v, want %v", c.path, got, c.want)
		}
	}
}
