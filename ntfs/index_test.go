package ntfs

import (
	"testing"

	"github.com/go-test/deep"
)

func TestBuildIndexChildrenAndDirectSizes(t *testing.T) {
	records := []MftRecord{
		{FullPath: `F:`, IsDir: true},
		{FullPath: `F:\Documents`, IsDir: true},
		{FullPath: `F:\Documents\a.txt`, Size: 100},
		{FullPath: `F:\b.txt`, Size: 50},
		{FullPath: `F:\b.txt`, Size: 25}, // a second stream/record at the same path accumulates
	}

	idx := BuildIndex(records)

	wantDirect := map[string]uint64{
		`F:`:                 0,
		`F:\Documents`:       0,
		`F:\Documents\a.txt`: 100,
		`F:\b.txt`:           75,
	}
	if diff := deep.Equal(idx.DirectSizes, wantDirect); diff != nil {
		t.Errorf("DirectSizes diff: %v", diff)
	}

	if len(idx.ChildIndex[`F:`]) != 3 {
		t.Errorf("children of F: = %d, want 3 (Documents, b.txt x2)", len(idx.ChildIndex[`F:`]))
	}
	if len(idx.ChildIndex[`F:\Documents`]) != 1 {
		t.Errorf("children of F:\\Documents = %d, want 1", len(idx.ChildIndex[`F:\Documents`]))
	}
	if _, ok := idx.ChildIndex[`F:\Documents\a.txt`]; ok {
		t.Error("a file path must not appear as a ChildIndex key")
	}
}

func TestParentOf(t *testing.T) {
	cases := []struct {
		path       string
		wantParent string
		wantOK     bool
	}{
		{`F:`, "", false},
		{`F:\a`, `F:`, true},
		{`F:\a\b`, `F:\a`, true},
		{`F:\a\`, `F:`, true},
	}
	for _, c := range cases {
		p, ok := parentOf(c.path)
		if ok != c.wantOK || p != c.wantParent {
			t.Errorf("parentOf(%q) = (%q, %v), want (%q, %v)", c.path, p, ok, c.wantParent, c.wantOK)
		}
	}
}
