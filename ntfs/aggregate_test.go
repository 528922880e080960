package ntfs

import (
	"math"
	"testing"

	"github.com/go-test/deep"
)

func TestComputeRecursiveSizesNested(t *testing.T) {
	records := []MftRecord{
		{FullPath: `F:`, IsDir: true},
		{FullPath: `F:\Documents`, IsDir: true},
		{FullPath: `F:\Documents\a.txt`, Size: 100},
		{FullPath: `F:\Documents\Sub`, IsDir: true},
		{FullPath: `F:\Documents\Sub\c.txt`, Size: 30},
		{FullPath: `F:\b.txt`, Size: 50},
	}
	idx := BuildIndex(records)
	recursive := ComputeRecursiveSizes(idx, `F:`)

	want := map[string]uint64{
		`F:`:                     180,
		`F:\Documents`:           130,
		`F:\Documents\a.txt`:     100,
		`F:\Documents\Sub`:       30,
		`F:\Documents\Sub\c.txt`: 30,
		`F:\b.txt`:               50,
	}
	if diff := deep.Equal(recursive, want); diff != nil {
		t.Errorf("recursive size diff: %v", diff)
	}
}

func TestComputeRecursiveSizesEmptyVolume(t *testing.T) {
	records := []MftRecord{{FullPath: `F:`, IsDir: true}}
	idx := BuildIndex(records)
	recursive := ComputeRecursiveSizes(idx, `F:`)
	if recursive[`F:`] != 0 {
		t.Errorf("root recursive size = %d, want 0", recursive[`F:`])
	}
}

func TestAddSaturatingClampsInsteadOfWrapping(t *testing.T) {
	got := addSaturating(math.MaxUint64-1, 10)
	if got != math.MaxUint64 {
		t.Errorf("addSaturating overflowed to %d, want clamp at MaxUint64", got)
	}
}

func TestAddSaturatingNormal(t *testing.T) {
	if got := addSaturating(3, 4); got != 7 {
		t.Errorf("addSaturating(3,4) = %d, want 7", got)
	}
}

func TestDepthOf(t *testing.T) {
	cases := []struct {
		path string
		want int
	}{
		{`F:`, 0},
		{`F:\a`, 1},
		{`F:\a\b`, 2},
		{`F:\a\b\`, 2},
	}
	for _, c := range cases {
		if got := depthOf(c.path); got != c.want {
			t.Errorf("depthOf(%q) = %d, want %d", c.path, got, c.want)
		}
	}
}
