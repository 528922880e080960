package topn

import "testing"

func TestSelectTopSortedDescending(t *testing.T) {
	candidates := []Candidate{
		{Path: "a", Size: 10},
		{Path: "b", Size: 500},
		{Path: "c", Size: 5},
		{Path: "d", Size: 250},
		{Path: "e", Size: 1000},
	}
	got := SelectTop(candidates, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantSizes := []uint64{1000, 500, 250}
	for i, w := range wantSizes {
		if got[i].Size != w {
			t.Errorf("got[%d].Size = %d, want %d", i, got[i].Size, w)
		}
	}
}

func TestSelectTopMonotoneLength(t *testing.T) {
	candidates := []Candidate{{Path: "a", Size: 1}, {Path: "b", Size: 2}}
	got := SelectTop(candidates, 100)
	if len(got) != len(candidates) {
		t.Errorf("len = %d, want min(N, available) = %d", len(got), len(candidates))
	}
}

func TestSelectTopEmpty(t *testing.T) {
	got := SelectTop(nil, 10)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
