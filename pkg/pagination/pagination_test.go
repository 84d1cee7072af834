package pagination

import "testing"

func TestPageBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		total    int64
		offset   int
		wantPrev bool
		wantNext bool
	}{
		{name: "first of three", index: 0, total: 13, offset: 0, wantPrev: false, wantNext: true},
		{name: "middle", index: 1, total: 13, offset: 6, wantPrev: true, wantNext: true},
		{name: "last holds one", index: 2, total: 13, offset: 12, wantPrev: true, wantNext: false},
		{name: "exact fit", index: 1, total: 12, offset: 6, wantPrev: true, wantNext: false},
		{name: "empty", index: 0, total: 0, offset: 0, wantPrev: false, wantNext: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := New(tt.index, DefaultPageSize, tt.total)
			if page.Offset() != tt.offset {
				t.Fatalf("expected offset %d got %d", tt.offset, page.Offset())
			}
			if page.HasPrev() != tt.wantPrev {
				t.Fatalf("expected prev=%v", tt.wantPrev)
			}
			if page.HasNext() != tt.wantNext {
				t.Fatalf("expected next=%v", tt.wantNext)
			}
		})
	}
}

func TestNewClampsInput(t *testing.T) {
	page := New(-3, 0, -1)
	if page.Index != 0 || page.Size != DefaultPageSize || page.Total != 0 {
		t.Fatalf("unexpected clamped page %+v", page)
	}
	if NormalizeSize(1000) != MaxPageSize {
		t.Fatalf("expected size to be capped")
	}
}

func TestCount(t *testing.T) {
	if got := New(0, 6, 13).Count(); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := New(0, 6, 0).Count(); got != 1 {
		t.Fatalf("expected 1 page for empty catalog, got %d", got)
	}
}
