package pagination

import "testing"

func TestCalculateOffset(t *testing.T) {
	tests := []struct {
		page    int
		perPage int
		want    int
	}{
		{1, 15, 0},
		{2, 15, 15},
		{3, 10, 20},
		{100, 100, 9900},
	}
	for _, tt := range tests {
		if got := CalculateOffset(tt.page, tt.perPage); got != tt.want {
			t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.perPage, got, tt.want)
		}
	}
}

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 15, 1},
		{10, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{100, 15, 7},
		{100, 100, 1},
		{101, 100, 2},
	}
	for _, tt := range tests {
		if got := CalculateTotalPages(tt.total, tt.perPage); got != tt.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}

func TestNewMetadata(t *testing.T) {
	md := NewMetadata(Params{Page: 2, PerPage: 15}, 31)
	if md.Total != 31 || md.Page != 2 || md.PerPage != 15 || md.TotalPages != 3 {
		t.Errorf("metadata = %+v", md)
	}
}
