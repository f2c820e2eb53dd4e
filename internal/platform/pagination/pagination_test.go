package pagination

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name       string
		limit      int32
		offset     int32
		wantLimit  int32
		wantOffset int32
	}{
		{"zero limit defaults", 0, 0, 20, 0},
		{"negative limit defaults", -5, 10, 20, 10},
		{"limit above max capped", 500, 40, 100, 40},
		{"limit at max kept", 100, 0, 100, 0},
		{"in-range values kept", 50, 30, 50, 30},
		{"negative offset zeroed", 20, -1, 20, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := Clamp(tc.limit, tc.offset)
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("Clamp(%d, %d) = (%d, %d), want (%d, %d)",
					tc.limit, tc.offset, limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
