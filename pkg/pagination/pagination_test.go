package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in, fallback, want int
	}{
		{0, DefaultLimit, 20},
		{-3, DefaultAdminLimit, 50},
		{10, DefaultLimit, 10},
		{500, DefaultLimit, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in, tc.fallback); got != tc.want {
			t.Fatalf("NormalizeLimit(%d, %d) = %d want %d", tc.in, tc.fallback, got, tc.want)
		}
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(45, Params{Limit: 20, Offset: 20})
	if meta.Page != 2 || meta.TotalPages != 3 || !meta.HasMore {
		t.Fatalf("unexpected meta %+v", meta)
	}

	last := NewMeta(45, Params{Limit: 20, Offset: 40})
	if last.Page != 3 || last.HasMore {
		t.Fatalf("unexpected last page meta %+v", last)
	}

	empty := NewMeta(0, Params{Limit: 20})
	if empty.TotalPages != 0 || empty.HasMore || empty.Page != 1 {
		t.Fatalf("unexpected empty meta %+v", empty)
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{Limit: 0, Offset: -5}.Normalize(DefaultAdminLimit)
	if p.Limit != DefaultAdminLimit || p.Offset != 0 {
		t.Fatalf("unexpected params %+v", p)
	}
}
