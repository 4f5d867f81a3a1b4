package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name      string
		in        Params
		wantPage  int
		wantLimit int
	}{
		{"defaults", Params{}, 1, DefaultLimit},
		{"negative page", Params{Page: -3, Limit: 5}, 1, 5},
		{"limit capped", Params{Page: 2, Limit: 500}, 2, MaxLimit},
		{"passthrough", Params{Page: 4, Limit: 20}, 4, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
				t.Fatalf("expected page=%d limit=%d but got page=%d limit=%d",
					tc.wantPage, tc.wantLimit, got.Page, got.Limit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := Normalize(Params{Page: 3, Limit: 10})
	if got := p.Offset(); got != 20 {
		t.Fatalf("expected offset 20 but got %d", got)
	}
}

func TestMetaFor(t *testing.T) {
	meta := MetaFor(Params{Page: 2, Limit: 10}, 25)

	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages but got %d", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrev {
		t.Fatalf("expected hasNext and hasPrev for middle page, got %+v", meta)
	}

	last := MetaFor(Params{Page: 3, Limit: 10}, 25)
	if last.HasNext {
		t.Fatal("expected no next page past the last page")
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got := Slice(items, Params{Page: 2, Limit: 2})
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("unexpected page contents: %v", got)
	}

	empty := Slice(items, Params{Page: 9, Limit: 2})
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty)
	}
}
