package repository

import (
	"encoding/json"
	"testing"
)

func TestNewPageParamsDefaults(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 25, 2, 25},
		{1, 500, 1, 100},
	}

	for _, c := range cases {
		p := NewPageParams(c.page, c.limit)
		if p.Page != c.wantPage || p.Limit != c.wantLimit {
			t.Errorf("NewPageParams(%d, %d) = %+v, want page=%d limit=%d",
				c.page, c.limit, p, c.wantPage, c.wantLimit)
		}
	}
}

func TestPageParamsOffset(t *testing.T) {
	if got := NewPageParams(3, 10).Offset(); got != 20 {
		t.Errorf("offset = %d, want 20", got)
	}
	if got := NewPageParams(1, 10).Offset(); got != 0 {
		t.Errorf("offset = %d, want 0", got)
	}
}

func TestNewPageMetadata(t *testing.T) {
	// 25 items, limit 10 → 3 pages
	p1 := NewPage(make([]int, 10), 25, NewPageParams(1, 10), "")
	if p1.TotalPages != 3 || !p1.HasNextPage || p1.HasPrevPage {
		t.Errorf("page 1 metadata = %+v", p1)
	}

	p3 := NewPage(make([]int, 5), 25, NewPageParams(3, 10), "")
	if p3.HasNextPage || !p3.HasPrevPage {
		t.Errorf("page 3 metadata = %+v", p3)
	}
}

func TestNewPageBeyondEnd(t *testing.T) {
	p := NewPage([]int{}, 25, NewPageParams(9, 10), "")
	if len(p.Items) != 0 {
		t.Error("expected empty items")
	}
	if p.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", p.TotalPages)
	}
	if p.HasNextPage {
		t.Error("hasNextPage should be false past the end")
	}
	if p.TotalDocs != 25 {
		t.Errorf("totalDocs = %d, want 25", p.TotalDocs)
	}
}

func TestNewPageEmptySet(t *testing.T) {
	p := NewPage([]int{}, 0, NewPageParams(1, 10), "")
	if p.TotalPages != 0 || p.HasNextPage || p.HasPrevPage {
		t.Errorf("empty-set metadata = %+v", p)
	}

	// hasPrevPage depends on the page number alone, even when the set
	// emptied out between requests.
	p2 := NewPage([]int{}, 0, NewPageParams(2, 10), "")
	if !p2.HasPrevPage {
		t.Errorf("page 2 of an empty set must report hasPrevPage: %+v", p2)
	}
}

func TestPageMarshalLabel(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 2, NewPageParams(1, 10), "videos")

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["videos"]; !ok {
		t.Errorf("items not under custom label: %s", raw)
	}
	if _, ok := out["docs"]; ok {
		t.Error("default label present alongside custom label")
	}
	if _, ok := out["totalDocs"]; !ok {
		t.Error("totalDocs missing")
	}
}

func TestPageMarshalNilItems(t *testing.T) {
	p := Page[int]{Page: 1, Limit: 10}
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["docs"].([]any); !ok {
		t.Errorf("nil items should marshal as [], got %v", out["docs"])
	}
}
