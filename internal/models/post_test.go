package models

import (
	"math"
	"testing"
)

func TestPageOffset(t *testing.T) {
	cases := []struct {
		page, limit int
		offset      int
		ok          bool
	}{
		{1, 8, 0, true},
		{3, 4, 8, true},
		{0, 8, 0, false},
		{1, 0, 0, false},
		{math.MaxInt, 8, 0, false},
		{math.MaxInt/8 + 2, 8, 0, false},
	}
	for _, c := range cases {
		got, ok := PageOffset(c.page, c.limit)
		if ok != c.ok || got != c.offset {
			t.Errorf("PageOffset(%d, %d) = %d, %v; want %d, %v", c.page, c.limit, got, ok, c.offset, c.ok)
		}
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 4, 10)
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if NewPagination(1, 8, 0).TotalPages != 0 {
		t.Error("empty result should have zero pages")
	}
}
