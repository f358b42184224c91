package ui

import (
	"testing"
)

func TestNewListStateDefaults(t *testing.T) {
	s := NewListState()
	if s.Page != 1 {
		t.Errorf("expected page 1, got %d", s.Page)
	}
	if s.Filters.PerPage != 10 {
		t.Errorf("expected default per-page 10, got %d", s.Filters.PerPage)
	}
	if s.SelectionCount() != 0 {
		t.Errorf("expected empty selection, got %d", s.SelectionCount())
	}
}

func TestFilterChangeResetsPageAndSelection(t *testing.T) {
	cases := []struct {
		name  string
		apply func(*ListState)
	}{
		{"query", func(s *ListState) { s.SetQuery("laptop") }},
		{"site", func(s *ListState) { s.SetSite("shop-a") }},
		{"per_page", func(s *ListState) { s.SetPerPage(25) }},
		{"sort", func(s *ListState) { s.ToggleSort(SortByPrice) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewListState()
			s.SetTotal(500)
			s.SetPage(4)
			s.ToggleSelect(7)
			s.ToggleSelect(12)

			tc.apply(s)

			if s.Page != 1 {
				t.Errorf("expected page reset to 1, got %d", s.Page)
			}
			if s.SelectionCount() != 0 {
				t.Errorf("expected selection cleared, got %d", s.SelectionCount())
			}
		})
	}
}

func TestUnchangedFilterDoesNotReset(t *testing.T) {
	s := NewListState()
	s.SetQuery("laptop")
	s.SetTotal(500)
	s.SetPage(3)
	s.ToggleSelect(7)

	s.SetQuery("laptop")

	if s.Page != 3 {
		t.Errorf("expected page preserved, got %d", s.Page)
	}
	if s.SelectionCount() != 1 {
		t.Errorf("expected selection preserved, got %d", s.SelectionCount())
	}
}

func TestSetPerPageRejectsInvalidValues(t *testing.T) {
	s := NewListState()
	s.SetPerPage(37)
	if s.Filters.PerPage != 10 {
		t.Errorf("expected per-page unchanged at 10, got %d", s.Filters.PerPage)
	}
}

func TestMaxPage(t *testing.T) {
	cases := []struct {
		total, perPage, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{500, 25, 20},
		{501, 50, 11},
	}
	for _, tc := range cases {
		s := NewListState()
		s.Filters.PerPage = tc.perPage
		s.Total = tc.total
		if got := s.MaxPage(); got != tc.want {
			t.Errorf("MaxPage(total=%d, per=%d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}

func TestSetPageOutOfBoundsIsNoOp(t *testing.T) {
	s := NewListState()
	s.SetTotal(45) // 5 pages at 10 per page
	s.SetPage(3)

	s.SetPage(0)
	if s.Page != 3 {
		t.Errorf("expected page unchanged at 3, got %d", s.Page)
	}
	s.SetPage(6)
	if s.Page != 3 {
		t.Errorf("expected page unchanged at 3, got %d", s.Page)
	}
	s.PrevPage()
	s.PrevPage()
	s.PrevPage() // already on page 1
	if s.Page != 1 {
		t.Errorf("expected page 1, got %d", s.Page)
	}
}

func TestPageChangeClearsSelection(t *testing.T) {
	s := NewListState()
	s.SetTotal(100)
	s.ToggleSelect(7)
	s.ToggleSelect(12)

	s.NextPage()
	if s.SelectionCount() != 0 {
		t.Errorf("expected selection cleared on page change, got %d", s.SelectionCount())
	}

	// a rejected page change keeps the selection
	s.ToggleSelect(7)
	s.SetPage(99)
	if s.SelectionCount() != 1 {
		t.Errorf("expected selection preserved on no-op, got %d", s.SelectionCount())
	}
}

func TestSetTotalPullsPageBackIntoRange(t *testing.T) {
	s := NewListState()
	s.SetTotal(100)
	s.SetPage(10)

	// listing shrank under us
	s.SetTotal(15)
	if s.Page != 2 {
		t.Errorf("expected page pulled back to 2, got %d", s.Page)
	}
}

func TestToggleSortFlipsDirection(t *testing.T) {
	s := NewListState()

	s.ToggleSort(SortByPrice)
	if s.Sort.Column != SortByPrice || s.Sort.Desc {
		t.Errorf("expected ascending price sort, got %+v", s.Sort)
	}

	s.ToggleSort(SortByPrice)
	if !s.Sort.Desc {
		t.Errorf("expected descending after second toggle, got %+v", s.Sort)
	}

	// a different column starts ascending again
	s.ToggleSort(SortByRating)
	if s.Sort.Column != SortByRating || s.Sort.Desc {
		t.Errorf("expected ascending rating sort, got %+v", s.Sort)
	}
}

func TestToggleSelect(t *testing.T) {
	s := NewListState()
	s.ToggleSelect(5)
	if !s.Selection[5] {
		t.Error("expected 5 selected")
	}
	s.ToggleSelect(5)
	if s.Selection[5] {
		t.Error("expected 5 deselected")
	}
}

func TestToggleSelectAll(t *testing.T) {
	s := NewListState()
	ids := []int{1, 2, 3}

	// none selected: select all
	s.ToggleSelectAll(ids)
	if s.SelectionCount() != 3 {
		t.Fatalf("expected 3 selected, got %d", s.SelectionCount())
	}

	// all selected: clear
	s.ToggleSelectAll(ids)
	if s.SelectionCount() != 0 {
		t.Fatalf("expected selection cleared, got %d", s.SelectionCount())
	}

	// partial selection: complete it
	s.ToggleSelect(2)
	s.ToggleSelectAll(ids)
	if s.SelectionCount() != 3 {
		t.Fatalf("expected partial selection completed, got %d", s.SelectionCount())
	}
}

func TestToggleSelectAllEmptyPage(t *testing.T) {
	s := NewListState()
	s.ToggleSelectAll(nil)
	if s.SelectionCount() != 0 {
		t.Errorf("expected no selection on empty page, got %d", s.SelectionCount())
	}
}

func TestClassifySelection(t *testing.T) {
	s := NewListState()
	ids := []int{1, 2, 3}

	if got := s.ClassifySelection(ids); got != PageSelectionNone {
		t.Errorf("expected none, got %v", got)
	}

	s.ToggleSelect(2)
	if got := s.ClassifySelection(ids); got != PageSelectionSome {
		t.Errorf("expected some, got %v", got)
	}

	s.ToggleSelect(1)
	s.ToggleSelect(3)
	if got := s.ClassifySelection(ids); got != PageSelectionAll {
		t.Errorf("expected all, got %v", got)
	}

	if got := s.ClassifySelection(nil); got != PageSelectionNone {
		t.Errorf("expected none for empty page, got %v", got)
	}
}
