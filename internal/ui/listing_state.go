package ui

// listing_state.go is the pure state behind the product listing page.
// It owns filters, sort, pagination and row selection, and enforces their
// invariants; the tea model renders from it and never mutates the fields
// directly.

// Sort columns accepted by the backend listing endpoint.
const (
	SortByTitle     = "title"
	SortBySite      = "site_name"
	SortByPrice     = "last_price"
	SortByRating    = "rating"
	SortByRatings   = "ratings_count"
	SortByFirstSeen = "first_seen_at"
	SortByLastSeen  = "last_seen_at"
)

// SortColumns is the ordered set of sortable columns, matching the table
// column order so number keys map onto them.
var SortColumns = []string{
	SortByTitle,
	SortBySite,
	SortByPrice,
	SortByRating,
	SortByRatings,
	SortByFirstSeen,
	SortByLastSeen,
}

// PerPageChoices are the allowed page sizes.
var PerPageChoices = []int{10, 25, 50}

// Filters narrows the listing. An empty field means no filtering on it.
type Filters struct {
	Q       string
	Site    string
	PerPage int
}

// Sort is the single sort order applied to the listing. An empty Column
// means backend default order.
type Sort struct {
	Column string
	Desc   bool
}

// ListState holds everything the listing page remembers between fetches.
// Any change to filters or sort resets to page 1 and clears the selection,
// because row identities on the current page are no longer meaningful.
type ListState struct {
	Filters   Filters
	Sort      Sort
	Page      int
	Total     int
	Selection map[int]bool
}

// NewListState returns a state on page 1 with the default page size.
func NewListState() *ListState {
	return &ListState{
		Filters:   Filters{PerPage: PerPageChoices[0]},
		Page:      1,
		Selection: make(map[int]bool),
	}
}

// MaxPage returns the last valid page for the last known total. An empty
// listing still has one (empty) page.
func (s *ListState) MaxPage() int {
	if s.Total <= 0 || s.Filters.PerPage <= 0 {
		return 1
	}
	pages := (s.Total + s.Filters.PerPage - 1) / s.Filters.PerPage
	if pages < 1 {
		return 1
	}
	return pages
}

func (s *ListState) reset() {
	s.Page = 1
	s.Selection = make(map[int]bool)
}

// SetQuery changes the search text. No-op when unchanged.
func (s *ListState) SetQuery(q string) {
	if s.Filters.Q == q {
		return
	}
	s.Filters.Q = q
	s.reset()
}

// SetSite changes the site filter. No-op when unchanged.
func (s *ListState) SetSite(site string) {
	if s.Filters.Site == site {
		return
	}
	s.Filters.Site = site
	s.reset()
}

// SetPerPage changes the page size. Values outside PerPageChoices are
// ignored.
func (s *ListState) SetPerPage(n int) {
	valid := false
	for _, c := range PerPageChoices {
		if c == n {
			valid = true
			break
		}
	}
	if !valid || s.Filters.PerPage == n {
		return
	}
	s.Filters.PerPage = n
	s.reset()
}

// ToggleSort sorts by the given column. Re-sorting the current column flips
// direction; a new column starts ascending.
func (s *ListState) ToggleSort(column string) {
	if s.Sort.Column == column {
		s.Sort.Desc = !s.Sort.Desc
	} else {
		s.Sort = Sort{Column: column}
	}
	s.reset()
}

// ClearSort removes the sort and returns to backend default order.
func (s *ListState) ClearSort() {
	if s.Sort.Column == "" {
		return
	}
	s.Sort = Sort{}
	s.reset()
}

// SetPage moves to the given page and clears the selection, since the rows
// it referred to are no longer on screen. Out-of-range pages are a no-op,
// the state-level form of disabled Prev/Next buttons at the bounds.
func (s *ListState) SetPage(page int) {
	if page == s.Page || page < 1 || page > s.MaxPage() {
		return
	}
	s.Page = page
	s.Selection = make(map[int]bool)
}

// NextPage and PrevPage step the page within bounds.
func (s *ListState) NextPage() { s.SetPage(s.Page + 1) }
func (s *ListState) PrevPage() { s.SetPage(s.Page - 1) }

// SetTotal records the total from a fetch and pulls the page back into
// range if the listing shrank under it.
func (s *ListState) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	s.Total = total
	if s.Page > s.MaxPage() {
		s.Page = s.MaxPage()
	}
}

// ToggleSelect flips the selection of one product.
func (s *ListState) ToggleSelect(id int) {
	if s.Selection[id] {
		delete(s.Selection, id)
	} else {
		s.Selection[id] = true
	}
}

// ToggleSelectAll selects every given row, or clears them all when every
// one is already selected. With a partial selection it completes it, which
// matches checkbox select-all behavior.
func (s *ListState) ToggleSelectAll(ids []int) {
	all := len(ids) > 0
	for _, id := range ids {
		if !s.Selection[id] {
			all = false
			break
		}
	}
	for _, id := range ids {
		if all {
			delete(s.Selection, id)
		} else {
			s.Selection[id] = true
		}
	}
}

// ClearSelection drops every selected row.
func (s *ListState) ClearSelection() {
	s.Selection = make(map[int]bool)
}

// SelectedIDs returns the selected product ids in unspecified order.
func (s *ListState) SelectedIDs() []int {
	ids := make([]int, 0, len(s.Selection))
	for id := range s.Selection {
		ids = append(ids, id)
	}
	return ids
}

// Ordinal returns the 1-based running number of the row at idx on the
// current page, counted across the whole listing.
func (s *ListState) Ordinal(idx int) int {
	return (s.Page-1)*s.Filters.PerPage + idx + 1
}

// SelectionCount returns how many rows are selected across all pages.
func (s *ListState) SelectionCount() int {
	return len(s.Selection)
}

// PageSelection classifies the given page's rows against the selection:
// none, some or all selected. Used to render the select-all checkbox as
// empty, indeterminate or checked.
type PageSelection int

const (
	PageSelectionNone PageSelection = iota
	PageSelectionSome
	PageSelectionAll
)

// ClassifySelection reports the selection state of the given rows.
func (s *ListState) ClassifySelection(ids []int) PageSelection {
	if len(ids) == 0 {
		return PageSelectionNone
	}
	selected := 0
	for _, id := range ids {
		if s.Selection[id] {
			selected++
		}
	}
	switch selected {
	case 0:
		return PageSelectionNone
	case len(ids):
		return PageSelectionAll
	default:
		return PageSelectionSome
	}
}
