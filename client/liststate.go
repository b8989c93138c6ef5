package client

// The list view holds its filter/sort/page state in a ListState and evolves
// it through Reduce: a pure function from (state, event) to (state, whether
// to re-fetch). The caller owns the actual fetch; when Reduce asks for one
// it issues a single List call tagged with state.RequestSeq and feeds the
// outcome back in as a FetchSucceeded/FetchFailed event. Responses from
// superseded requests carry an older sequence and are dropped, so a slow
// stale fetch can never overwrite a newer one.

type ListState struct {
	Search     string
	Status     string
	SortColumn string
	SortDesc   bool
	Page       int
	PageSize   int

	Loading    bool
	RequestSeq uint64

	Count      int64
	TotalPages int
	Results    []Contact
	ErrMessage string
}

func NewListState() ListState {
	return ListState{Page: 1, PageSize: 10}
}

// Params maps the view state to the List call it requires.
func (s ListState) Params() ListParams {
	return ListParams{
		Search:   s.Search,
		Status:   s.Status,
		Ordering: s.Ordering(),
		Page:     s.Page,
		PageSize: s.PageSize,
	}
}

func (s ListState) Ordering() string {
	if s.SortColumn == "" {
		return ""
	}
	if s.SortDesc {
		return "-" + s.SortColumn
	}
	return s.SortColumn
}

type Event interface {
	listEvent()
}

type SearchChanged struct{ Term string }

type StatusFilterChanged struct{ Status string }

type SortToggled struct{ Column string }

type PageChanged struct{ Page int }

type FetchSucceeded struct {
	Seq  uint64
	Page *ContactPage
}

type FetchFailed struct {
	Seq uint64
	Err error
}

func (SearchChanged) listEvent()       {}
func (StatusFilterChanged) listEvent() {}
func (SortToggled) listEvent()         {}
func (PageChanged) listEvent()         {}
func (FetchSucceeded) listEvent()      {}
func (FetchFailed) listEvent()         {}

// Reduce returns the next state and whether the caller must issue a fetch.
// Any filter change resets the page to 1 so the view can't land on a page
// that no longer exists; toggling sort on the current column flips its
// direction, on another column it resets to ascending.
func Reduce(s ListState, event Event) (ListState, bool) {
	switch ev := event.(type) {
	case SearchChanged:
		if ev.Term == s.Search {
			return s, false
		}
		s.Search = ev.Term
		s.Page = 1
		return startFetch(s), true

	case StatusFilterChanged:
		if ev.Status == s.Status {
			return s, false
		}
		s.Status = ev.Status
		s.Page = 1
		return startFetch(s), true

	case SortToggled:
		if ev.Column == s.SortColumn {
			s.SortDesc = !s.SortDesc
		} else {
			s.SortColumn = ev.Column
			s.SortDesc = false
		}
		return startFetch(s), true

	case PageChanged:
		page := ev.Page
		if page < 1 {
			page = 1
		}
		if page == s.Page {
			return s, false
		}
		s.Page = page
		return startFetch(s), true

	case FetchSucceeded:
		if ev.Seq != s.RequestSeq {
			// A newer request has been issued since; this result is stale.
			return s, false
		}

		s.Loading = false
		s.ErrMessage = ""
		s.Count = ev.Page.Count
		s.TotalPages = ev.Page.TotalPages
		s.Results = ev.Page.Results

		// A delete can empty the last page; step back one page and refetch
		// rather than show an empty view.
		if len(ev.Page.Results) == 0 && s.Page > 1 {
			s.Page--
			return startFetch(s), true
		}

		return s, false

	case FetchFailed:
		if ev.Seq != s.RequestSeq {
			return s, false
		}

		s.Loading = false
		s.ErrMessage = ev.Err.Error()
		return s, false
	}

	return s, false
}

func startFetch(s ListState) ListState {
	s.Loading = true
	s.ErrMessage = ""
	s.RequestSeq++
	return s
}
