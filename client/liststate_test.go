package client

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterChangeResetsPage(t *testing.T) {
	state := NewListState()
	state.Page = 5

	state, refetch := Reduce(state, SearchChanged{Term: "ross"})
	assert.True(t, refetch)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, "ross", state.Search)
	assert.True(t, state.Loading)

	state.Page = 3
	state, refetch = Reduce(state, StatusFilterChanged{Status: "ACTIVE"})
	assert.True(t, refetch)
	assert.Equal(t, 1, state.Page)

	// Setting the same value again is a no-op.
	_, refetch = Reduce(state, StatusFilterChanged{Status: "ACTIVE"})
	assert.False(t, refetch)
}

func TestSortToggle(t *testing.T) {
	state := NewListState()

	state, refetch := Reduce(state, SortToggled{Column: "email"})
	assert.True(t, refetch)
	assert.Equal(t, "email", state.Ordering())

	state, _ = Reduce(state, SortToggled{Column: "email"})
	assert.Equal(t, "-email", state.Ordering(), "same column flips direction")

	state, _ = Reduce(state, SortToggled{Column: "last_name"})
	assert.Equal(t, "last_name", state.Ordering(), "new column resets to ascending")
}

func TestStaleResponseIgnored(t *testing.T) {
	state := NewListState()

	state, _ = Reduce(state, SearchChanged{Term: "a"})
	firstSeq := state.RequestSeq

	state, _ = Reduce(state, SearchChanged{Term: "ab"})
	require.Greater(t, state.RequestSeq, firstSeq)

	// The slow response for the superseded request arrives; nothing changes.
	stale := &ContactPage{Count: 99, Results: []Contact{{ID: 1}}}
	state, refetch := Reduce(state, FetchSucceeded{Seq: firstSeq, Page: stale})
	assert.False(t, refetch)
	assert.True(t, state.Loading, "still waiting on the current request")
	assert.Zero(t, state.Count)
	assert.Empty(t, state.Results)

	// The current one lands normally.
	current := &ContactPage{Count: 2, TotalPages: 1, Results: []Contact{{ID: 1}, {ID: 2}}}
	state, refetch = Reduce(state, FetchSucceeded{Seq: state.RequestSeq, Page: current})
	assert.False(t, refetch)
	assert.False(t, state.Loading)
	assert.Equal(t, int64(2), state.Count)
	assert.Len(t, state.Results, 2)
}

func TestEmptyLaterPageStepsBack(t *testing.T) {
	state := NewListState()
	state, _ = Reduce(state, PageChanged{Page: 3})

	// e.g. the last record on page 3 was deleted elsewhere.
	empty := &ContactPage{Count: 20, TotalPages: 2, Results: []Contact{}}
	state, refetch := Reduce(state, FetchSucceeded{Seq: state.RequestSeq, Page: empty})

	assert.True(t, refetch, "an empty later page triggers a refetch one page back")
	assert.Equal(t, 2, state.Page)
	assert.True(t, state.Loading)

	// An empty first page is just an empty collection.
	state.Page = 1
	state, refetch = Reduce(state, FetchSucceeded{Seq: state.RequestSeq, Page: &ContactPage{}})
	assert.False(t, refetch)
	assert.Equal(t, 1, state.Page)
}

func TestFetchFailure(t *testing.T) {
	state := NewListState()
	state, _ = Reduce(state, SearchChanged{Term: "x"})

	state, refetch := Reduce(state, FetchFailed{Seq: state.RequestSeq, Err: errors.New("connection refused")})
	assert.False(t, refetch)
	assert.False(t, state.Loading)
	assert.Equal(t, "connection refused", state.ErrMessage)

	// The next successful fetch clears the error.
	state, _ = Reduce(state, PageChanged{Page: 2})
	assert.Empty(t, state.ErrMessage)
}

func TestPageChangeBounds(t *testing.T) {
	state := NewListState()

	_, refetch := Reduce(state, PageChanged{Page: 0})
	assert.False(t, refetch, "clamped to page 1, which is already current")

	state, refetch = Reduce(state, PageChanged{Page: 2})
	assert.True(t, refetch)
	assert.Equal(t, 2, state.Page)
}

func TestParamsMirrorState(t *testing.T) {
	state := NewListState()
	state.Search = "ross"
	state.Status = "ACTIVE"
	state.SortColumn = "email"
	state.SortDesc = true
	state.Page = 2

	params := state.Params()
	assert.Equal(t, ListParams{
		Search:   "ross",
		Status:   "ACTIVE",
		Ordering: "-email",
		Page:     2,
		PageSize: 10,
	}, params)
}
