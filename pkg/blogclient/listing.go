package blogclient

import (
	"strings"
	"sync"
)

// Fetcher loads one page of the listing.
type Fetcher interface {
	ListPosts(page int, search string) (*ListResponse, error)
}

// ListState is what the listing view renders.
type ListState struct {
	Page    int
	Search  string
	Loading bool
	Result  *ListResponse
	Err     error
}

// Listing holds the state of the listing view. Every load takes a new sequence
// number and only the response of the latest load is applied, so a slow
// response for an older page or search never overwrites a newer one.
type Listing struct {
	fetcher Fetcher

	mu    sync.Mutex
	seq   uint64
	state ListState
}

// NewListing creates a listing on page 1 with no search.
func NewListing(f Fetcher) *Listing {
	return &Listing{
		fetcher: f,
		state:   ListState{Page: 1},
	}
}

// State returns the current view state.
func (l *Listing) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches page with the given search term. applied is false when a newer
// load started before this one finished; its result is then discarded.
func (l *Listing) Load(page int, search string) (applied bool, err error) {
	search = strings.TrimSpace(search)

	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.state.Page = page
	l.state.Search = search
	l.state.Loading = true
	l.mu.Unlock()

	resp, err := l.fetcher.ListPosts(page, search)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		return false, err
	}
	l.state.Loading = false
	l.state.Err = err
	if err == nil {
		l.state.Result = resp
	}
	return true, err
}

// Search starts a new search from page 1.
func (l *Listing) Search(term string) (bool, error) {
	return l.Load(1, term)
}

// GoTo switches to page keeping the current search.
func (l *Listing) GoTo(page int) (bool, error) {
	l.mu.Lock()
	search := l.state.Search
	l.mu.Unlock()
	return l.Load(page, search)
}

// Reload fetches the current page again, e.g. after a delete.
func (l *Listing) Reload() (bool, error) {
	l.mu.Lock()
	page, search := l.state.Page, l.state.Search
	l.mu.Unlock()
	return l.Load(page, search)
}
