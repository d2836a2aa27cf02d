package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/ghsearch/internal/api"
	"github.com/lox/ghsearch/internal/search"
)

type browseFetcher struct {
	mu       sync.Mutex
	calls    []search.Tag
	total    int
	reported int
	failAt   int
	failed   bool
}

func (f *browseFetcher) FetchPage(_ context.Context, query string, page, pageSize int) (*api.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, search.Tag{Query: query, Page: page})

	if page == f.failAt && !f.failed {
		f.failed = true
		return nil, errors.New("connection reset")
	}

	var items []api.User
	for i := (page - 1) * pageSize; i < page*pageSize && i < f.total; i++ {
		items = append(items, api.User{ID: int64(i + 1), Login: fmt.Sprintf("%s%d", query, i+1), Type: "User"})
	}
	totalCount := f.total
	if f.reported > 0 {
		totalCount = f.reported
	}
	return &api.SearchPage{Items: items, TotalCount: totalCount}, nil
}

func (f *browseFetcher) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, c := range f.calls {
		out = append(out, c.Page)
	}
	return out
}

func newTestBrowseModel(f *browseFetcher, height int) browseModel {
	ctrl := search.NewController(f, search.WithPageSize(10))
	m := newBrowseModel(context.Background(), ctrl, "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: height})
	return next.(browseModel)
}

func update(t *testing.T, m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(browseModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return bm, cmd
}

// run executes cmd and feeds a resulting fetchDoneMsg back into the model.
func run(t *testing.T, m browseModel, cmd tea.Cmd) (browseModel, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	msg, ok := cmd().(fetchDoneMsg)
	if !ok {
		t.Fatal("expected fetchDoneMsg")
	}
	return update(t, m, msg)
}

func TestBrowseSubmitFetchesFirstPage(t *testing.T) {
	f := &browseFetcher{total: 25}
	m := newTestBrowseModel(f, 12)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ada")})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.snap.IsLoading() {
		t.Fatal("expected loading after submit")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Fatalf("expected loading indicator in view:\n%s", m.View())
	}

	m, cmd = run(t, m, cmd)
	if cmd != nil {
		t.Fatal("first page fills the screen; no continuation expected")
	}
	if len(m.snap.Items) != 10 || m.snap.TotalCount != 25 {
		t.Fatalf("unexpected state: %d items, total %d", len(m.snap.Items), m.snap.TotalCount)
	}
	if m.snap.Items[0].Login != "ada1" {
		t.Fatalf("unexpected first login %q", m.snap.Items[0].Login)
	}
	if !strings.Contains(m.View(), "10 of 25 users") {
		t.Fatalf("expected count in view:\n%s", m.View())
	}
}

func TestBrowseEmptySubmitIsIgnored(t *testing.T) {
	f := &browseFetcher{total: 25}
	m := newTestBrowseModel(f, 12)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for empty query")
	}
	if m.snap.Query != "" || len(f.pages()) != 0 {
		t.Fatal("empty query should not start a search")
	}
}

func TestBrowseScrollLoadsNextPageOnce(t *testing.T) {
	f := &browseFetcher{total: 25}
	m := newTestBrowseModel(f, 12)
	m.input.SetValue("ada")

	m, cmd := update(t, m, submitMsg{})
	m, _ = run(t, m, cmd)

	var pending []tea.Cmd
	for range 9 {
		var c tea.Cmd
		m, c = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
		if c != nil {
			pending = append(pending, c)
		}
	}
	if len(pending) != 1 {
		t.Fatalf("expected exactly one continuation while loading, got %d", len(pending))
	}

	m, _ = run(t, m, pending[0])
	if len(m.snap.Items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(m.snap.Items))
	}
	if got := f.pages(); len(got) != 2 || got[1] != 2 {
		t.Fatalf("unexpected page requests %v", got)
	}
}

func TestBrowseDropsSupersededResponse(t *testing.T) {
	f := &browseFetcher{total: 3}
	m := newTestBrowseModel(f, 12)

	m.input.SetValue("foo")
	m, first := update(t, m, submitMsg{})
	m.input.SetValue("bar")
	m, second := update(t, m, submitMsg{})

	firstMsg := first()
	m, _ = run(t, m, second)
	m, _ = update(t, m, firstMsg)

	if m.snap.Query != "bar" {
		t.Fatalf("query mismatch: got %q", m.snap.Query)
	}
	for _, u := range m.snap.Items {
		if !strings.HasPrefix(u.Login, "bar") {
			t.Fatalf("stale result leaked into list: %q", u.Login)
		}
	}
}

func TestBrowseContinuationErrorWaitsForScroll(t *testing.T) {
	f := &browseFetcher{total: 25, failAt: 2}
	m := newTestBrowseModel(f, 30)
	m.input.SetValue("ada")

	m, cmd := update(t, m, submitMsg{})
	m, cmd = run(t, m, cmd)
	m, cmd = run(t, m, cmd)
	if cmd != nil {
		t.Fatal("failed continuation must not retry on its own")
	}
	if !m.snap.HasError() {
		t.Fatal("expected error status")
	}
	if len(m.snap.Items) != 10 {
		t.Fatalf("loaded items should survive the error, got %d", len(m.snap.Items))
	}
	if !strings.Contains(m.View(), "Error: connection reset") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = run(t, m, cmd)
	if m.snap.HasError() || len(m.snap.Items) != 20 {
		t.Fatalf("retry failed: error=%v items=%d", m.snap.Err, len(m.snap.Items))
	}
	if got := f.pages(); len(got) != 3 || got[1] != 2 || got[2] != 2 {
		t.Fatalf("expected page 2 to be retried, got %v", got)
	}
}

func TestBrowseEmptyContinuationDoesNotChain(t *testing.T) {
	f := &browseFetcher{total: 1, reported: 23}
	m := newTestBrowseModel(f, 30)
	m.input.SetValue("ada")

	m, cmd := update(t, m, submitMsg{})
	m, cmd = run(t, m, cmd)
	m, cmd = run(t, m, cmd)
	if cmd != nil {
		t.Fatal("expected pagination to end after an empty page")
	}

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Fatal("scrolling past the end should not fetch")
	}
	if got := f.pages(); len(got) != 2 {
		t.Fatalf("expected 2 page requests, got %v", got)
	}
}
