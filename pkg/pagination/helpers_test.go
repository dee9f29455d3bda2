package pagination

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/oplog-feed/pkg/oplog"
)

// makeEntries builds n distinct entries labelled prefix-1..prefix-n.
func makeEntries(prefix string, n int) []oplog.Entry {
	entries := make([]oplog.Entry, n)
	for i := range entries {
		entries[i] = oplog.Entry{
			Staff:         prefix,
			OperationType: "update",
			Time:          time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC),
			Description:   fmt.Sprintf("%s-%d", prefix, i+1),
			Resource:      "customer",
		}
	}
	return entries
}

type fetchReply struct {
	result PageResult
	err    error
}

// pendingFetch is one FetchPage call held open until the test replies.
type pendingFetch struct {
	page     int
	pageSize int
	term     string
	reply    chan fetchReply
}

func (p *pendingFetch) succeed(result PageResult) {
	p.reply <- fetchReply{result: result}
}

func (p *pendingFetch) fail(err error) {
	p.reply <- fetchReply{err: err}
}

// scriptedFetcher hands every FetchPage call to the test and tracks how many
// calls are unresolved at once.
type scriptedFetcher struct {
	calls chan *pendingFetch

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	total       int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{calls: make(chan *pendingFetch, 64)}
}

func (f *scriptedFetcher) FetchPage(ctx context.Context, page, pageSize int, term string) (PageResult, error) {
	f.mu.Lock()
	f.inFlight++
	f.total++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	call := &pendingFetch{page: page, pageSize: pageSize, term: term, reply: make(chan fetchReply, 1)}
	f.calls <- call
	r := <-call.reply

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return r.result, r.err
}

// next waits for the next FetchPage call.
func (f *scriptedFetcher) next(t *testing.T) *pendingFetch {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch")
		return nil
	}
}

// expectNone asserts that no FetchPage call arrives within d.
func (f *scriptedFetcher) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case call := <-f.calls:
		t.Fatalf("unexpected fetch for page %d term %q", call.page, call.term)
	case <-time.After(d):
	}
}

func (f *scriptedFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}
