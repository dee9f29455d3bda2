package pagination

import (
	"sync"
	"testing"
	"time"
)

type commitRecorder struct {
	mu    sync.Mutex
	terms []string
	ch    chan string
}

func newCommitRecorder() *commitRecorder {
	return &commitRecorder{ch: make(chan string, 16)}
}

func (r *commitRecorder) commit(term string) {
	r.mu.Lock()
	r.terms = append(r.terms, term)
	r.mu.Unlock()
	r.ch <- term
}

func (r *commitRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terms)
}

func TestDebouncer_CommitsLatestTermOnce(t *testing.T) {
	rec := newCommitRecorder()
	d := NewDebouncer(30*time.Millisecond, rec.commit)
	defer d.Stop()

	for _, term := range []string{"a", "al", "ali", "alice"} {
		d.Submit(term)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case got := <-rec.ch:
		if got != "alice" {
			t.Errorf("committed %q, want %q", got, "alice")
		}
	case <-time.After(time.Second):
		t.Fatal("no commit after quiet interval")
	}

	time.Sleep(100 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("commits = %d, want 1", n)
	}
	if d.Pending() {
		t.Error("no commit should be pending")
	}
}

func TestDebouncer_SubmitRestartsInterval(t *testing.T) {
	rec := newCommitRecorder()
	d := NewDebouncer(60*time.Millisecond, rec.commit)
	defer d.Stop()

	start := time.Now()
	d.Submit("a")
	time.Sleep(40 * time.Millisecond)
	d.Submit("ab")

	select {
	case got := <-rec.ch:
		if got != "ab" {
			t.Errorf("committed %q, want %q", got, "ab")
		}
		if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
			t.Errorf("committed after %v, interval was not restarted", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("no commit")
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	rec := newCommitRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.commit)

	d.Submit("alice")
	if !d.Pending() {
		t.Fatal("commit should be pending after Submit")
	}
	d.Stop()
	d.Submit("bob")

	time.Sleep(80 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Errorf("commits after Stop = %d, want 0", n)
	}
	if d.Pending() {
		t.Error("nothing should be pending after Stop")
	}
}

func TestDebouncer_DefaultInterval(t *testing.T) {
	d := NewDebouncer(0, nil)
	if d.interval != DefaultDebounce {
		t.Errorf("interval = %v, want %v", d.interval, DefaultDebounce)
	}
}
