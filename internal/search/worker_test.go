package search

import (
	"context"
	"testing"
	"time"

	"github.com/ifaasih/mvx/internal/index"
)

func testCorpus() []index.Entry {
	return []index.Entry{
		{
			ContactID: "9601234567",
			Text:      "john\n+9601234567\nhello world",
			Messages:  []index.MessageRef{{ID: 1, Body: "hello world"}},
		},
		{
			ContactID: "9607712345",
			Text:      "amy\n9607712345\nsee you soon",
			Messages:  []index.MessageRef{{ID: 2, Body: "see you soon"}},
		},
	}
}

func startWorker(t *testing.T, timeout time.Duration) *Worker {
	t.Helper()
	w := NewWorker(timeout, 20, nil)
	w.Start(context.Background())
	t.Cleanup(w.Stop)
	w.Load(testCorpus())

	// Queries submitted before the worker picks up the corpus would see an
	// empty index; wait until it answers.
	deadline := time.After(time.Second)
	for {
		if res := w.Search("john"); len(res.Matches) == 1 {
			return w
		}
		select {
		case <-deadline:
			t.Fatal("worker never loaded the corpus")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSearchMatches(t *testing.T) {
	w := startWorker(t, time.Second)

	res := w.Search("HELLO")
	if !res.Filtered {
		t.Error("non-empty query should be filtered")
	}
	if len(res.Matches) != 1 || res.Matches[0].ContactID != "9601234567" {
		t.Errorf("matches = %+v, want john's contact", res.Matches)
	}
}

func TestSearchNoMatch(t *testing.T) {
	w := startWorker(t, time.Second)

	res := w.Search("xyz")
	if !res.Filtered {
		t.Error("non-empty query should be filtered")
	}
	if len(res.Matches) != 0 {
		t.Errorf("matches = %+v, want none", res.Matches)
	}
}

func TestSearchEmptyQueryIsNoFilter(t *testing.T) {
	w := startWorker(t, time.Second)

	res := w.Search("  ")
	if res.Filtered {
		t.Error("whitespace query should be the no-filter signal")
	}
}

func TestSubmitIDsIncrease(t *testing.T) {
	w := startWorker(t, time.Second)

	id1, ch1 := w.Submit("hello")
	id2, ch2 := w.Submit("soon")
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d then %d", id1, id2)
	}

	res1, res2 := <-ch1, <-ch2
	if res1.ID != id1 || res2.ID != id2 {
		t.Errorf("reply ids %d/%d do not correlate with %d/%d", res1.ID, res2.ID, id1, id2)
	}
}

func TestStaleResultDisregard(t *testing.T) {
	w := startWorker(t, time.Second)

	id1, ch1 := w.Submit("hello")
	id2, ch2 := w.Submit("soon")
	latest := id2

	// Act only on the response whose id matches the latest request,
	// whatever order the replies land in.
	var displayed Result
	for _, ch := range []<-chan Result{ch1, ch2} {
		res := <-ch
		if res.ID == latest {
			displayed = res
		}
	}
	if displayed.ID != id2 {
		t.Fatalf("displayed id = %d, want %d", displayed.ID, id2)
	}
	if len(displayed.Matches) != 1 || displayed.Matches[0].ContactID != "9607712345" {
		t.Errorf("displayed matches = %+v, want amy's contact only", displayed.Matches)
	}
	_ = id1
}

func TestTimeoutResolvesEmpty(t *testing.T) {
	// Never started: submissions cannot be accepted and must time out.
	w := NewWorker(50*time.Millisecond, 20, nil)

	done := make(chan Result, 1)
	go func() {
		done <- w.Search("hello")
	}()

	select {
	case res := <-done:
		if len(res.Matches) != 0 {
			t.Errorf("matches = %+v, want empty on timeout", res.Matches)
		}
		if !res.Filtered {
			t.Error("timeout reply should still mark the query as filtered")
		}
	case <-time.After(time.Second):
		t.Fatal("query hung instead of failing open")
	}
}

func TestStoppedWorkerResolvesEmpty(t *testing.T) {
	w := NewWorker(time.Second, 20, nil)
	w.Start(context.Background())
	w.Stop()
	// Let the loop observe cancellation and close done.
	time.Sleep(10 * time.Millisecond)

	res := w.Search("hello")
	if len(res.Matches) != 0 {
		t.Errorf("matches = %+v, want empty after stop", res.Matches)
	}
}

func TestLoadReplacesCorpus(t *testing.T) {
	w := startWorker(t, time.Second)

	if res := w.Search("hello"); len(res.Matches) != 1 {
		t.Fatalf("pre-reload matches = %+v", res.Matches)
	}

	w.Load([]index.Entry{{
		ContactID: "c2",
		Text:      "replacement corpus",
		Messages:  []index.MessageRef{{ID: 9, Body: "replacement corpus"}},
	}})
	// The worker drains loads before requests non-deterministically; poll
	// until the new corpus answers.
	deadline := time.After(time.Second)
	for {
		res := w.Search("replacement")
		if len(res.Matches) == 1 && res.Matches[0].ContactID == "c2" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("corpus was not replaced")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if res := w.Search("hello"); len(res.Matches) != 0 {
		t.Errorf("old corpus still answering: %+v", res.Matches)
	}
}
