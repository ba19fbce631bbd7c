package chat_test

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/ferntree/sprout/internal/chat"
)

// countingTranslator is a deterministic stand-in that counts external calls.
type countingTranslator struct {
	calls int
	err   error
}

func (c *countingTranslator) Translate(_ context.Context, text, language string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return language + "::" + text, nil
}

func TestTranslateCachesResult(t *testing.T) {
	tr := &countingTranslator{}
	th := chat.NewThread()
	i := th.Append(chat.Message{Role: chat.RoleModel, Text: "water twice a week"})

	got, err := th.Translate(context.Background(), i, "Hindi", tr)
	if err != nil {
		t.Fatalf("first Translate: %v", err)
	}
	if got != "Hindi::water twice a week" {
		t.Fatalf("first Translate: got %q", got)
	}
	if tr.calls != 1 {
		t.Fatalf("first Translate made %d external calls", tr.calls)
	}

	// Cache hit: same value, no second external call.
	got, err = th.Translate(context.Background(), i, "Hindi", tr)
	if err != nil {
		t.Fatalf("second Translate: %v", err)
	}
	if got != "Hindi::water twice a week" {
		t.Errorf("cached Translate: got %q", got)
	}
	if tr.calls != 1 {
		t.Errorf("cache hit still made an external call: %d total", tr.calls)
	}

	// A different language is a different cache key.
	if _, err := th.Translate(context.Background(), i, "Spanish", tr); err != nil {
		t.Fatalf("Spanish Translate: %v", err)
	}
	if tr.calls != 2 {
		t.Errorf("distinct language: %d external calls, want 2", tr.calls)
	}
}

func TestTranslateFailureLeavesKeyAbsent(t *testing.T) {
	tr := &countingTranslator{err: errors.New("quota exhausted")}
	th := chat.NewThread()
	i := th.Append(chat.Message{Role: chat.RoleModel, Text: "prune in spring"})

	if _, err := th.Translate(context.Background(), i, "Tamil", tr); err == nil {
		t.Fatal("expected the translator error to surface")
	}
	if th.Busy() {
		t.Error("thread still busy after a failed translation")
	}
	msg, ok := th.Message(i)
	if !ok {
		t.Fatalf("Message(%d) missing", i)
	}
	if _, ok := msg.Translation("Tamil"); ok {
		t.Error("failed translation left a cache entry behind")
	}

	// The failure is retryable: the next request goes out again.
	tr.err = nil
	got, err := th.Translate(context.Background(), i, "Tamil", tr)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got != "Tamil::prune in spring" {
		t.Errorf("retry: got %q", got)
	}
	if tr.calls != 2 {
		t.Errorf("retry: %d external calls, want 2", tr.calls)
	}
}

func TestTranslateUnknownIndex(t *testing.T) {
	th := chat.NewThread()
	if _, err := th.Translate(context.Background(), 3, "Hindi", &countingTranslator{}); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
}

// gateTranslator blocks until released so the test can observe the
// in-flight token.
type gateTranslator struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gateTranslator) Translate(context.Context, string, string) (string, error) {
	close(g.entered)
	<-g.release
	return "done", nil
}

func TestTranslateHoldsTokenWhileInFlight(t *testing.T) {
	g := &gateTranslator{entered: make(chan struct{}), release: make(chan struct{})}
	th := chat.NewThread()
	i := th.Append(chat.Message{Role: chat.RoleModel, Text: "repot yearly"})

	if th.Busy() {
		t.Fatal("fresh thread reports busy")
	}

	var got string
	var terr error
	done := make(chan struct{})
	go func() {
		got, terr = th.Translate(context.Background(), i, "Bengali", g)
		close(done)
	}()

	<-g.entered
	if !th.Busy() {
		t.Error("thread not busy during an external call")
	}
	if th.Translating() != i {
		t.Errorf("Translating() = %d, want %d", th.Translating(), i)
	}

	close(g.release)
	<-done
	if terr != nil {
		t.Fatalf("Translate: %v", terr)
	}
	if got != "done" {
		t.Errorf("Translate: got %q", got)
	}
	if th.Busy() {
		t.Error("thread still busy after completion")
	}
}

func TestMessagesReturnsCopies(t *testing.T) {
	tr := &countingTranslator{}
	th := chat.NewThread()
	i := th.Append(chat.Message{Role: chat.RoleUser, Text: "hello"})
	if _, err := th.Translate(context.Background(), i, "Marathi", tr); err != nil {
		t.Fatalf("Translate: %v", err)
	}

	msgs := th.Messages()
	msgs[0].Text = "tampered"
	msgs[0].Translations["Marathi"] = "tampered"

	msg, _ := th.Message(i)
	if msg.Text != "hello" {
		t.Errorf("message text mutated through the copy: %q", msg.Text)
	}
	if v, _ := msg.Translation("Marathi"); v != "Marathi::hello" {
		t.Errorf("translation mutated through the copy: %q", v)
	}
}

// TestTranslateMemoizationProperty drives a random request sequence and
// checks that the external collaborator is consulted exactly once per
// distinct (message, language) pair.
func TestTranslateMemoizationProperty(t *testing.T) {
	languages := []string{"Hindi", "Bengali", "Tamil", "Spanish"}
	rapid.Check(t, func(t *rapid.T) {
		tr := &countingTranslator{}
		th := chat.NewThread()
		n := rapid.IntRange(1, 5).Draw(t, "messages")
		for i := 0; i < n; i++ {
			th.Append(chat.Message{Role: chat.RoleModel, Text: rapid.String().Draw(t, "text")})
		}

		type pair struct {
			idx  int
			lang string
		}
		seen := make(map[pair]bool)
		requests := rapid.IntRange(0, 12).Draw(t, "requests")
		for r := 0; r < requests; r++ {
			p := pair{
				idx:  rapid.IntRange(0, n-1).Draw(t, "idx"),
				lang: rapid.SampledFrom(languages).Draw(t, "lang"),
			}
			msg, _ := th.Message(p.idx)
			want := p.lang + "::" + msg.Text
			got, err := th.Translate(context.Background(), p.idx, p.lang, tr)
			if err != nil {
				t.Fatalf("Translate(%d, %s): %v", p.idx, p.lang, err)
			}
			if got != want {
				t.Fatalf("Translate(%d, %s): got %q, want %q", p.idx, p.lang, got, want)
			}
			seen[p] = true
			if tr.calls != len(seen) {
				t.Fatalf("%d external calls after %d distinct requests", tr.calls, len(seen))
			}
		}
	})
}
