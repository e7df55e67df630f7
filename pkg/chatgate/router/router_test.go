package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/catalog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCaller records invocations and returns a scripted result.
type fakeCaller struct {
	reply string
	err   error
	calls int
}

func (f *fakeCaller) Complete(ctx context.Context, message string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestInvokeEmptyRouter(t *testing.T) {
	r := NewWithHandles(nil, time.Second, testLogger())

	text, model := r.Invoke(context.Background(), "hello there", ModelAuto)
	if model != ModelNone {
		t.Errorf("model = %q, want %q", model, ModelNone)
	}
	if !strings.Contains(text, "No models available") {
		t.Errorf("text = %q, want no-models diagnostic", text)
	}
}

func TestInvokeExplicitLiveModelFirst(t *testing.T) {
	flash := &fakeCaller{reply: "from flash"}
	lite := &fakeCaller{reply: "from lite"}
	r := NewWithHandles(map[string]Caller{
		"gemini-2.5-flash":      flash,
		"gemini-2.5-flash-lite": lite,
	}, time.Second, testLogger())

	text, model := r.Invoke(context.Background(), "hi", "gemini-2.5-flash-lite")
	if model != "gemini-2.5-flash-lite" || text != "from lite" {
		t.Errorf("got (%q, %q), want lite answer", text, model)
	}
	if flash.calls != 0 {
		t.Errorf("flash called %d times, want 0", flash.calls)
	}
}

func TestInvokeGarbageModelUsesDefault(t *testing.T) {
	flash := &fakeCaller{reply: "default answer"}
	r := NewWithHandles(map[string]Caller{
		"gemini-2.5-flash": flash,
	}, time.Second, testLogger())

	text, model := r.Invoke(context.Background(), "hi", "not-a-model")
	if model != catalog.DefaultModel || text != "default answer" {
		t.Errorf("got (%q, %q), want default model answer", text, model)
	}
}

func TestInvokeAutoShortMessageRoutesFast(t *testing.T) {
	flash := &fakeCaller{reply: "from flash"}
	lite := &fakeCaller{reply: "from lite"}
	r := NewWithHandles(map[string]Caller{
		"gemini-2.5-flash":      flash,
		"gemini-2.5-flash-lite": lite,
	}, time.Second, testLogger())

	// "fix this bug" is short, so the length rule wins over the keyword rule
	// and routing lands on the fast tier.
	text, model := r.Invoke(context.Background(), "fix this bug", ModelAuto)
	if model != "gemini-2.5-flash-lite" || text != "from lite" {
		t.Errorf("got (%q, %q), want fast-tier model", text, model)
	}
}

func TestInvokeAutoFastTierDownFallsThrough(t *testing.T) {
	flash := &fakeCaller{reply: "from flash"}
	r := NewWithHandles(map[string]Caller{
		"gemini-2.5-flash": flash,
	}, time.Second, testLogger())

	// Fast tier has no live handle; the only live model answers instead.
	text, model := r.Invoke(context.Background(), "short one", ModelAuto)
	if model != "gemini-2.5-flash" || text != "from flash" {
		t.Errorf("got (%q, %q), want fallback to flash", text, model)
	}
}

func TestInvokeFallbackMasksFirstFailure(t *testing.T) {
	failing := &fakeCaller{err: errors.New("boom")}
	ok := &fakeCaller{reply: "second answer"}
	r := NewWithHandles(map[string]Caller{
		"gemini-2.5-flash": failing,
		"gemma-3-4b":       ok,
	}, time.Second, testLogger())

	text, model := r.Invoke(context.Background(), "hi", "gemini-2.5-flash")
	if model != "gemma-3-4b" {
		t.Errorf("model = %q, want gemma-3-4b", model)
	}
	if text != "second answer" {
		t.Errorf("text = %q; first model's failure must be invisible", text)
	}
	if failing.calls != 1 {
		t.Errorf("failing model called %d times, want exactly 1 (no duplicate retry)", failing.calls)
	}
}

func TestInvokeAllFail(t *testing.T) {
	a := &fakeCaller{err: errors.New("first down")}
	b := &fakeCaller{err: errors.New("last down")}
	r := NewWithHandles(map[string]Caller{
		"gemini-2.5-flash": a,
		"gemma-3-1b":       b,
	}, time.Second, testLogger())

	text, model := r.Invoke(context.Background(), "hi", "gemini-2.5-flash")
	if model != ModelError {
		t.Errorf("model = %q, want %q", model, ModelError)
	}
	if !strings.Contains(text, "All models failed") || !strings.Contains(text, "last down") {
		t.Errorf("text = %q, want diagnostic embedding last error", text)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = (%d, %d), want one attempt each", a.calls, b.calls)
	}
}

func TestCandidatesDeduplicated(t *testing.T) {
	r := NewWithHandles(map[string]Caller{
		"gemini-2.5-flash":      &fakeCaller{},
		"gemini-2.5-flash-lite": &fakeCaller{},
		"gemma-3-4b":            &fakeCaller{},
	}, time.Second, testLogger())

	// gemini-2.5-flash is first in registration order AND the target; it
	// must still appear exactly once.
	cands := r.candidates("gemini-2.5-flash")
	seen := map[string]int{}
	for _, id := range cands {
		seen[id]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("candidate %q appears %d times", id, n)
		}
	}
	if cands[0] != "gemini-2.5-flash" {
		t.Errorf("first candidate = %q, want target", cands[0])
	}
	want := []string{"gemini-2.5-flash", "gemini-2.5-flash-lite", "gemma-3-4b"}
	if len(cands) != len(want) {
		t.Fatalf("candidates = %v, want %v", cands, want)
	}
	for i := range want {
		if cands[i] != want[i] {
			t.Errorf("candidates[%d] = %q, want %q (registration order)", i, cands[i], want[i])
		}
	}
}

func TestAvailableRegistrationOrder(t *testing.T) {
	r := NewWithHandles(map[string]Caller{
		"gemma-3-1b":       &fakeCaller{},
		"gemini-2.5-flash": &fakeCaller{},
	}, time.Second, testLogger())

	got := r.Available()
	want := []string{"gemini-2.5-flash", "gemma-3-1b"}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewWithoutKeyStartsEmpty(t *testing.T) {
	r := New("", time.Second, testLogger())
	if len(r.Available()) != 0 {
		t.Errorf("router with no key has %d live models, want 0", len(r.Available()))
	}
}

func TestNewWithKeyRegistersCatalog(t *testing.T) {
	r := New("sk-test", time.Second, testLogger())
	if len(r.Available()) != len(catalog.IDs()) {
		t.Errorf("live models = %d, want %d", len(r.Available()), len(catalog.IDs()))
	}
	for _, id := range r.Available() {
		if _, ok := catalog.Get(id); !ok {
			t.Errorf("live model %q not in catalog", id)
		}
	}
}
