package wizardstate

import (
	"context"
	"testing"
	"time"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestPutFetchRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	in := payload{Name: "draft", Count: 3}
	if err := Put(ctx, s, "run-1", "FormData", in); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var out payload
	found, err := Fetch(ctx, s, "run-1", "FormData", &out)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !found {
		t.Fatal("expected value to be found")
	}
	if out != in {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
}

func TestFetchMissingKey(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	var out payload
	found, err := Fetch(context.Background(), s, "run-1", "nope", &out)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if found {
		t.Error("expected missing key to report not found")
	}
}

func TestFetchVersionMismatchReadsAsAbsent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	if err := s.Set(ctx, "run-1", "FormData", []byte(`{"v":99,"data":{"name":"x","count":1}}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out payload
	found, err := Fetch(ctx, s, "run-1", "FormData", &out)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if found {
		t.Error("version mismatch should read as absent")
	}
}

func TestFetchCorruptValueReadsAsAbsent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	if err := s.Set(ctx, "run-1", "FormData", []byte(`not json at all`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out payload
	found, err := Fetch(ctx, s, "run-1", "FormData", &out)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if found {
		t.Error("corrupt value should read as absent")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	if err := Put(ctx, s, "run-1", "key", payload{Name: "a"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Remove(ctx, "run-1", "key"); err != nil {
		t.Fatalf("first Remove failed: %v", err)
	}
	if err := s.Remove(ctx, "run-1", "key"); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if err := s.Remove(ctx, "no-such-run", "key"); err != nil {
		t.Fatalf("Remove on unknown run failed: %v", err)
	}

	var out payload
	if found, _ := Fetch(ctx, s, "run-1", "key", &out); found {
		t.Error("expected removed key to be absent")
	}
}

func TestClearDropsWholeRun(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := Put(ctx, s, "run-1", key, payload{Name: key}); err != nil {
			t.Fatalf("Put %q failed: %v", key, err)
		}
	}
	if err := Put(ctx, s, "run-2", "a", payload{Name: "other"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := s.Clear(ctx, "run-1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := s.Clear(ctx, "run-1"); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}

	var out payload
	for _, key := range []string{"a", "b", "c"} {
		if found, _ := Fetch(ctx, s, "run-1", key, &out); found {
			t.Errorf("key %q survived Clear", key)
		}
	}
	if found, _ := Fetch(ctx, s, "run-2", "a", &out); !found {
		t.Error("Clear of run-1 must not touch run-2")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(time.Millisecond)
	ctx := context.Background()

	if err := Put(ctx, s, "run-1", "key", payload{Name: "a"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	var out payload
	if found, _ := Fetch(ctx, s, "run-1", "key", &out); found {
		t.Error("expected expired run to read as absent")
	}
}

func TestRunsAreIsolated(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	if err := Put(ctx, s, "run-1", "key", payload{Name: "one"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := Put(ctx, s, "run-2", "key", payload{Name: "two"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var out payload
	if _, err := Fetch(ctx, s, "run-1", "key", &out); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if out.Name != "one" {
		t.Errorf("run-1 value: got %q, want %q", out.Name, "one")
	}
}
