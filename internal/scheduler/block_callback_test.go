package scheduler

import "testing"

func TestBlockCallbackTriggersOnInterval(t *testing.T) {
	calls := 0
	cb := NewBlockCallback(10, func() error {
		calls++
		return nil
	})

	if !cb.ShouldTrigger(100) {
		t.Fatalf("expected first trigger on aligned block")
	}
	if err := cb.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	cb.MarkTriggered(100)

	if cb.ShouldTrigger(105) {
		t.Fatalf("should not trigger before interval elapses")
	}
	if !cb.ShouldTrigger(110) {
		t.Fatalf("expected trigger after interval")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestBlockCallbackCatchesUpAfterGap(t *testing.T) {
	cb := NewBlockCallback(10, func() error { return nil })
	cb.MarkTriggered(100)

	// A gap of several intervals still yields a single trigger.
	if !cb.ShouldTrigger(145) {
		t.Fatalf("expected trigger after missed intervals")
	}
}

func TestInferNameFromFunc(t *testing.T) {
	if got := InferNameFromFunc(42); got != "unknown" {
		t.Fatalf("expected unknown for non-func, got %q", got)
	}
	if got := InferNameFromFunc(TestInferNameFromFunc); got != "TestInferNameFromFunc" {
		t.Fatalf("unexpected name: %q", got)
	}
}
