package common

import "testing"

func TestFifo(t *testing.T) {
	var f Fifo[int]
	if _, ok := f.Pop(); ok {
		t.Fatalf("expected pop on empty fifo to fail")
	}
	for i := range 5 {
		f.Push(i)
	}
	if f.Size() != 5 {
		t.Fatalf("expected size 5, got %d", f.Size())
	}
	if head, ok := f.Peek(); !ok || head != 0 {
		t.Fatalf("expected head 0, got %d", head)
	}
	for i := range 5 {
		got, ok := f.Pop()
		if !ok || got != i {
			t.Fatalf("expected %d, got %d (ok=%v)", i, got, ok)
		}
	}
	if f.Size() != 0 {
		t.Fatalf("expected empty fifo, got size %d", f.Size())
	}

	// reuse after draining
	f.Push(42)
	if got, _ := f.Pop(); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}
