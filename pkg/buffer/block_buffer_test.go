package buffer

import (
	"errors"
	"testing"
	"time"
)

func TestAddNextOrder(t *testing.T) {
	bb := BlockN[int](4)
	for i := 1; i <= 3; i++ {
		if err := bb.Add(i); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}
	if got := bb.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}
	for i := 1; i <= 3; i++ {
		v, err := bb.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if v != i {
			t.Fatalf("Next = %d, want %d", v, i)
		}
	}
}

func TestCloseWriteDrainsThenDone(t *testing.T) {
	bb := BlockN[string](4)
	bb.Add("a")
	bb.Add("b")
	bb.CloseWrite()

	if v, err := bb.Next(); err != nil || v != "a" {
		t.Fatalf("Next = %q, %v", v, err)
	}
	if v, err := bb.Next(); err != nil || v != "b" {
		t.Fatalf("Next = %q, %v", v, err)
	}
	if _, err := bb.Next(); !errors.Is(err, ErrIteratorDone) {
		t.Fatalf("Next after drain = %v, want ErrIteratorDone", err)
	}
	if err := bb.Add("c"); err == nil {
		t.Fatal("Add after CloseWrite succeeded")
	}
}

func TestCloseWithErrorUnblocksReader(t *testing.T) {
	bb := BlockN[int](1)
	boom := errors.New("boom")

	done := make(chan error, 1)
	go func() {
		_, err := bb.Next()
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	bb.CloseWithError(boom)

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("Next unblocked with %v, want wrapped boom", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Next still blocked after CloseWithError")
	}
}

func TestAddBlocksUntilConsumed(t *testing.T) {
	bb := BlockN[int](1)
	bb.Add(1)

	added := make(chan struct{})
	go func() {
		bb.Add(2)
		close(added)
	}()

	select {
	case <-added:
		t.Fatal("Add did not block on a full buffer")
	case <-time.After(20 * time.Millisecond):
	}

	if v, _ := bb.Next(); v != 1 {
		t.Fatalf("Next = %d, want 1", v)
	}
	select {
	case <-added:
	case <-time.After(time.Second):
		t.Fatal("Add still blocked after space freed")
	}
}
