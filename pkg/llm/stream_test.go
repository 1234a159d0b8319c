package llm

import (
	"errors"
	"io"
	"slices"
	"testing"
)

func TestStreamBuilderOrder(t *testing.T) {
	sb := NewStreamBuilder(8)
	go func() {
		sb.Add("The moon ")
		sb.Add("") // empty chunks are dropped
		sb.Add("orbits ")
		sb.Add("the earth.")
		sb.Done()
	}()

	stream := sb.Stream()
	defer stream.Close()

	var got []string
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, chunk)
	}
	want := []string{"The moon ", "orbits ", "the earth."}
	if !slices.Equal(got, want) {
		t.Fatalf("chunks = %v, want %v", got, want)
	}
}

func TestStreamBuilderAbort(t *testing.T) {
	sb := NewStreamBuilder(8)
	sb.Add("partial")
	sb.Abort(ErrBlocked)

	stream := sb.Stream()
	if chunk, err := stream.Next(); err != nil {
		t.Fatalf("Next = %v, want buffered chunk", err)
	} else if chunk != "partial" {
		t.Fatalf("Next = %q, want %q", chunk, "partial")
	}
	if _, err := stream.Next(); !errors.Is(err, ErrBlocked) {
		t.Fatalf("Next after abort = %v, want ErrBlocked", err)
	}
}

func TestStreamBuilderDoneIsEOFNotError(t *testing.T) {
	sb := NewStreamBuilder(1)
	sb.Done()
	stream := sb.Stream()
	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("Next = %v, want io.EOF", err)
	}
}
