// Package buffer provides a bounded blocking queue used to hand generation
// chunks from a producer goroutine to a consuming stream.
package buffer

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrIteratorDone is returned by Next after the write side is closed and all
// queued elements have been consumed.
var ErrIteratorDone = errors.New("buffer: iterator done")

// BlockBuffer is a thread-safe fixed-capacity FIFO. Add blocks when the
// buffer is full and Next blocks when it is empty, giving predictable memory
// usage and flow control between one producer and one consumer.
type BlockBuffer[T any] struct {
	cond *sync.Cond

	mu         sync.Mutex
	buf        []T
	head, tail int64
	closeWrite bool
	closeErr   error
}

// BlockN creates a BlockBuffer holding at most size elements.
func BlockN[T any](size int) *BlockBuffer[T] {
	v := &BlockBuffer[T]{buf: make([]T, size)}
	v.cond = sync.NewCond(&v.mu)
	return v
}

// Add appends one element, blocking while the buffer is full.
// Returns an error once the buffer is closed.
func (bb *BlockBuffer[T]) Add(t T) error {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	for {
		if bb.closeErr != nil {
			return fmt.Errorf("buffer: write to closed buffer: %w", bb.closeErr)
		}
		if bb.closeWrite {
			return fmt.Errorf("buffer: write to closed buffer: %w", io.ErrClosedPipe)
		}
		if bb.tail-bb.head < int64(len(bb.buf)) {
			break
		}
		bb.cond.Wait()
	}
	bb.buf[bb.tail%int64(len(bb.buf))] = t
	bb.tail++
	bb.cond.Signal()
	return nil
}

// Next removes and returns the oldest element, blocking while the buffer is
// empty. After CloseWrite it drains the remaining elements and then returns
// ErrIteratorDone.
func (bb *BlockBuffer[T]) Next() (t T, err error) {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	for bb.head == bb.tail {
		if bb.closeErr != nil {
			err = fmt.Errorf("buffer: read from closed buffer: %w", bb.closeErr)
			return
		}
		if bb.closeWrite {
			err = ErrIteratorDone
			return
		}
		bb.cond.Wait()
	}
	if bb.closeErr != nil {
		err = fmt.Errorf("buffer: read from closed buffer: %w", bb.closeErr)
		return
	}
	t = bb.buf[bb.head%int64(len(bb.buf))]
	bb.head++
	bb.cond.Signal()
	return t, nil
}

// CloseWrite closes the write side. Queued elements remain readable;
// Next returns ErrIteratorDone once they are drained.
func (bb *BlockBuffer[T]) CloseWrite() error {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	bb.closeWrite = true
	bb.cond.Broadcast()
	return nil
}

// CloseWithError tears the buffer down: pending and future operations on
// either side fail with the given error (io.ErrClosedPipe when nil).
// Only the first close takes effect.
func (bb *BlockBuffer[T]) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	bb.mu.Lock()
	defer bb.mu.Unlock()
	if bb.closeErr != nil {
		return nil
	}
	bb.closeErr = err
	bb.closeWrite = true
	bb.cond.Broadcast()
	return nil
}

// Close is CloseWithError(io.ErrClosedPipe).
func (bb *BlockBuffer[T]) Close() error {
	return bb.CloseWithError(io.ErrClosedPipe)
}

// Err returns the error the buffer was closed with, if any.
func (bb *BlockBuffer[T]) Err() error {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	return bb.closeErr
}

// Len reports the number of queued elements.
func (bb *BlockBuffer[T]) Len() int {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	return int(bb.tail - bb.head)
}
