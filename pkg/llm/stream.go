package llm

import (
	"errors"
	"io"

	"github.com/chalktalk/chalktalk/pkg/buffer"
)

// StreamBuilder is the producer side of a Stream. A backend goroutine
// pushes chunks with Add and finishes with Done or Abort; the consumer
// reads through Stream.
type StreamBuilder struct {
	rb *buffer.BlockBuffer[string]
}

func NewStreamBuilder(size int) *StreamBuilder {
	return &StreamBuilder{rb: buffer.BlockN[string](size)}
}

func (sb *StreamBuilder) Add(chunk string) error {
	if chunk == "" {
		return nil
	}
	return sb.rb.Add(chunk)
}

func (sb *StreamBuilder) Done() error {
	return sb.rb.CloseWrite()
}

func (sb *StreamBuilder) Abort(err error) error {
	return sb.rb.CloseWithError(err)
}

func (sb *StreamBuilder) Stream() Stream {
	return (*streamImpl)(sb)
}

type streamImpl StreamBuilder

func (s *streamImpl) Next() (string, error) {
	chunk, err := s.rb.Next()
	if err != nil {
		if errors.Is(err, buffer.ErrIteratorDone) {
			return "", io.EOF
		}
		return "", err
	}
	return chunk, nil
}

func (s *streamImpl) Close() error {
	return s.rb.Close()
}
