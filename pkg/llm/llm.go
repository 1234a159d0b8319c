// Package llm defines the text and scene generation backends.
//
// A Generator produces two things for a question: a streamed natural
// language explanation and a JSON scene document describing an animated
// visualization of the answer. Two implementations are provided, one for
// OpenAI-compatible chat completion APIs and one for Google Gemini.
package llm

import (
	"context"
	"errors"
)

var (
	ErrNoChoices = errors.New("llm: response contains no choices")
	ErrBlocked   = errors.New("llm: generation blocked by content filter")
	ErrTruncated = errors.New("llm: generation truncated by token limit")
)

// Stream yields text chunks of a streamed explanation. Next returns
// io.EOF after the final chunk. Close releases the underlying stream and
// is safe to call at any point.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Generator produces explanations and scene documents for questions.
type Generator interface {
	// StreamText starts streaming a spoken-style explanation of question.
	StreamText(ctx context.Context, question string) (Stream, error)

	// GenerateScene returns a scene JSON document visualizing the answer.
	// narration is the full explanation text, used to keep the scene
	// consistent with what was said.
	GenerateScene(ctx context.Context, question, narration string) ([]byte, error)
}
