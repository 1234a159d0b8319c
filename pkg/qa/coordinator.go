package qa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chalktalk/chalktalk/pkg/hub"
	"github.com/chalktalk/chalktalk/pkg/llm"
	"github.com/chalktalk/chalktalk/pkg/scene"
)

var ErrMissingField = errors.New("qa: missing required field")

// fallbackDuration is the scene length of a synthesized fallback answer.
const fallbackDuration = 7000

// startedPayload is broadcast as generation_started.
type startedPayload struct {
	ID         string `json:"id"` // answer id
	QuestionID string `json:"questionId"`
}

// partialPayload is broadcast as answer_partial. TextPartial always
// carries the full accumulated text so a viewer joining mid-stream sees
// correct output.
type partialPayload struct {
	ID          string `json:"id"` // answer id
	TextPartial string `json:"textPartial"`
	QuestionID  string `json:"questionId"`
}

// Coordinator runs one generation sequence per submitted question:
// insert the question, stream the explanation, generate the scene, and
// insert the completed answer, broadcasting lifecycle events throughout.
// Backend failures are masked with a deterministic fallback answer.
type Coordinator struct {
	store *Store
	hub   *hub.Hub
	gen   llm.Generator

	wg sync.WaitGroup
}

func NewCoordinator(store *Store, h *hub.Hub, gen llm.Generator) *Coordinator {
	return &Coordinator{store: store, hub: h, gen: gen}
}

// Submit validates and records a question, then starts generation in the
// background. The returned ids identify the question and its future
// answer. Generation runs to completion even if ctx is cancelled, since
// the store keeps the result for later retrieval.
func (c *Coordinator) Submit(ctx context.Context, userID, question string) (questionID, answerID string, err error) {
	userID = strings.TrimSpace(userID)
	question = strings.TrimSpace(question)
	if userID == "" {
		return "", "", fmt.Errorf("%w: userId", ErrMissingField)
	}
	if question == "" {
		return "", "", fmt.Errorf("%w: question", ErrMissingField)
	}

	q := &Question{
		ID:        uuid.NewString(),
		UserID:    userID,
		Question:  question,
		AnswerID:  uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
	}
	if err := c.store.InsertQuestion(ctx, q); err != nil {
		return "", "", err
	}
	c.hub.Broadcast(hub.EventQuestionCreated, q)
	c.hub.Broadcast(hub.EventGenerationStarted, startedPayload{
		ID:         q.AnswerID,
		QuestionID: q.ID,
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.generate(context.WithoutCancel(ctx), q)
	}()
	return q.ID, q.AnswerID, nil
}

// Wait blocks until all in-flight generations finish.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) generate(ctx context.Context, q *Question) {
	a := &Answer{
		ID:         q.AnswerID,
		QuestionID: q.ID,
	}

	text, err := c.streamText(ctx, q)
	if err != nil {
		slog.Error("qa: text generation failed", "question", q.ID, "error", err)
		c.fallback(ctx, q, a)
		return
	}
	a.Text = text

	raw, err := c.gen.GenerateScene(ctx, q.Question, text)
	if err != nil {
		slog.Error("qa: scene generation failed", "question", q.ID, "error", err)
		c.fallback(ctx, q, a)
		return
	}
	viz, err := scene.Decode(raw)
	if err != nil {
		// The explanation is already good; play it over an empty scene
		// rather than discarding it.
		slog.Warn("qa: scene unusable, substituting empty scene", "question", q.ID, "error", err)
		viz = scene.Normalize(&scene.Visualization{})
	}
	a.Visualization = viz
	a.Timestamp = time.Now().UnixMilli()

	c.complete(ctx, q, a)
}

// streamText consumes the explanation stream, broadcasting the full
// accumulated text after every chunk.
func (c *Coordinator) streamText(ctx context.Context, q *Question) (string, error) {
	stream, err := c.gen.StreamText(ctx, q.Question)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var acc strings.Builder
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		acc.WriteString(chunk)
		c.hub.Broadcast(hub.EventAnswerPartial, partialPayload{
			ID:          q.AnswerID,
			TextPartial: acc.String(),
			QuestionID:  q.ID,
		})
	}
	return acc.String(), nil
}

// fallback synthesizes a deterministic answer so the submission contract
// ("you will receive an answer") holds even when the backend fails.
func (c *Coordinator) fallback(ctx context.Context, q *Question, a *Answer) {
	a.Text = fmt.Sprintf(
		"I couldn't put together a full answer to %q just now. Please try asking again in a moment.",
		q.Question,
	)
	a.Visualization = scene.Normalize(&scene.Visualization{Duration: fallbackDuration})
	a.Timestamp = time.Now().UnixMilli()

	c.hub.Broadcast(hub.EventAnswerPartial, partialPayload{
		ID:          a.ID,
		TextPartial: a.Text,
		QuestionID:  q.ID,
	})
	c.complete(ctx, q, a)
}

func (c *Coordinator) complete(ctx context.Context, q *Question, a *Answer) {
	if err := c.store.InsertAnswer(ctx, a); err != nil {
		slog.Error("qa: answer not stored", "answer", a.ID, "error", err)
	}
	c.hub.Broadcast(hub.EventAnswerCreated, a)
	slog.Info("qa: answer completed", "question", q.ID, "answer", a.ID)
}
