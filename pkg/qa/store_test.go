package qa_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chalktalk/chalktalk/pkg/kv"
	"github.com/chalktalk/chalktalk/pkg/qa"
	"github.com/chalktalk/chalktalk/pkg/scene"
)

func newTestStore(t *testing.T) *qa.Store {
	t.Helper()
	mem := kv.NewMemory()
	t.Cleanup(func() { mem.Close() })
	return qa.NewStore(mem)
}

func TestQuestionsChronological(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, text := range []string{"first", "second", "third"} {
		q := &qa.Question{ID: "q-" + text, UserID: "u1", Question: text}
		if err := store.InsertQuestion(ctx, q); err != nil {
			t.Fatalf("InsertQuestion: %v", err)
		}
	}

	got, err := store.Questions(ctx)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(Questions) = %d, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Question != want {
			t.Fatalf("Questions[%d] = %q, want %q", i, got[i].Question, want)
		}
	}
}

func TestAnswerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Answer(ctx, "missing"); !errors.Is(err, qa.ErrNotFound) {
		t.Fatalf("Answer(missing) = %v, want ErrNotFound", err)
	}

	a := &qa.Answer{
		ID:         "a1",
		QuestionID: "q1",
		Text:       "the moon orbits the earth",
		Visualization: scene.Normalize(&scene.Visualization{
			ID: "viz1",
			Layers: []scene.Layer{
				{ID: "moon", Type: scene.TypeCircle, Props: map[string]any{"x": 100.0}},
			},
		}),
		Timestamp: 1700000000000,
	}
	if err := store.InsertAnswer(ctx, a); err != nil {
		t.Fatalf("InsertAnswer: %v", err)
	}

	got, err := store.Answer(ctx, "a1")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got.Text != a.Text {
		t.Fatalf("Text = %q, want %q", got.Text, a.Text)
	}
	if got.Visualization == nil || len(got.Visualization.Layers) != 1 {
		t.Fatalf("Visualization = %+v, want 1 layer", got.Visualization)
	}
	if got.Visualization.Layers[0].Type != scene.TypeCircle {
		t.Fatalf("layer type = %q, want circle", got.Visualization.Layers[0].Type)
	}
}
