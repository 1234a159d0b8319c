package qa_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chalktalk/chalktalk/pkg/hub"
	"github.com/chalktalk/chalktalk/pkg/llm"
	"github.com/chalktalk/chalktalk/pkg/qa"
)

// fakeGenerator scripts backend responses for tests.
type fakeGenerator struct {
	chunks    []string
	textErr   error
	sceneJSON string
	sceneErr  error
}

func (g *fakeGenerator) StreamText(ctx context.Context, question string) (llm.Stream, error) {
	if g.textErr != nil {
		return nil, g.textErr
	}
	sb := llm.NewStreamBuilder(len(g.chunks) + 1)
	for _, c := range g.chunks {
		sb.Add(c)
	}
	sb.Done()
	return sb.Stream(), nil
}

func (g *fakeGenerator) GenerateScene(ctx context.Context, question, narration string) ([]byte, error) {
	if g.sceneErr != nil {
		return nil, g.sceneErr
	}
	return []byte(g.sceneJSON), nil
}

func newTestCoordinator(t *testing.T, gen llm.Generator) (*qa.Coordinator, *qa.Store, *hub.Hub) {
	t.Helper()
	store := newTestStore(t)
	h := hub.New()
	return qa.NewCoordinator(store, h, gen), store, h
}

// drain collects every event already delivered to ch, skipping the
// initial connected event.
func drain(ch <-chan hub.Event) []hub.Event {
	var out []hub.Event
	for {
		select {
		case ev := <-ch:
			if ev.Name == hub.EventConnected {
				continue
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t, &fakeGenerator{})

	if _, _, err := c.Submit(ctx, "", "why is the sky blue?"); !errors.Is(err, qa.ErrMissingField) {
		t.Fatalf("Submit without userId = %v, want ErrMissingField", err)
	}
	if _, _, err := c.Submit(ctx, "u1", "   "); !errors.Is(err, qa.ErrMissingField) {
		t.Fatalf("Submit with blank question = %v, want ErrMissingField", err)
	}
}

func TestSubmitFullFlow(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{
		chunks: []string{"Photosynthesis ", "turns light ", "into sugar."},
		sceneJSON: `{"id":"viz1","duration":6000,"fps":30,"layers":[
			{"id":"sun","type":"circle","props":{"x":100,"y":80,"r":40}}
		]}`,
	}
	c, store, h := newTestCoordinator(t, gen)
	_, ch := h.Subscribe()

	qid, aid, err := c.Submit(ctx, "u1", "What is photosynthesis?")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	c.Wait()

	events := drain(ch)
	if len(events) < 4 {
		t.Fatalf("got %d events, want at least 4: %v", len(events), events)
	}
	if events[0].Name != hub.EventQuestionCreated {
		t.Fatalf("events[0] = %s, want question_created", events[0].Name)
	}
	if events[1].Name != hub.EventGenerationStarted {
		t.Fatalf("events[1] = %s, want generation_started", events[1].Name)
	}

	// Partials carry the full accumulated text, non-decreasing in length.
	var lastPartial string
	for _, ev := range events[2 : len(events)-1] {
		if ev.Name != hub.EventAnswerPartial {
			t.Fatalf("mid-stream event = %s, want answer_partial", ev.Name)
		}
		var p struct {
			ID          string `json:"id"`
			TextPartial string `json:"textPartial"`
			QuestionID  string `json:"questionId"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			t.Fatalf("partial payload: %v", err)
		}
		if p.ID != aid || p.QuestionID != qid {
			t.Fatalf("partial ids = (%s, %s), want (%s, %s)", p.ID, p.QuestionID, aid, qid)
		}
		if len(p.TextPartial) < len(lastPartial) {
			t.Fatalf("partial text shrank: %q after %q", p.TextPartial, lastPartial)
		}
		lastPartial = p.TextPartial
	}

	last := events[len(events)-1]
	if last.Name != hub.EventAnswerCreated {
		t.Fatalf("final event = %s, want answer_created", last.Name)
	}
	var final qa.Answer
	if err := json.Unmarshal(last.Data, &final); err != nil {
		t.Fatalf("answer payload: %v", err)
	}
	if final.Text != lastPartial {
		t.Fatalf("final text %q != last partial %q", final.Text, lastPartial)
	}

	stored, err := store.Answer(ctx, aid)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if stored.Text != "Photosynthesis turns light into sugar." {
		t.Fatalf("stored text = %q", stored.Text)
	}
	if stored.Visualization == nil || len(stored.Visualization.Layers) != 1 {
		t.Fatalf("stored visualization = %+v, want 1 layer", stored.Visualization)
	}
}

func TestFallbackMasksBackendFailure(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{textErr: errors.New("backend unreachable")}
	c, store, h := newTestCoordinator(t, gen)
	_, ch := h.Subscribe()

	question := "What is photosynthesis?"
	_, aid, err := c.Submit(ctx, "u1", question)
	if err != nil {
		t.Fatalf("Submit = %v, want masked success", err)
	}
	c.Wait()

	stored, err := store.Answer(ctx, aid)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.Contains(stored.Text, question) {
		t.Fatalf("fallback text %q does not reference the question", stored.Text)
	}
	if stored.Visualization == nil || stored.Visualization.Duration != 7000 {
		t.Fatalf("fallback visualization = %+v, want duration 7000", stored.Visualization)
	}
	if len(stored.Visualization.Layers) != 0 {
		t.Fatalf("fallback layers = %d, want 0", len(stored.Visualization.Layers))
	}

	events := drain(ch)
	if events[len(events)-1].Name != hub.EventAnswerCreated {
		t.Fatalf("final event = %s, want answer_created", events[len(events)-1].Name)
	}
}

func TestUnusableSceneKeepsText(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{
		chunks:    []string{"The explanation survives."},
		sceneJSON: `"not a scene object"`,
	}
	c, store, _ := newTestCoordinator(t, gen)

	_, aid, err := c.Submit(ctx, "u1", "why?")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	c.Wait()

	stored, err := store.Answer(ctx, aid)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if stored.Text != "The explanation survives." {
		t.Fatalf("text = %q", stored.Text)
	}
	if stored.Visualization == nil || len(stored.Visualization.Layers) != 0 {
		t.Fatalf("visualization = %+v, want empty scene", stored.Visualization)
	}
}
