package commands

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chalktalk/chalktalk/pkg/httpapi"
	"github.com/chalktalk/chalktalk/pkg/hub"
	"github.com/chalktalk/chalktalk/pkg/kv"
	"github.com/chalktalk/chalktalk/pkg/llm"
	"github.com/chalktalk/chalktalk/pkg/qa"
)

type failingGenerator struct{}

func (failingGenerator) StreamText(ctx context.Context, question string) (llm.Stream, error) {
	return nil, errors.New("backend down")
}

func (failingGenerator) GenerateScene(ctx context.Context, question, narration string) ([]byte, error) {
	return nil, errors.New("backend down")
}

func newAskTestServer(t *testing.T, gen llm.Generator) *httptest.Server {
	t.Helper()
	mem := kv.NewMemory()
	t.Cleanup(func() { mem.Close() })
	store := qa.NewStore(mem)
	h := hub.New()
	srv := httpapi.NewServer(store, h, qa.NewCoordinator(store, h, gen), "test-model")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// A failing backend falls back within microseconds of submission, so the
// answer can complete before a late subscriber is listening. runAsk must
// still see the completion and return.
func TestRunAskSeesInstantAnswer(t *testing.T) {
	ts := newAskTestServer(t, failingGenerator{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out strings.Builder
	answerID, err := runAsk(ctx, ts.URL, "u1", "what holds atoms together", &out)
	if err != nil {
		t.Fatalf("runAsk: %v", err)
	}
	if answerID == "" {
		t.Fatal("runAsk returned empty answer id")
	}
	if !strings.Contains(out.String(), "what holds atoms together") {
		t.Fatalf("output %q does not reference the question", out.String())
	}
}

func TestRunAskStreamsPartials(t *testing.T) {
	ts := newAskTestServer(t, &chunkGenerator{chunks: []string{"Air ", "scatters ", "blue light."}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out strings.Builder
	if _, err := runAsk(ctx, ts.URL, "u1", "why is the sky blue", &out); err != nil {
		t.Fatalf("runAsk: %v", err)
	}
	if got := strings.TrimSuffix(out.String(), "\n"); got != "Air scatters blue light." {
		t.Fatalf("output = %q, want the concatenated chunks", got)
	}
}

type chunkGenerator struct {
	chunks []string
}

func (g *chunkGenerator) StreamText(ctx context.Context, question string) (llm.Stream, error) {
	sb := llm.NewStreamBuilder(len(g.chunks) + 1)
	for _, c := range g.chunks {
		sb.Add(c)
	}
	sb.Done()
	return sb.Stream(), nil
}

func (g *chunkGenerator) GenerateScene(ctx context.Context, question, narration string) ([]byte, error) {
	return []byte(`{"id":"s1","duration":1000,"fps":30,"layers":[]}`), nil
}
