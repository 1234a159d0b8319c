package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

var _ Generator = (*Gemini)(nil)

// Gemini implements Generator using the Google Gemini API.
type Gemini struct {
	Client *genai.Client

	// Model should not start with "models/"
	Model string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &Gemini{Client: client, Model: model}, nil
}

func (g *Gemini) StreamText(ctx context.Context, question string) (Stream, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(explainPrompt)},
		},
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{genai.NewPartFromText(question)},
	}}
	sb := NewStreamBuilder(32)
	go func() {
		if err := geminiPull(sb, g.Client.Models.GenerateContentStream(ctx, g.Model, contents, cfg)); err != nil {
			sb.Abort(geminiUnwrap(err))
		}
	}()
	return sb.Stream(), nil
}

func geminiPull(sb *StreamBuilder, itr iter.Seq2[*genai.GenerateContentResponse, error]) error {
	for chunk, err := range itr {
		if err != nil {
			return err
		}
		if len(chunk.Candidates) == 0 {
			continue
		}
		sel := chunk.Candidates[0]
		if sel.Content != nil {
			for _, p := range sel.Content.Parts {
				if p.Text == "" {
					continue
				}
				if err := sb.Add(p.Text); err != nil {
					return err
				}
			}
		}
		switch sel.FinishReason {
		case genai.FinishReasonUnspecified, "":
			// continue
		case genai.FinishReasonStop:
			return sb.Done()
		case genai.FinishReasonMaxTokens:
			return sb.Abort(ErrTruncated)
		case genai.FinishReasonSafety:
			var cats []string
			for _, sr := range sel.SafetyRatings {
				if sr.Blocked {
					cats = append(cats, string(sr.Category))
				}
			}
			return sb.Abort(fmt.Errorf("%w: %s", ErrBlocked, strings.Join(cats, ", ")))
		default:
			return sb.Abort(fmt.Errorf("unexpected finish reason: %s", sel.FinishReason))
		}
	}
	return sb.Done()
}

func (g *Gemini) GenerateScene(ctx context.Context, question, narration string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(scenePrompt)},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiConvSchema(sceneSchema()),
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{genai.NewPartFromText(sceneUserPrompt(question, narration))},
	}}
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, contents, cfg)
	if err != nil {
		return nil, geminiUnwrap(err)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoChoices
	}
	sel := resp.Candidates[0]
	if sel.FinishReason != genai.FinishReasonStop {
		if sel.FinishReason == genai.FinishReasonMaxTokens {
			return nil, ErrTruncated
		}
		return nil, fmt.Errorf("unexpected finish reason: %s", sel.FinishReason)
	}
	var sb strings.Builder
	for _, p := range sel.Content.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return []byte(sb.String()), nil
}

func geminiUnwrap(err error) error {
	if e, ok := err.(*apierror.APIError); ok {
		return e.Unwrap()
	}
	return err
}

func geminiConvSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	enums := make([]string, 0, len(schema.Enum))
	for _, v := range schema.Enum {
		enums = append(enums, fmt.Sprintf("%v", v))
	}

	gs := genai.Schema{
		Format:      schema.Format,
		Description: schema.Description,
		Enum:        enums,
		Items:       geminiConvSchema(schema.Items),
		Required:    schema.Required,
	}

	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = geminiConvSchema(prop)
		}
	}
	switch schema.Type {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}
