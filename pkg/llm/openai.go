package llm

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/packages/ssestream"
)

var _ Generator = (*OpenAI)(nil)

const (
	oaiFinishReasonStop          = "stop"
	oaiFinishReasonLength        = "length"
	oaiFinishReasonContentFilter = "content_filter"
)

// OpenAI implements Generator against OpenAI-compatible chat completion
// APIs.
type OpenAI struct {
	Client *openai.Client
	Model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAI{Client: &client, Model: model}
}

func (g *OpenAI) StreamText(ctx context.Context, question string) (Stream, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(explainPrompt),
			openai.UserMessage(question),
		},
	}
	sb := NewStreamBuilder(32)
	go func() {
		if err := oaiPull(sb, g.Client.Chat.Completions.NewStreaming(ctx, params)); err != nil {
			sb.Abort(err)
		}
	}()
	return sb.Stream(), nil
}

func oaiPull(sb *StreamBuilder, stream *ssestream.Stream[openai.ChatCompletionChunk]) error {
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		sel := chunk.Choices[0]
		if sel.Delta.Content != "" {
			if err := sb.Add(sel.Delta.Content); err != nil {
				return err
			}
		}
		switch sel.FinishReason {
		case oaiFinishReasonStop:
			return sb.Done()
		case oaiFinishReasonLength:
			return sb.Abort(ErrTruncated)
		case oaiFinishReasonContentFilter:
			return sb.Abort(fmt.Errorf("%w: %s", ErrBlocked, sel.Delta.Refusal))
		}
		if sel.Delta.Refusal != "" {
			return sb.Abort(fmt.Errorf("%w: %s", ErrBlocked, sel.Delta.Refusal))
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	return sb.Done()
}

func (g *OpenAI) GenerateScene(ctx context.Context, question, narration string) ([]byte, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scenePrompt),
			openai.UserMessage(sceneUserPrompt(question, narration)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "scene",
					Description: param.NewOpt("animated 2D scene document"),
					Schema:      (any)(oaiFormatSchema(sceneSchema().CloneSchemas())),
					Strict:      param.NewOpt(true),
				},
			},
		},
	}
	resp, err := g.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("%w: %s", ErrBlocked, choice.Message.Refusal)
	}
	if choice.FinishReason != oaiFinishReasonStop {
		return nil, fmt.Errorf("unexpected finish reason: %s", choice.FinishReason)
	}
	return []byte(choice.Message.Content), nil
}

// oaiFormatSchema rewrites a schema for OpenAI strict structured outputs:
// every object gets additionalProperties: false and all properties become
// required, with optional ones made nullable instead.
//
// See https://platform.openai.com/docs/guides/structured-outputs
func oaiFormatSchema(m *jsonschema.Schema) *jsonschema.Schema {
	if m == nil {
		return nil
	}
	typ := m.Type
	if typ == "" {
		// Nullable fields carry Types: [..., "null"] with Type unset.
		for _, t := range m.Types {
			if t != "null" && t != "" {
				typ = t
				break
			}
		}
	}
	switch typ {
	case "array":
		m.Items = oaiFormatSchema(m.Items)
	case "object":
		m.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}} // false schema

		requires := make(map[string]struct{})
		for _, v := range m.Required {
			requires[v] = struct{}{}
		}
		for k, v := range m.Properties {
			if _, ok := requires[k]; !ok {
				requires[k] = struct{}{}
				if !slices.Contains(v.Types, "null") {
					if v.Type != "" {
						v.Types = append(v.Types, v.Type)
						v.Type = ""
					}
					v.Types = append(v.Types, "null")
				}
			}
			m.Properties[k] = oaiFormatSchema(v)
		}
		m.Required = slices.Collect(maps.Keys(requires))
	}
	return m
}
