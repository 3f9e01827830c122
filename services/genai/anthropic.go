package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Leaves headroom for long explanation fields on large batches; thinking
// tokens are budgeted on top of this.
const maxOutputTokens = 32000

// AnthropicClient implements Client against the Anthropic Messages API. It is
// stateless: the per-invocation credential arrives with each request.
type AnthropicClient struct{}

func NewAnthropicClient() *AnthropicClient {
	return &AnthropicClient{}
}

func (c *AnthropicClient) UploadBlob(ctx context.Context, data []byte, mimeType string) (Part, error) {
	if len(data) == 0 {
		return Part{}, fmt.Errorf("blob is empty")
	}

	return Part{kind: partBlob, data: data, mimeType: mimeType}, nil
}

func (c *AnthropicClient) GenerateQuestions(ctx context.Context, params GenerateParams) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(params.APIKey))

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(params.Parts))
	for _, part := range params.Parts {
		block, err := contentBlock(part)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(params.Model),
		MaxTokens: maxOutputTokens + params.ThinkingBudget,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        questionToolName,
					Description: anthropic.String(questionToolDescription),
					InputSchema: questionListSchema(),
				},
			},
		},
	}

	// The API rejects a forced tool choice while extended thinking is on, so
	// the tool is only forced when the budget is zero.
	if params.ThinkingBudget > 0 {
		req.Thinking = anthropic.ThinkingConfigParamUnion{
			OfEnabled: &anthropic.ThinkingConfigEnabledParam{BudgetTokens: params.ThinkingBudget},
		}
	} else {
		req.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: questionToolName},
		}
	}

	log.Printf("[INFO] Calling model %s with %d content parts", params.Model, len(params.Parts))
	resp, err := client.Messages.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	return extractQuestionPayload(resp)
}

func contentBlock(part Part) (anthropic.ContentBlockParamUnion, error) {
	switch part.kind {
	case partText:
		return anthropic.NewTextBlock(part.text), nil

	case partBlob:
		source, err := documentSource(part)
		if err != nil {
			return anthropic.ContentBlockParamUnion{}, err
		}
		return anthropic.ContentBlockParamUnion{
			OfDocument: &anthropic.DocumentBlockParam{Source: source},
		}, nil

	case partRemote:
		return anthropic.ContentBlockParamUnion{
			OfDocument: &anthropic.DocumentBlockParam{
				Source: anthropic.DocumentBlockParamSourceUnion{
					OfURL: &anthropic.URLPDFSourceParam{URL: part.url},
				},
			},
		}, nil

	default:
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("unknown content part kind %d", part.kind)
	}
}

func documentSource(part Part) (anthropic.DocumentBlockParamSourceUnion, error) {
	switch part.mimeType {
	case "application/pdf":
		return anthropic.DocumentBlockParamSourceUnion{
			OfBase64: &anthropic.Base64PDFSourceParam{
				Data: base64.StdEncoding.EncodeToString(part.data),
			},
		}, nil

	case "text/html", "text/plain":
		return anthropic.DocumentBlockParamSourceUnion{
			OfText: &anthropic.PlainTextSourceParam{Data: string(part.data)},
		}, nil

	default:
		return anthropic.DocumentBlockParamSourceUnion{}, fmt.Errorf("no document source for mime type %q", part.mimeType)
	}
}

// extractQuestionPayload pulls the raw question-array JSON out of the tool
// call. A model that answered in plain text instead is passed through as-is
// and left to the parse stage to accept or reject.
func extractQuestionPayload(resp *anthropic.Message) (string, error) {
	var text strings.Builder

	for _, block := range resp.Content {
		switch block := block.AsAny().(type) {
		case anthropic.ToolUseBlock:
			if block.Name != questionToolName {
				continue
			}

			inputJSON, err := json.Marshal(block.Input)
			if err != nil {
				return "", fmt.Errorf("failed to marshal tool input: %w", err)
			}

			var input struct {
				Questions json.RawMessage `json:"questions"`
			}
			if err := json.Unmarshal(inputJSON, &input); err == nil && len(input.Questions) > 0 {
				return string(input.Questions), nil
			}

			return string(inputJSON), nil

		case anthropic.TextBlock:
			text.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(text.String()), nil
}
