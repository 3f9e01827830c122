package genai

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
)

// Part is one backend-agnostic piece of generation input: an uploaded blob
// handle, an inline text part, or a remote reference the backend fetches
// itself.
type Part struct {
	kind     partKind
	text     string
	data     []byte
	mimeType string
	url      string
}

type partKind int

const (
	partText partKind = iota
	partBlob
	partRemote
)

func TextPart(text string) Part {
	return Part{kind: partText, text: text}
}

func RemotePart(url string) Part {
	return Part{kind: partRemote, url: url}
}

// GenerateParams describes one schema-constrained generation call. The
// credential is chosen per invocation, so it travels with the request rather
// than living on the client.
type GenerateParams struct {
	APIKey         string
	Model          string
	Parts          []Part
	ThinkingBudget int64
}

// Client is the generative backend consumed by the pipeline. UploadBlob turns
// raw bytes into an opaque content-part handle; GenerateQuestions runs one
// schema-constrained call and returns the raw JSON payload of the question
// array.
type Client interface {
	UploadBlob(ctx context.Context, data []byte, mimeType string) (Part, error)
	GenerateQuestions(ctx context.Context, params GenerateParams) (string, error)
}

// ErrOverloaded marks the overload class of backend failures: the backend is
// temporarily over capacity and one fallback attempt is warranted.
var ErrOverloaded = errors.New("generation backend overloaded")

// IsOverloaded reports whether err is an overload-class backend failure.
// Status 529 is the backend's over-capacity signal; 503 is treated the same.
func IsOverloaded(err error) bool {
	if errors.Is(err, ErrOverloaded) {
		return true
	}

	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == 529 || apierr.StatusCode == 503
	}

	return false
}
