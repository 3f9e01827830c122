package generate

import (
	"context"
	"errors"
	"log"
	"net/http"

	"quizbank/services/genai"
)

// Invoker runs the two-tier model call: the primary model first, then exactly
// one fallback attempt against the secondary model when the primary fails
// with an overload-class error. The fallback runs at a reduced thinking
// budget, trading quality for availability. Any other failure propagates
// immediately.
type Invoker struct {
	client         genai.Client
	creds          *CredentialSelector
	primaryModel   string
	fallbackModel  string
	primaryBudget  int64
	fallbackBudget int64
}

func NewInvoker(client genai.Client, creds *CredentialSelector, primaryModel, fallbackModel string, primaryBudget, fallbackBudget int64) *Invoker {
	return &Invoker{
		client:         client,
		creds:          creds,
		primaryModel:   primaryModel,
		fallbackModel:  fallbackModel,
		primaryBudget:  primaryBudget,
		fallbackBudget: fallbackBudget,
	}
}

func (iv *Invoker) Invoke(ctx context.Context, parts []genai.Part) (string, error) {
	raw, err := iv.attempt(ctx, iv.primaryModel, iv.primaryBudget, parts)
	if err == nil {
		return raw, nil
	}

	var pipelineErr *Error
	if errors.As(err, &pipelineErr) {
		return "", pipelineErr
	}

	if !genai.IsOverloaded(err) {
		return "", newError(CodeGenerationFailed, http.StatusBadGateway, err)
	}

	log.Printf("[INFO] Primary model %s overloaded, falling back to %s", iv.primaryModel, iv.fallbackModel)

	raw, err = iv.attempt(ctx, iv.fallbackModel, iv.fallbackBudget, parts)
	if err != nil {
		// The fallback outcome is final, overloaded or not.
		if errors.As(err, &pipelineErr) {
			return "", pipelineErr
		}
		return "", newError(CodeGenerationFailed, http.StatusBadGateway, err)
	}

	return raw, nil
}

func (iv *Invoker) attempt(ctx context.Context, model string, budget int64, parts []genai.Part) (string, error) {
	key, err := iv.creds.Pick()
	if err != nil {
		return "", err
	}

	return iv.client.GenerateQuestions(ctx, genai.GenerateParams{
		APIKey:         key,
		Model:          model,
		Parts:          parts,
		ThinkingBudget: budget,
	})
}
