package generate

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"quizbank/config"
	"quizbank/db"
	"quizbank/models"
	"quizbank/services/genai"

	"github.com/samber/lo"
)

// Service wires the generation pipeline: resolve sources, build the prompt,
// invoke the model and persist the normalized result.
type Service struct {
	fetcher *SourceFetcher
	creds   *CredentialSelector
	invoker *Invoker
	repo    db.TaxonomyRepository

	countTiny    int
	countSmall   int
	countLarge   int
	defaultCount int
}

func NewService(cfg *config.Config, client genai.Client, repo db.TaxonomyRepository) *Service {
	creds := NewCredentialSelector(cfg.APIKeys, cfg.LegacyAPIKey)

	return &Service{
		fetcher: NewSourceFetcher(client, cfg.FetchTimeout),
		creds:   creds,
		invoker: NewInvoker(client, creds,
			cfg.PrimaryModel, cfg.FallbackModel,
			cfg.ThinkingBudgetPrimary, cfg.ThinkingBudgetFallback),
		repo:         repo,
		countTiny:    cfg.CountTiny,
		countSmall:   cfg.CountSmall,
		countLarge:   cfg.CountLarge,
		defaultCount: cfg.CountSmall,
	}
}

func (s *Service) GenerateFromLink(ctx context.Context, req *models.GenerateLinkRequest) (*models.GenerateResult, error) {
	log.Printf("[INFO] Starting generation from link: %s", req.URL)
	return s.run(ctx, LinkSource{URL: req.URL}, req.Size, req.Topic, req.SubTopic)
}

func (s *Service) GenerateFromLinks(ctx context.Context, req *models.GenerateLinksRequest) (*models.GenerateResult, error) {
	log.Printf("[INFO] Starting generation from %d links", len(req.URLs))
	return s.run(ctx, LinkBatchSource{URLs: req.URLs}, req.Size, req.Topic, req.SubTopic)
}

func (s *Service) GenerateFromPDF(ctx context.Context, pdf []byte, size, topic, subTopic string) (*models.GenerateResult, error) {
	log.Printf("[INFO] Starting generation from pdf (%d bytes)", len(pdf))
	return s.run(ctx, PDFSource{Data: pdf}, size, topic, subTopic)
}

func (s *Service) GenerateFromText(ctx context.Context, req *models.GenerateTextRequest) (*models.GenerateResult, error) {
	log.Printf("[INFO] Starting generation from raw text (%d chars)", len(req.Text))
	return s.run(ctx, TextSource{Text: req.Text}, req.Size, req.Topic, req.SubTopic)
}

// ResolveCount maps a size token onto the configured question count. An
// unrecognized token falls back to the small tier.
func (s *Service) ResolveCount(size string) int {
	switch strings.ToLower(strings.TrimSpace(size)) {
	case "tiny":
		return s.countTiny
	case "small":
		return s.countSmall
	case "large":
		return s.countLarge
	default:
		return s.defaultCount
	}
}

func (s *Service) run(ctx context.Context, ref SourceRef, size, topic, subTopic string) (*models.GenerateResult, error) {
	// Credential availability is checked before any network activity; the
	// invoker re-picks per attempt.
	if _, err := s.creds.Pick(); err != nil {
		log.Printf("[ERROR] No usable generation credential configured")
		return nil, err
	}

	parts, err := s.fetcher.Resolve(ctx, ref)
	if err != nil {
		log.Printf("[ERROR] Failed to resolve source: %v", err)
		return nil, err
	}

	count := s.ResolveCount(size)
	parts = append(parts, genai.TextPart(BuildPrompt(count)))

	raw, err := s.invoker.Invoke(ctx, parts)
	if err != nil {
		log.Printf("[ERROR] Generation failed: %v", err)
		return nil, err
	}

	normalized, docTopic, err := Normalize(raw, count, topic, subTopic)
	if err != nil {
		log.Printf("[ERROR] Failed to normalize model output: %v", err)
		return nil, err
	}

	created, err := s.persist(ctx, normalized)
	if err != nil {
		// Earlier items are already persisted; the error says how far we got.
		log.Printf("[ERROR] Persistence stopped after %d of %d items: %v", created, len(normalized), err)
		return nil, newError(CodePersistFailed, http.StatusInternalServerError,
			fmt.Errorf("persisted %d of %d items: %w", created, len(normalized), err))
	}

	subTopics := lo.Uniq(lo.Map(normalized, func(n NormalizedItem, _ int) string {
		return n.SubTopic
	}))
	log.Printf("[INFO] Created %d questions under topic %q (sub-topics: %v)", created, docTopic, subTopics)

	return &models.GenerateResult{
		Status:    "ok",
		Requested: count,
		Created:   created,
		Topic:     docTopic,
	}, nil
}

// persist writes items strictly in order. Writes are best-effort and
// non-atomic across the batch: a failure leaves earlier items in place.
func (s *Service) persist(ctx context.Context, items []NormalizedItem) (int, error) {
	created := 0
	for _, n := range items {
		topicID, err := s.repo.UpsertTopic(ctx, n.Topic)
		if err != nil {
			return created, err
		}

		subTopicID, err := s.repo.UpsertSubTopic(ctx, topicID, n.SubTopic)
		if err != nil {
			return created, err
		}

		questionID, err := s.repo.InsertQuestion(ctx, subTopicID, n.Item)
		if err != nil {
			return created, err
		}

		for idx, choiceText := range n.Item.Choices {
			// An out-of-range correct_index yields a question with no
			// correct choice; the model's answer is taken at face value.
			if err := s.repo.InsertChoice(ctx, questionID, choiceText, idx == n.Item.CorrectIndex); err != nil {
				return created, err
			}
		}

		created++
	}

	return created, nil
}
