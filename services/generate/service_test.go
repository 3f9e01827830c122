package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quizbank/config"
	"quizbank/models"
)

type insertedQuestion struct {
	id         int
	subTopicID int
	item       models.GeneratedItem
}

type insertedChoice struct {
	text      string
	isCorrect bool
}

// fakeTaxonomyRepo mirrors the get-or-create upsert semantics in memory.
type fakeTaxonomyRepo struct {
	topics    map[string]int
	subTopics map[string]int
	questions []insertedQuestion
	choices   map[int][]insertedChoice

	// 1-based question insert at which to fail; 0 never fails.
	failQuestionAt  int
	questionInserts int
	nextID          int
}

func newFakeTaxonomyRepo() *fakeTaxonomyRepo {
	return &fakeTaxonomyRepo{
		topics:    make(map[string]int),
		subTopics: make(map[string]int),
		choices:   make(map[int][]insertedChoice),
	}
}

func (r *fakeTaxonomyRepo) UpsertTopic(ctx context.Context, name string) (int, error) {
	if id, ok := r.topics[name]; ok {
		return id, nil
	}
	r.nextID++
	r.topics[name] = r.nextID
	return r.nextID, nil
}

func (r *fakeTaxonomyRepo) UpsertSubTopic(ctx context.Context, topicID int, name string) (int, error) {
	key := fmt.Sprintf("%d/%s", topicID, name)
	if id, ok := r.subTopics[key]; ok {
		return id, nil
	}
	r.nextID++
	r.subTopics[key] = r.nextID
	return r.nextID, nil
}

func (r *fakeTaxonomyRepo) InsertQuestion(ctx context.Context, subTopicID int, item models.GeneratedItem) (int, error) {
	r.questionInserts++
	if r.failQuestionAt > 0 && r.questionInserts >= r.failQuestionAt {
		return 0, errors.New("connection reset")
	}

	r.nextID++
	r.questions = append(r.questions, insertedQuestion{id: r.nextID, subTopicID: subTopicID, item: item})
	return r.nextID, nil
}

func (r *fakeTaxonomyRepo) InsertChoice(ctx context.Context, questionID int, choiceText string, isCorrect bool) error {
	r.choices[questionID] = append(r.choices[questionID], insertedChoice{text: choiceText, isCorrect: isCorrect})
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		APIKeys:                []string{"test-key"},
		PrimaryModel:           "model-primary",
		FallbackModel:          "model-fallback",
		ThinkingBudgetPrimary:  1024,
		ThinkingBudgetFallback: 0,
		CountTiny:              5,
		CountSmall:             25,
		CountLarge:             50,
		FetchTimeout:           2 * time.Second,
	}
}

func TestResolveCount(t *testing.T) {
	service := NewService(testConfig(), &fakeClient{}, newFakeTaxonomyRepo())

	tests := []struct {
		size     string
		expected int
	}{
		{"tiny", 5},
		{"small", 25},
		{"large", 50},
		{"LARGE", 50},
		{"  tiny  ", 5},
		{"", 25},
		{"gigantic", 25},
	}

	for _, tt := range tests {
		if got := service.ResolveCount(tt.size); got != tt.expected {
			t.Errorf("ResolveCount(%q) = %d, expected %d", tt.size, got, tt.expected)
		}
	}
}

func TestGenerateFromTextPersistsNormalizedQuestions(t *testing.T) {
	payload := `[
		{"question_text": "q1", "choices": ["a", "b", "c", "d"], "correct_index": 2, "topic": "Biology", "sub_topic": "Cells"},
		{"question_text": "q2", "choices": ["a", "b", "c", "d"], "correct_index": 0, "topic": "Chemistry"}
	]`
	client := &fakeClient{responses: []string{payload}}
	repo := newFakeTaxonomyRepo()
	service := NewService(testConfig(), client, repo)

	result, err := service.GenerateFromText(context.Background(), &models.GenerateTextRequest{
		Text: "cell membranes and transport",
		Size: "tiny",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != "ok" || result.Requested != 5 || result.Created != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Topic != "Biology" {
		t.Errorf("expected the first item topic to unify the batch, got %q", result.Topic)
	}

	// Both items land under one topic despite the second item disagreeing.
	if len(repo.topics) != 1 {
		t.Errorf("expected a single topic row, got %v", repo.topics)
	}
	if _, ok := repo.topics["Biology"]; !ok {
		t.Errorf("expected topic Biology, got %v", repo.topics)
	}

	if len(repo.questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(repo.questions))
	}

	// Exactly one correct choice, at the declared index.
	q1 := repo.questions[0]
	choices := repo.choices[q1.id]
	if len(choices) != 4 {
		t.Fatalf("expected 4 choices, got %d", len(choices))
	}
	for idx, choice := range choices {
		if choice.isCorrect != (idx == 2) {
			t.Errorf("choice %d correctness = %v, expected %v", idx, choice.isCorrect, idx == 2)
		}
	}

	// The model call carries the material and the rendered instructions.
	if len(client.calls) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(client.calls))
	}
	if len(client.calls[0].Parts) != 2 {
		t.Errorf("expected material part plus prompt part, got %d parts", len(client.calls[0].Parts))
	}
}

func TestGenerateTruncatesToRequestedCount(t *testing.T) {
	items := make([]string, 8)
	for i := range items {
		items[i] = fmt.Sprintf(`{"question_text": "q%d", "choices": ["a", "b", "c", "d"], "correct_index": 0}`, i)
	}
	client := &fakeClient{responses: []string{"[" + strings.Join(items, ",") + "]"}}
	repo := newFakeTaxonomyRepo()
	service := NewService(testConfig(), client, repo)

	result, err := service.GenerateFromText(context.Background(), &models.GenerateTextRequest{
		Text: "material",
		Size: "tiny",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Created != 5 || len(repo.questions) != 5 {
		t.Errorf("expected exactly the requested 5 questions, got created=%d persisted=%d",
			result.Created, len(repo.questions))
	}
}

func TestGenerateFailsFastWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.APIKeys = nil
	client := &fakeClient{}
	repo := newFakeTaxonomyRepo()
	service := NewService(cfg, client, repo)

	_, err := service.GenerateFromText(context.Background(), &models.GenerateTextRequest{Text: "material"})
	assertErrorCode(t, err, CodeMissingAPIKey)

	if len(client.calls) != 0 || len(client.uploads) != 0 {
		t.Error("expected no backend activity without a credential")
	}
	if len(repo.questions) != 0 {
		t.Error("expected no writes without a credential")
	}
}

func TestGenerateSurfacesPartialPersistence(t *testing.T) {
	payload := `[
		{"question_text": "q1", "choices": ["a", "b", "c", "d"], "correct_index": 0},
		{"question_text": "q2", "choices": ["a", "b", "c", "d"], "correct_index": 1}
	]`
	client := &fakeClient{responses: []string{payload}}
	repo := newFakeTaxonomyRepo()
	repo.failQuestionAt = 2
	service := NewService(testConfig(), client, repo)

	_, err := service.GenerateFromText(context.Background(), &models.GenerateTextRequest{
		Text: "material",
		Size: "tiny",
	})
	assertErrorCode(t, err, CodePersistFailed)

	if !strings.Contains(err.Error(), "persisted 1 of 2") {
		t.Errorf("expected the error to report progress, got %q", err.Error())
	}
	if len(repo.questions) != 1 {
		t.Errorf("the first item stays persisted, got %d questions", len(repo.questions))
	}
}

func TestRepeatedRunsShareTopicRows(t *testing.T) {
	payload := `[{"question_text": "q", "choices": ["a", "b", "c", "d"], "correct_index": 0}]`
	client := &fakeClient{responses: []string{payload, payload}}
	repo := newFakeTaxonomyRepo()
	service := NewService(testConfig(), client, repo)

	for i := 0; i < 2; i++ {
		result, err := service.GenerateFromText(context.Background(), &models.GenerateTextRequest{
			Text:  "material",
			Size:  "tiny",
			Topic: "Math",
		})
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if result.Topic != "Math" {
			t.Errorf("run %d: expected topic Math, got %q", i, result.Topic)
		}
	}

	if len(repo.topics) != 1 {
		t.Errorf("expected both runs to resolve the same topic row, got %v", repo.topics)
	}
	if len(repo.questions) != 2 {
		t.Errorf("questions are never deduplicated, expected 2, got %d", len(repo.questions))
	}
}

func TestGenerateRejectsInvalidModelPayload(t *testing.T) {
	client := &fakeClient{responses: []string{"the model rambled instead of calling the tool"}}
	repo := newFakeTaxonomyRepo()
	service := NewService(testConfig(), client, repo)

	_, err := service.GenerateFromText(context.Background(), &models.GenerateTextRequest{Text: "material"})
	assertErrorCode(t, err, CodeInvalidModelOutput)

	if len(repo.questions) != 0 {
		t.Error("nothing may be persisted from an unparseable response")
	}
}
