package db

import (
	"context"
	"fmt"
	"strings"

	"quizbank/models"
)

// TaxonomyRepository persists the topic -> sub-topic -> question -> choice
// hierarchy. Topic and sub-topic writes are get-or-create upserts keyed by
// name; question and choice writes are unconditional inserts.
type TaxonomyRepository interface {
	UpsertTopic(ctx context.Context, name string) (int, error)
	UpsertSubTopic(ctx context.Context, topicID int, name string) (int, error)
	InsertQuestion(ctx context.Context, subTopicID int, item models.GeneratedItem) (int, error)
	InsertChoice(ctx context.Context, questionID int, choiceText string, isCorrect bool) error
}

type PostgresTaxonomyRepository struct {
	db *Database
}

func NewPostgresTaxonomyRepository(db *Database) *PostgresTaxonomyRepository {
	return &PostgresTaxonomyRepository{db: db}
}

// UpsertTopic returns the id for the topic name, inserting it on first use.
// The no-op DO UPDATE makes RETURNING yield the existing id on conflict.
func (r *PostgresTaxonomyRepository) UpsertTopic(ctx context.Context, name string) (int, error) {
	query := `
		INSERT INTO topics (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int
	if err := r.db.QueryRow(ctx, query, strings.TrimSpace(name)).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert topic %q: %w", name, err)
	}

	return id, nil
}

func (r *PostgresTaxonomyRepository) UpsertSubTopic(ctx context.Context, topicID int, name string) (int, error) {
	query := `
		INSERT INTO sub_topics (topic_id, name)
		VALUES ($1, $2)
		ON CONFLICT (topic_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int
	if err := r.db.QueryRow(ctx, query, topicID, strings.TrimSpace(name)).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert sub-topic %q: %w", name, err)
	}

	return id, nil
}

func (r *PostgresTaxonomyRepository) InsertQuestion(ctx context.Context, subTopicID int, item models.GeneratedItem) (int, error) {
	query := `
		INSERT INTO questions (sub_topic_id, question_text, explanation, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int
	err := r.db.QueryRow(ctx, query,
		subTopicID,
		item.QuestionText,
		nullIfEmpty(item.Explanation),
		nullIfEmpty(item.ImageURL),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question: %w", err)
	}

	return id, nil
}

func (r *PostgresTaxonomyRepository) InsertChoice(ctx context.Context, questionID int, choiceText string, isCorrect bool) error {
	query := `
		INSERT INTO choices (question_id, choice_text, is_correct)
		VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, query, questionID, choiceText, isCorrect); err != nil {
		return fmt.Errorf("failed to insert choice: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
