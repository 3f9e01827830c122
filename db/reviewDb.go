package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quizbank/models"
)

// ReviewRepository covers the read side of the question bank: listings,
// question sampling, answer submission and the streak counters.
type ReviewRepository interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
	ListSubTopics(ctx context.Context, topicID int) ([]models.SubTopic, error)
	SampleSubTopicQuestions(ctx context.Context, subTopicID, userID, limit int) ([]models.Question, error)
	SampleRandomQuestions(ctx context.Context, userID, limit int) ([]models.Question, error)
	GetChoice(ctx context.Context, choiceID int) (*models.Choice, error)
	GetCorrectChoiceID(ctx context.Context, questionID int) (int, error)
	InsertAnswer(ctx context.Context, userID, questionID, choiceID int, isCorrect bool) error
	CountTodayAnswers(ctx context.Context, userID int, day time.Time) (int, error)
	CurrentStreakDays(ctx context.Context, userID int, day time.Time, goal int) (int, error)
}

type PostgresReviewRepository struct {
	db *Database
}

func NewPostgresReviewRepository(db *Database) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM topics ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over topics: %w", err)
	}

	return topics, nil
}

func (r *PostgresReviewRepository) ListSubTopics(ctx context.Context, topicID int) ([]models.SubTopic, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, name, topic_id FROM sub_topics WHERE topic_id = $1 ORDER BY name ASC",
		topicID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-topics: %w", err)
	}
	defer rows.Close()

	subTopics := make([]models.SubTopic, 0)
	for rows.Next() {
		var st models.SubTopic
		if err := rows.Scan(&st.ID, &st.Name, &st.TopicID); err != nil {
			return nil, fmt.Errorf("failed to scan sub-topic: %w", err)
		}
		subTopics = append(subTopics, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over sub-topics: %w", err)
	}

	return subTopics, nil
}

// Sampling is a single round trip: TABLESAMPLE picks a cheap random subset,
// the fallback CTE tops up from a full scan when the sample comes back short.
const sampleSubTopicQuestionsQuery = `
	WITH answered AS (
	    SELECT question_id FROM user_answers WHERE user_id = $2
	),
	sampled AS (
	    SELECT q.id
	    FROM questions q TABLESAMPLE SYSTEM (50)
	    WHERE q.sub_topic_id = $1
	      AND NOT EXISTS (SELECT 1 FROM answered a WHERE a.question_id = q.id)
	    LIMIT $3
	),
	fallback AS (
	    SELECT q.id
	    FROM questions q
	    WHERE q.sub_topic_id = $1
	      AND NOT EXISTS (SELECT 1 FROM answered a WHERE a.question_id = q.id)
	      AND NOT EXISTS (SELECT 1 FROM sampled s WHERE s.id = q.id)
	    ORDER BY q.id
	    LIMIT GREATEST(0, $3 - (SELECT COUNT(*) FROM sampled))
	),
	final_ids AS (
	    SELECT id FROM sampled
	    UNION ALL
	    SELECT id FROM fallback
	)
	SELECT q.id, q.sub_topic_id, q.question_text, q.explanation, q.image_url,
	       c.id AS choice_id, c.choice_text, c.is_correct
	FROM final_ids f
	JOIN questions q ON q.id = f.id
	JOIN choices c ON c.question_id = q.id
	ORDER BY q.id, c.id
	LIMIT $3 * 10`

const sampleRandomQuestionsQuery = `
	WITH answered AS (
	    SELECT question_id FROM user_answers WHERE user_id = $1
	),
	sampled AS (
	    SELECT q.id
	    FROM questions q TABLESAMPLE SYSTEM (50)
	    WHERE NOT EXISTS (SELECT 1 FROM answered a WHERE a.question_id = q.id)
	    LIMIT $2
	),
	fallback AS (
	    SELECT q.id
	    FROM questions q
	    WHERE NOT EXISTS (SELECT 1 FROM answered a WHERE a.question_id = q.id)
	      AND NOT EXISTS (SELECT 1 FROM sampled s WHERE s.id = q.id)
	    ORDER BY q.id
	    LIMIT GREATEST(0, $2 - (SELECT COUNT(*) FROM sampled))
	),
	final_ids AS (
	    SELECT id FROM sampled
	    UNION ALL
	    SELECT id FROM fallback
	)
	SELECT q.id, q.sub_topic_id, q.question_text, q.explanation, q.image_url,
	       c.id AS choice_id, c.choice_text, c.is_correct
	FROM final_ids f
	JOIN questions q ON q.id = f.id
	JOIN choices c ON c.question_id = q.id
	ORDER BY q.id, c.id
	LIMIT $2 * 10`

func (r *PostgresReviewRepository) SampleSubTopicQuestions(ctx context.Context, subTopicID, userID, limit int) ([]models.Question, error) {
	rows, err := r.db.Query(ctx, sampleSubTopicQuestionsQuery, subTopicID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample sub-topic questions: %w", err)
	}
	defer rows.Close()

	return groupQuestionRows(rows, limit)
}

func (r *PostgresReviewRepository) SampleRandomQuestions(ctx context.Context, userID, limit int) ([]models.Question, error) {
	rows, err := r.db.Query(ctx, sampleRandomQuestionsQuery, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample random questions: %w", err)
	}
	defer rows.Close()

	return groupQuestionRows(rows, limit)
}

// groupQuestionRows folds joined question/choice rows into Question values,
// preserving the query's question order.
func groupQuestionRows(rows *sql.Rows, limit int) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	index := make(map[int]int)

	for rows.Next() {
		var (
			q models.Question
			c models.Choice
		)
		if err := rows.Scan(&q.ID, &q.SubTopicID, &q.QuestionText, &q.Explanation, &q.ImageURL,
			&c.ID, &c.ChoiceText, &c.IsCorrect); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		c.QuestionID = q.ID

		pos, ok := index[q.ID]
		if !ok {
			q.Choices = []models.Choice{}
			questions = append(questions, q)
			pos = len(questions) - 1
			index[q.ID] = pos
		}
		questions[pos].Choices = append(questions[pos].Choices, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over question rows: %w", err)
	}

	if len(questions) > limit {
		questions = questions[:limit]
	}

	return questions, nil
}

func (r *PostgresReviewRepository) GetChoice(ctx context.Context, choiceID int) (*models.Choice, error) {
	choice := &models.Choice{}
	err := r.db.QueryRow(ctx,
		"SELECT id, question_id, choice_text, is_correct FROM choices WHERE id = $1",
		choiceID,
	).Scan(&choice.ID, &choice.QuestionID, &choice.ChoiceText, &choice.IsCorrect)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("choice with id %d not found", choiceID)
		}
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}

	return choice, nil
}

func (r *PostgresReviewRepository) GetCorrectChoiceID(ctx context.Context, questionID int) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		"SELECT id FROM choices WHERE question_id = $1 AND is_correct = TRUE",
		questionID,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("question %d has no correct choice", questionID)
		}
		return 0, fmt.Errorf("failed to get correct choice: %w", err)
	}

	return id, nil
}

func (r *PostgresReviewRepository) InsertAnswer(ctx context.Context, userID, questionID, choiceID int, isCorrect bool) error {
	query := `
		INSERT INTO user_answers (user_id, question_id, choice_id, is_correct)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, userID, questionID, choiceID, isCorrect); err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}

	return nil
}

func (r *PostgresReviewRepository) CountTodayAnswers(ctx context.Context, userID int, day time.Time) (int, error) {
	query := `
		SELECT COUNT(*)::int
		FROM user_answers
		WHERE user_id = $1
		  AND answered_at >= $2::date
		  AND answered_at < ($2::date + INTERVAL '1 day')`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count today's answers: %w", err)
	}

	return count, nil
}

// CurrentStreakDays counts consecutive days ending at day where the user
// answered at least goal questions, all in one SQL pass: daily counts are
// flagged, and a running sum of broken days walking backward from today
// isolates the unbroken prefix.
func (r *PostgresReviewRepository) CurrentStreakDays(ctx context.Context, userID int, day time.Time, goal int) (int, error) {
	query := `
		WITH daily AS (
		    SELECT date_trunc('day', answered_at)::date AS day, COUNT(*)::int AS cnt
		    FROM user_answers
		    WHERE user_id = $1
		    GROUP BY 1
		),
		flagged AS (
		    SELECT day,
		           CASE WHEN cnt >= $3 THEN 0 ELSE 1 END AS broken
		    FROM daily
		),
		gaps AS (
		    SELECT day,
		           SUM(broken) OVER (ORDER BY day DESC ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) AS grp
		    FROM flagged
		    WHERE day <= $2::date
		)
		SELECT COALESCE(COUNT(*), 0)::int
		FROM gaps
		WHERE grp = 0
		  AND day >= $2::date - INTERVAL '365 days'`

	var days int
	if err := r.db.QueryRow(ctx, query, userID, day, goal).Scan(&days); err != nil {
		return 0, fmt.Errorf("failed to compute streak: %w", err)
	}

	return days, nil
}
