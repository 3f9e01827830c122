package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"quizbank/db"
	"quizbank/models"
)

// Five correct-enough answers a day keep the streak alive.
const streakGoal = 5

// ReviewService serves question sampling, answer submission and streak
// counting for the single configured user.
type ReviewService struct {
	repo   db.ReviewRepository
	userID int
}

func NewReviewService(repo db.ReviewRepository, userID int) *ReviewService {
	return &ReviewService{repo: repo, userID: userID}
}

func (s *ReviewService) SampleSubTopicQuestions(ctx context.Context, subTopicID, limit int) ([]models.Question, error) {
	log.Printf("[INFO] Sampling up to %d questions for sub-topic %d", limit, subTopicID)

	if subTopicID <= 0 {
		return nil, fmt.Errorf("invalid sub-topic ID: %d", subTopicID)
	}

	questions, err := s.repo.SampleSubTopicQuestions(ctx, subTopicID, s.userID, clampLimit(limit))
	if err != nil {
		log.Printf("[ERROR] Failed to sample sub-topic questions: %v", err)
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	log.Printf("[INFO] Sampled %d questions for sub-topic %d", len(questions), subTopicID)
	return questions, nil
}

func (s *ReviewService) SampleRandomQuestions(ctx context.Context, limit int) ([]models.Question, error) {
	log.Printf("[INFO] Sampling up to %d random questions", limit)

	questions, err := s.repo.SampleRandomQuestions(ctx, s.userID, clampLimit(limit))
	if err != nil {
		log.Printf("[ERROR] Failed to sample random questions: %v", err)
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	log.Printf("[INFO] Sampled %d random questions", len(questions))
	return questions, nil
}

// SubmitAnswer records an answer after checking the choice actually belongs
// to the submitted question. Questions and choices are never mutated by
// answering, only referenced.
func (s *ReviewService) SubmitAnswer(ctx context.Context, req *models.AnswerRequest) (*models.AnswerResponse, error) {
	log.Printf("[INFO] Submitting answer: question %d, choice %d", req.QuestionID, req.ChoiceID)

	choice, err := s.repo.GetChoice(ctx, req.ChoiceID)
	if err != nil || choice.QuestionID != req.QuestionID {
		log.Printf("[ERROR] Invalid choice %d for question %d: %v", req.ChoiceID, req.QuestionID, err)
		return nil, fmt.Errorf("invalid_choice")
	}

	correctChoiceID, err := s.repo.GetCorrectChoiceID(ctx, req.QuestionID)
	if err != nil {
		log.Printf("[ERROR] Failed to look up correct choice for question %d: %v", req.QuestionID, err)
		return nil, fmt.Errorf("failed to look up correct choice: %w", err)
	}

	if err := s.repo.InsertAnswer(ctx, s.userID, req.QuestionID, req.ChoiceID, choice.IsCorrect); err != nil {
		log.Printf("[ERROR] Failed to record answer: %v", err)
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	log.Printf("[INFO] Recorded answer for question %d (correct: %v)", req.QuestionID, choice.IsCorrect)
	return &models.AnswerResponse{
		IsCorrect:       choice.IsCorrect,
		CorrectChoiceID: correctChoiceID,
	}, nil
}

func (s *ReviewService) GetStreak(ctx context.Context) (*models.StreakResponse, error) {
	today := time.Now()

	todayCount, err := s.repo.CountTodayAnswers(ctx, s.userID, today)
	if err != nil {
		log.Printf("[ERROR] Failed to count today's answers: %v", err)
		return nil, fmt.Errorf("failed to count today's answers: %w", err)
	}

	streakDays, err := s.repo.CurrentStreakDays(ctx, s.userID, today, streakGoal)
	if err != nil {
		log.Printf("[ERROR] Failed to compute streak: %v", err)
		return nil, fmt.Errorf("failed to compute streak: %w", err)
	}

	return &models.StreakResponse{
		CurrentStreakDays: streakDays,
		TodayAnswersCount: todayCount,
		StreakGoal:        streakGoal,
	}, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 5
	}
	if limit > 50 {
		return 50
	}
	return limit
}
