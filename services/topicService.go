package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"quizbank/db"
	"quizbank/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

type TopicService struct {
	repo db.ReviewRepository
}

func NewTopicService(repo db.ReviewRepository) *TopicService {
	return &TopicService{repo: repo}
}

// ListTopics returns all topics, optionally narrowed by a fuzzy search term.
func (s *TopicService) ListTopics(ctx context.Context, search string) ([]models.Topic, error) {
	log.Printf("[INFO] Starting topic listing (search: %q)", search)

	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		log.Printf("[ERROR] Failed to list topics: %v", err)
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	search = strings.TrimSpace(search)
	if search == "" {
		log.Printf("[INFO] Successfully retrieved %d topics", len(topics))
		return topics, nil
	}

	matching := lo.Filter(topics, func(t models.Topic, _ int) bool {
		return s.topicMatchesSearch(t.Name, search)
	})

	log.Printf("[INFO] Found %d of %d topics matching %q", len(matching), len(topics), search)
	return matching, nil
}

func (s *TopicService) ListSubTopics(ctx context.Context, topicID int) ([]models.SubTopic, error) {
	log.Printf("[INFO] Starting sub-topic listing for topic %d", topicID)

	if topicID <= 0 {
		log.Printf("[ERROR] Invalid topic ID provided: %d", topicID)
		return nil, fmt.Errorf("invalid topic ID: %d", topicID)
	}

	subTopics, err := s.repo.ListSubTopics(ctx, topicID)
	if err != nil {
		log.Printf("[ERROR] Failed to list sub-topics for topic %d: %v", topicID, err)
		return nil, fmt.Errorf("failed to list sub-topics: %w", err)
	}

	log.Printf("[INFO] Successfully retrieved %d sub-topics for topic %d", len(subTopics), topicID)
	return subTopics, nil
}

func (s *TopicService) topicMatchesSearch(name, search string) bool {
	if fuzzy.MatchFold(search, name) {
		return true
	}

	// Also match against individual words so "bio" finds "Marine Biology".
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if fuzzy.MatchFold(search, word) {
			return true
		}
	}

	return false
}
