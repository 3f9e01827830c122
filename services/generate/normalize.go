package generate

import (
	"encoding/json"
	"net/http"
	"strings"

	"quizbank/models"
)

const (
	defaultTopic    = "General"
	defaultSubTopic = "Misc"
)

// NormalizedItem is one generated question with its resolved placement in the
// taxonomy.
type NormalizedItem struct {
	Topic    string
	SubTopic string
	Item     models.GeneratedItem
}

// Normalize parses the raw model payload and applies the count and taxonomy
// policies: the sequence is truncated to the requested count (never padded),
// all items collapse under a single document topic, and each item resolves
// its own sub-topic.
//
// Topic precedence: caller-supplied, else the first non-empty per-item topic
// in order, else "General". Sub-topic precedence per item: caller-supplied,
// else the item's own, else "Misc".
func Normalize(raw string, requested int, callerTopic, callerSubTopic string) ([]NormalizedItem, string, error) {
	items, err := parseItems(raw)
	if err != nil {
		return nil, "", err
	}

	if requested > 0 && len(items) > requested {
		items = items[:requested]
	}

	docTopic := strings.TrimSpace(callerTopic)
	if docTopic == "" {
		for _, item := range items {
			if candidate := strings.TrimSpace(item.Topic); candidate != "" {
				docTopic = candidate
				break
			}
		}
	}
	if docTopic == "" {
		docTopic = defaultTopic
	}

	callerSubTopic = strings.TrimSpace(callerSubTopic)

	normalized := make([]NormalizedItem, 0, len(items))
	for _, item := range items {
		subTopic := callerSubTopic
		if subTopic == "" {
			subTopic = strings.TrimSpace(item.SubTopic)
		}
		if subTopic == "" {
			subTopic = defaultSubTopic
		}

		normalized = append(normalized, NormalizedItem{
			Topic:    docTopic,
			SubTopic: subTopic,
			Item:     item,
		})
	}

	return normalized, docTopic, nil
}

// parseItems is the strict first stage: the payload must be a JSON array of
// items, or a single item object which gets wrapped. Anything else is an
// invalid model response.
func parseItems(raw string) ([]models.GeneratedItem, error) {
	var items []models.GeneratedItem
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items, nil
	}

	var single models.GeneratedItem
	if err := json.Unmarshal([]byte(raw), &single); err != nil {
		return nil, newError(CodeInvalidModelOutput, http.StatusBadGateway, err)
	}

	return []models.GeneratedItem{single}, nil
}
