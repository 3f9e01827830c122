package generate

import (
	"testing"
)

func TestNormalizeParsesAndTruncates(t *testing.T) {
	raw := `[
		{"question_text": "q1", "choices": ["a", "b", "c", "d"], "correct_index": 0},
		{"question_text": "q2", "choices": ["a", "b", "c", "d"], "correct_index": 1},
		{"question_text": "q3", "choices": ["a", "b", "c", "d"], "correct_index": 2}
	]`

	items, _, err := Normalize(raw, 2, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected truncation to 2 items, got %d", len(items))
	}
	if items[0].Item.QuestionText != "q1" || items[1].Item.QuestionText != "q2" {
		t.Errorf("truncation must keep the leading items in order, got %q, %q",
			items[0].Item.QuestionText, items[1].Item.QuestionText)
	}
}

func TestNormalizeNeverPads(t *testing.T) {
	raw := `[{"question_text": "q1", "choices": ["a", "b", "c", "d"], "correct_index": 0}]`

	items, _, err := Normalize(raw, 25, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("a short response stays short, got %d items", len(items))
	}
}

func TestNormalizeWrapsSingleObject(t *testing.T) {
	raw := `{"question_text": "solo", "choices": ["a", "b", "c", "d"], "correct_index": 3}`

	items, _, err := Normalize(raw, 5, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Item.QuestionText != "solo" {
		t.Errorf("expected the single object wrapped into one item, got %v", items)
	}
}

func TestNormalizeRejectsMalformedPayload(t *testing.T) {
	for _, raw := range []string{"", "not json", `"just a string"`, "42"} {
		_, _, err := Normalize(raw, 5, "", "")
		assertErrorCode(t, err, CodeInvalidModelOutput)
	}
}

func TestNormalizeTopicUnification(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		callerTopic string
		expected    string
	}{
		{
			name: "caller topic wins over item topics",
			raw: `[
				{"question_text": "q1", "topic": "Biology"},
				{"question_text": "q2", "topic": "Chemistry"}
			]`,
			callerTopic: "Science",
			expected:    "Science",
		},
		{
			name: "first non-empty item topic",
			raw: `[
				{"question_text": "q1"},
				{"question_text": "q2", "topic": "Chemistry"},
				{"question_text": "q3", "topic": "Physics"}
			]`,
			expected: "Chemistry",
		},
		{
			name:     "default when nothing is supplied",
			raw:      `[{"question_text": "q1"}]`,
			expected: "General",
		},
		{
			name:        "whitespace caller topic is ignored",
			raw:         `[{"question_text": "q1", "topic": "Biology"}]`,
			callerTopic: "   ",
			expected:    "Biology",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, docTopic, err := Normalize(tt.raw, 0, tt.callerTopic, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if docTopic != tt.expected {
				t.Errorf("expected document topic %q, got %q", tt.expected, docTopic)
			}
			for _, item := range items {
				if item.Topic != tt.expected {
					t.Errorf("every item must share the document topic %q, got %q", tt.expected, item.Topic)
				}
			}
		})
	}
}

func TestNormalizeSubTopicPrecedence(t *testing.T) {
	raw := `[
		{"question_text": "q1", "sub_topic": "Cells"},
		{"question_text": "q2"}
	]`

	// Caller-supplied sub-topic overrides every item.
	items, _, err := Normalize(raw, 0, "", "Genetics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range items {
		if item.SubTopic != "Genetics" {
			t.Errorf("expected caller sub-topic to win, got %q", item.SubTopic)
		}
	}

	// Without a caller value, each item resolves independently.
	items, _, err = Normalize(raw, 0, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].SubTopic != "Cells" {
		t.Errorf("expected the item's own sub-topic, got %q", items[0].SubTopic)
	}
	if items[1].SubTopic != "Misc" {
		t.Errorf("expected the default sub-topic, got %q", items[1].SubTopic)
	}
}
