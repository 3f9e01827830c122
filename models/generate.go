package models

// GeneratedItem is one multiple-choice question as emitted by the model.
// The jsonschema tags drive the output contract sent with every generation
// call: question_text, choices and correct_index are required, the rest is
// optional.
type GeneratedItem struct {
	QuestionText string   `json:"question_text" jsonschema:"description=Self-contained question stem that never references the source material"`
	Explanation  string   `json:"explanation,omitempty" jsonschema:"description=Micro-lesson stating the principle; justifying the correct option; deconstructing each distractor; ending with a memory anchor"`
	ImageURL     string   `json:"image_url,omitempty" jsonschema:"description=Optional illustration URL"`
	Choices      []string `json:"choices" jsonschema:"description=Exactly four answer options"`
	CorrectIndex int      `json:"correct_index" jsonschema:"description=Zero-based index of the correct option"`
	Topic        string   `json:"topic,omitempty" jsonschema:"description=Top-level subject of the question"`
	SubTopic     string   `json:"sub_topic,omitempty" jsonschema:"description=Narrower subject within the topic"`
}

type GenerateLinkRequest struct {
	URL      string `json:"url"`
	Size     string `json:"size"`
	Topic    string `json:"topic,omitempty"`
	SubTopic string `json:"sub_topic,omitempty"`
}

type GenerateLinksRequest struct {
	URLs     []string `json:"urls"`
	Size     string   `json:"size"`
	Topic    string   `json:"topic,omitempty"`
	SubTopic string   `json:"sub_topic,omitempty"`
}

type GenerateTextRequest struct {
	Text     string `json:"text"`
	Size     string `json:"size"`
	Topic    string `json:"topic,omitempty"`
	SubTopic string `json:"sub_topic,omitempty"`
}

type GenerateResult struct {
	Status    string `json:"status"`
	Requested int    `json:"requested"`
	Created   int    `json:"created"`
	Topic     string `json:"topic"`
}
