package genai

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"

	"quizbank/models"
)

const questionToolName = "record_questions"

const questionToolDescription = "Records the generated multiple-choice questions. " +
	"Every generation response must be delivered through this tool."

// questionList is the tool input contract: an array of question objects
// requiring question_text, choices and correct_index, and permitting
// explanation, image_url, topic and sub_topic.
type questionList struct {
	Questions []models.GeneratedItem `json:"questions" jsonschema:"description=The generated multiple-choice questions in order"`
}

func questionListSchema() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(questionList{})

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}
