package models

type Topic struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type SubTopic struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	TopicID int    `json:"topic_id"`
}

type Choice struct {
	ID         int    `json:"id"`
	QuestionID int    `json:"question_id"`
	ChoiceText string `json:"choice_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type Question struct {
	ID           int      `json:"id"`
	SubTopicID   int      `json:"sub_topic_id"`
	QuestionText string   `json:"question_text"`
	Explanation  *string  `json:"explanation"`
	ImageURL     *string  `json:"image_url"`
	Choices      []Choice `json:"choices"`
}

type AnswerRequest struct {
	QuestionID int `json:"question_id"`
	ChoiceID   int `json:"choice_id"`
}

type AnswerResponse struct {
	IsCorrect       bool `json:"is_correct"`
	CorrectChoiceID int  `json:"correct_choice_id"`
}

type StreakResponse struct {
	CurrentStreakDays int `json:"current_streak_days"`
	TodayAnswersCount int `json:"today_answers_count"`
	StreakGoal        int `json:"streak_goal"`
}
