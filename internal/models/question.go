// internal/models/question.go
package models

// Question is a single trivia question. Immutable once loaded into a show.
type Question struct {
	Text          string   `json:"questionText"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Valid reports whether the question is well-formed enough to present:
// non-empty text and at least one answer option.
func (q Question) Valid() bool {
	return q.Text != "" && len(q.Answers) > 0
}

// QuestionSummary is the shape returned for per-event question listings.
// It deliberately omits the correct answer.
type QuestionSummary struct {
	Text        string `json:"questionText"`
	AnswerCount int    `json:"answerCount"`
}

// Summarize strips a question list down to text plus option count.
func Summarize(questions []Question) []QuestionSummary {
	out := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionSummary{Text: q.Text, AnswerCount: len(q.Answers)})
	}
	return out
}
