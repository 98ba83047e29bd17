package course

import (
	"errors"
	"math"

	"gorm.io/gorm"
)

// Option is one selectable answer within a question.
type Option struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// Question is a single-answer multiple choice question. Each question is worth
// exactly one point regardless of option count.
type Question struct {
	ID              uint     `json:"id"`
	Prompt          string   `json:"prompt"`
	CorrectOptionID uint     `json:"correct_option_id"`
	Options         []Option `json:"options"`
}

// QuestionList is the ordered question set of an assessment, stored as a single
// JSON column on the assessment row.
type QuestionList []Question

// Assessment is a graded quiz attached to one lesson
type Assessment struct {
	gorm.Model
	LessonID     uint         `json:"lesson_id" gorm:"index;not null"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	PassingScore int          `json:"passing_score" gorm:"default:70"` // percentage 0-100
	Questions    QuestionList `json:"questions" gorm:"serializer:json"`
	IsDeleted    bool         `gorm:"default:false"`
}

// AnswerSet maps question ID to the chosen option ID. Questions absent from
// the map count as unanswered and score zero.
type AnswerSet map[uint]uint

// ErrNoQuestions is returned when grading an assessment with an empty question
// list. Such assessments are invalid and are also rejected at authoring time.
var ErrNoQuestions = errors.New("assessment has no questions")

// GradeResult is the outcome of grading one answer set.
type GradeResult struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Score   int  `json:"score"` // percentage 0-100
	Passed  bool `json:"passed"`
}

// Grade scores an answer set against the question list. One point per question
// whose chosen option matches the correct option; no partial credit, no
// negative marking. The percentage is rounded half away from zero to the
// nearest integer. Pass iff percentage >= PassingScore.
func (a *Assessment) Grade(answers AnswerSet) (GradeResult, error) {
	if len(a.Questions) == 0 {
		return GradeResult{}, ErrNoQuestions
	}

	correct := 0
	for _, q := range a.Questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectOptionID {
			correct++
		}
	}

	score := int(math.Round(float64(correct) / float64(len(a.Questions)) * 100))

	return GradeResult{
		Correct: correct,
		Total:   len(a.Questions),
		Score:   score,
		Passed:  score >= a.PassingScore,
	}, nil
}

// Sanitized returns a copy of the question list with the correct option IDs
// stripped, safe to hand to learners.
func (ql QuestionList) Sanitized() QuestionList {
	out := make(QuestionList, len(ql))
	for i, q := range ql {
		out[i] = Question{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
	}
	return out
}
