package courseValidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAssessmentPayload() *AssessmentPayload {
	return &AssessmentPayload{
		Title:        "Safe Medication Handling",
		PassingScore: 70,
		Questions: []QuestionPayload{
			{
				ID:              1,
				Prompt:          "Which record must be updated after administering medication?",
				CorrectOptionID: 2,
				Options: []OptionPayload{
					{ID: 1, Text: "The visitor log"},
					{ID: 2, Text: "The medication administration record"},
				},
			},
		},
	}
}

func TestAssessmentPayload_Valid(t *testing.T) {
	payload := validAssessmentPayload()

	require.NoError(t, validate.Struct(payload))
	assert.Empty(t, checkAssessmentConsistency(payload))
}

func TestAssessmentPayload_NoQuestionsRejected(t *testing.T) {
	payload := validAssessmentPayload()
	payload.Questions = nil

	assert.Error(t, validate.Struct(payload))
}

func TestAssessmentPayload_SingleOptionRejected(t *testing.T) {
	payload := validAssessmentPayload()
	payload.Questions[0].Options = payload.Questions[0].Options[:1]

	assert.Error(t, validate.Struct(payload))
}

func TestAssessmentPayload_PassingScoreBounds(t *testing.T) {
	payload := validAssessmentPayload()
	payload.PassingScore = 101

	assert.Error(t, validate.Struct(payload))

	payload.PassingScore = 100
	assert.NoError(t, validate.Struct(payload))
}

func TestAssessmentConsistency_CorrectOptionMustExist(t *testing.T) {
	payload := validAssessmentPayload()
	payload.Questions[0].CorrectOptionID = 99

	errors := checkAssessmentConsistency(payload)
	assert.Contains(t, errors, "correct_option_id")
}

func TestAssessmentConsistency_DuplicateQuestionIDs(t *testing.T) {
	payload := validAssessmentPayload()
	payload.Questions = append(payload.Questions, payload.Questions[0])

	errors := checkAssessmentConsistency(payload)
	assert.Contains(t, errors, "questions")
}

func TestAssessmentConsistency_DuplicateOptionIDs(t *testing.T) {
	payload := validAssessmentPayload()
	payload.Questions[0].Options[1].ID = payload.Questions[0].Options[0].ID
	payload.Questions[0].CorrectOptionID = payload.Questions[0].Options[0].ID

	errors := checkAssessmentConsistency(payload)
	assert.Contains(t, errors, "options")
}

func TestToQuestionList(t *testing.T) {
	payload := validAssessmentPayload()

	questions := payload.ToQuestionList()
	require.Len(t, questions, 1)

	assert.EqualValues(t, 1, questions[0].ID)
	assert.EqualValues(t, 2, questions[0].CorrectOptionID)
	require.Len(t, questions[0].Options, 2)
	assert.Equal(t, "The medication administration record", questions[0].Options[1].Text)
}
