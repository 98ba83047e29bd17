package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourQuestionAssessment(passingScore int) *Assessment {
	return &Assessment{
		PassingScore: passingScore,
		Questions: QuestionList{
			{ID: 1, Prompt: "Q1", CorrectOptionID: 11, Options: []Option{{ID: 11, Text: "a"}, {ID: 12, Text: "b"}}},
			{ID: 2, Prompt: "Q2", CorrectOptionID: 22, Options: []Option{{ID: 21, Text: "a"}, {ID: 22, Text: "b"}}},
			{ID: 3, Prompt: "Q3", CorrectOptionID: 31, Options: []Option{{ID: 31, Text: "a"}, {ID: 32, Text: "b"}}},
			{ID: 4, Prompt: "Q4", CorrectOptionID: 42, Options: []Option{{ID: 41, Text: "a"}, {ID: 42, Text: "b"}}},
		},
	}
}

func TestGrade_ThreeOfFourPasses(t *testing.T) {
	assessment := fourQuestionAssessment(70)

	result, err := assessment.Grade(AnswerSet{1: 11, 2: 22, 3: 31, 4: 41})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Correct)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 75, result.Score)
	assert.True(t, result.Passed)
}

func TestGrade_TwoOfFourFails(t *testing.T) {
	assessment := fourQuestionAssessment(70)

	result, err := assessment.Grade(AnswerSet{1: 11, 2: 22, 3: 32, 4: 41})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
}

func TestGrade_AllCorrectIsHundred(t *testing.T) {
	assessment := fourQuestionAssessment(100)

	result, err := assessment.Grade(AnswerSet{1: 11, 2: 22, 3: 31, 4: 42})
	require.NoError(t, err)

	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
}

func TestGrade_NoAnswersScoresZero(t *testing.T) {
	assessment := fourQuestionAssessment(70)

	result, err := assessment.Grade(AnswerSet{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Correct)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
}

func TestGrade_UnknownQuestionAnswersIgnored(t *testing.T) {
	assessment := fourQuestionAssessment(70)

	// Answers for question IDs the assessment does not contain score nothing
	result, err := assessment.Grade(AnswerSet{99: 11, 1: 11})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 25, result.Score)
}

func TestGrade_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		correct   int
		want      int
	}{
		{"one of three", 3, 1, 33},
		{"two of three", 3, 2, 67},
		{"one of six", 6, 1, 17},
		{"five of six", 6, 5, 83},
		{"one of eight", 8, 1, 13}, // 12.5 rounds up
		{"seven of eight", 8, 7, 88},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := &Assessment{PassingScore: 50}
			answers := AnswerSet{}
			for i := 1; i <= tt.questions; i++ {
				q := Question{
					ID:              uint(i),
					Prompt:          "Q",
					CorrectOptionID: uint(i * 10),
					Options:         []Option{{ID: uint(i * 10), Text: "a"}, {ID: uint(i*10 + 1), Text: "b"}},
				}
				assessment.Questions = append(assessment.Questions, q)
				if i <= tt.correct {
					answers[q.ID] = q.CorrectOptionID
				}
			}

			result, err := assessment.Grade(answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Score)
		})
	}
}

func TestGrade_PassBoundaryIsInclusive(t *testing.T) {
	assessment := fourQuestionAssessment(75)

	result, err := assessment.Grade(AnswerSet{1: 11, 2: 22, 3: 31, 4: 41})
	require.NoError(t, err)

	assert.Equal(t, 75, result.Score)
	assert.True(t, result.Passed, "score equal to passing score must pass")
}

func TestGrade_NoQuestionsIsInvalid(t *testing.T) {
	assessment := &Assessment{PassingScore: 70}

	_, err := assessment.Grade(AnswerSet{1: 11})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSanitizedStripsCorrectOptions(t *testing.T) {
	assessment := fourQuestionAssessment(70)

	sanitized := assessment.Questions.Sanitized()
	require.Len(t, sanitized, 4)

	for i, q := range sanitized {
		assert.Zero(t, q.CorrectOptionID)
		assert.Equal(t, assessment.Questions[i].ID, q.ID)
		assert.Equal(t, assessment.Questions[i].Options, q.Options)
	}

	// The original is untouched
	assert.EqualValues(t, 11, assessment.Questions[0].CorrectOptionID)
}
