package courseValidator

import (
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// OptionPayload is one answer option in an assessment definition
type OptionPayload struct {
	ID   uint   `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// QuestionPayload is one question in an assessment definition
type QuestionPayload struct {
	ID              uint            `json:"id" validate:"required"`
	Prompt          string          `json:"prompt" validate:"required"`
	CorrectOptionID uint            `json:"correct_option_id" validate:"required"`
	Options         []OptionPayload `json:"options" validate:"required,min=2,dive"`
}

// AssessmentPayload is the validated assessment definition. An assessment
// must carry at least one question; empty assessments are rejected here so
// grading never sees a zero-question quiz.
type AssessmentPayload struct {
	Title        string            `json:"title" validate:"required,min=3"`
	Description  string            `json:"description"`
	PassingScore int               `json:"passing_score" validate:"min=0,max=100"`
	Questions    []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// ToQuestionList converts the payload into the model's question set
func (p *AssessmentPayload) ToQuestionList() courseModels.QuestionList {
	questions := make(courseModels.QuestionList, len(p.Questions))
	for i, q := range p.Questions {
		options := make([]courseModels.Option, len(q.Options))
		for j, o := range q.Options {
			options[j] = courseModels.Option{ID: o.ID, Text: o.Text}
		}
		questions[i] = courseModels.Question{
			ID:              q.ID,
			Prompt:          q.Prompt,
			CorrectOptionID: q.CorrectOptionID,
			Options:         options,
		}
	}
	return questions
}

// checkAssessmentConsistency enforces the structural rules the struct tags
// cannot express: unique question IDs, unique option IDs per question, and a
// correct option that actually exists among the question's options.
func checkAssessmentConsistency(payload *AssessmentPayload) map[string]string {
	errors := make(map[string]string)

	seenQuestions := make(map[uint]bool, len(payload.Questions))
	for _, q := range payload.Questions {
		if seenQuestions[q.ID] {
			errors["questions"] = "Question IDs must be unique!"
			break
		}
		seenQuestions[q.ID] = true

		seenOptions := make(map[uint]bool, len(q.Options))
		correctFound := false
		for _, o := range q.Options {
			if seenOptions[o.ID] {
				errors["options"] = "Option IDs must be unique within a question!"
			}
			seenOptions[o.ID] = true
			if o.ID == q.CorrectOptionID {
				correctFound = true
			}
		}
		if !correctFound {
			errors["correct_option_id"] = "Each question's correct option must be one of its options!"
		}
	}

	return errors
}

func assessmentBody(c *fiber.Ctx) error {
	reqData := new(AssessmentPayload)

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if err := validate.Struct(reqData); err != nil {
		errors := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = "Failed validation on '" + fieldErr.Tag() + "'!"
		}
		return middleware.ValidationErrorResponse(c, errors)
	}

	if errors := checkAssessmentConsistency(reqData); len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	c.Locals("validatedAssessment", reqData)
	return c.Next()
}

func CreateAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "lesson_id", "lessonID"); !ok {
			return err
		}
		return assessmentBody(c)
	}
}

func UpdateAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "assessment_id", "assessmentID"); !ok {
			return err
		}
		return assessmentBody(c)
	}
}

// SubmitAssessment validates the learner's answer payload: a non-empty
// question-id to option-id mapping with positive IDs. Anything malformed is
// rejected before the grading pipeline runs.
func SubmitAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "course_id", "courseID"); !ok {
			return err
		}
		if ok, err := paramID(c, "assessment_id", "assessmentID"); !ok {
			return err
		}

		reqData := new(struct {
			Answers map[uint]uint `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}
		for questionID, optionID := range reqData.Answers {
			if questionID == 0 || optionID == 0 {
				errors["answers"] = "Answers must map question IDs to option IDs!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswers", courseModels.AnswerSet(reqData.Answers))
		return c.Next()
	}
}

func SubmissionHistory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "course_id", "courseID"); !ok {
			return err
		}
		if ok, err := paramID(c, "assessment_id", "assessmentID"); !ok {
			return err
		}
		return c.Next()
	}
}
