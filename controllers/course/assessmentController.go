package controllers

import (
	"encoding/json"
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SubmitAssessment grades a learner's answer set and, on a pass, marks the
// owning lesson complete and recomputes the enrollment's progress. Grading is
// pure; everything that persists happens in one DB transaction so a storage
// failure never leaves a half-recorded attempt.
func SubmitAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	assessmentID := c.Locals("assessmentID").(int)

	answers, ok := c.Locals("validatedAnswers").(courseModels.AnswerSet)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var assessment courseModels.Assessment
	if err := db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	// The assessment's lesson must belong to the course being submitted against
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", assessment.LessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found in this course!", nil)
	}

	result, err := assessment.Grade(answers)
	if err != nil {
		if errors.Is(err, courseModels.ErrNoQuestions) {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Assessment has no questions and cannot be taken!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	// Attempts are unlimited; the counter just orders the history
	var attemptCount int64
	db.Model(&courseModels.AssessmentSubmission{}).
		Where("enrollment_id = ? AND assessment_id = ? AND is_deleted = ?", enrollment.ID, assessmentID, false).
		Count(&attemptCount)

	answersJSON, _ := json.Marshal(answers)

	submission := courseModels.AssessmentSubmission{
		AssessmentID:  uint(assessmentID),
		EnrollmentID:  enrollment.ID,
		Answers:       string(answersJSON),
		Score:         result.Score,
		Passed:        result.Passed,
		AttemptNumber: int(attemptCount) + 1,
		GradedAt:      time.Now(),
	}

	tx := db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assessment!", nil)
	}

	if err := tx.Create(&submission).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving submission for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assessment!", nil)
	}

	if result.Passed {
		if err := courseModels.UpsertLessonProgress(tx, enrollment.ID, lesson.ID); err != nil {
			tx.Rollback()
			log.Printf("Error upserting lesson progress for enrollment %d: %v", enrollment.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record lesson completion!", nil)
		}

		if err := courseModels.RecomputeProgress(tx, &enrollment); err != nil {
			tx.Rollback()
			log.Printf("Error recomputing progress for enrollment %d: %v", enrollment.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing submission for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted!", fiber.Map{
		"submission": submission,
		"score":      result.Score,
		"correct":    result.Correct,
		"total":      result.Total,
		"passed":     result.Passed,
		"progress":   enrollment.Progress,
	})
}

// GetSubmissionHistory lists the learner's graded attempts for one assessment
func GetSubmissionHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	assessmentID := c.Locals("assessmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var submissions []courseModels.AssessmentSubmission
	if err := database.Database.Db.
		Where("enrollment_id = ? AND assessment_id = ? AND is_deleted = ?", enrollment.ID, assessmentID, false).
		Order("attempt_number desc").
		Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", fiber.Map{
		"submissions": submissions,
		"total":       len(submissions),
	})
}
