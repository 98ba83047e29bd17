package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// MarkLessonComplete records completion of a lesson that carries no
// assessment. Assessed lessons complete only through a passing submission.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	// Lessons with an assessment are completed by passing it, not by fiat
	var assessmentCount int64
	db.Model(&courseModels.Assessment{}).Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Count(&assessmentCount)
	if assessmentCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This lesson has an assessment. Pass it to complete the lesson!", nil)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	if err := courseModels.UpsertLessonProgress(tx, enrollment.ID, lesson.ID); err != nil {
		tx.Rollback()
		log.Printf("Error upserting lesson progress for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	if err := courseModels.RecomputeProgress(tx, &enrollment); err != nil {
		tx.Rollback()
		log.Printf("Error recomputing progress for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing lesson completion for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked complete!", fiber.Map{
		"lesson_id": lesson.ID,
		"progress":  enrollment.Progress,
		"status":    enrollment.Status,
	})
}

// GetUserProgress gets the user's progress in a course
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").
		Find(&lessons)

	var completed []courseModels.LessonProgress
	database.Database.Db.
		Where("enrollment_id = ? AND is_completed = ? AND is_deleted = ?", enrollment.ID, true, false).
		Find(&completed)

	completedByLesson := make(map[uint]courseModels.LessonProgress, len(completed))
	for _, lp := range completed {
		completedByLesson[lp.LessonID] = lp
	}

	type LessonStatus struct {
		LessonID    uint   `json:"lesson_id"`
		Title       string `json:"title"`
		OrderIndex  int    `json:"order_index"`
		IsCompleted bool   `json:"is_completed"`
	}

	lessonStatuses := make([]LessonStatus, len(lessons))
	for i, lesson := range lessons {
		_, done := completedByLesson[lesson.ID]
		lessonStatuses[i] = LessonStatus{
			LessonID:    lesson.ID,
			Title:       lesson.Title,
			OrderIndex:  lesson.OrderIndex,
			IsCompleted: done,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"lessons":    lessonStatuses,
	})
}
