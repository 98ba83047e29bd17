package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a new draft course
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CoursePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Author:      reqData.Author,
		Price:       reqData.Price,
		Duration:    reqData.Duration,
		Status:      "DRAFT",
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates course fields and publish state
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.CourseUpdatePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := database.Database.Db.Model(&course).Updates(updates).Error; err != nil {
		log.Printf("Error updating course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// CreateLesson adds a lesson to a course
func CreateLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lesson := courseModels.Lesson{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		OrderIndex:  reqData.OrderIndex,
		IsPublished: reqData.IsPublished,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		log.Printf("Error creating lesson for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// UpdateLesson updates lesson fields and publish state
func UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedLessonUpdate").(*courseValidator.LessonUpdatePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.ContentType != nil {
		updates["content_type"] = *reqData.ContentType
	}
	if reqData.TextContent != nil {
		updates["text_content"] = *reqData.TextContent
	}
	if reqData.VideoURL != nil {
		updates["video_url"] = *reqData.VideoURL
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := database.Database.Db.Model(&lesson).Updates(updates).Error; err != nil {
		log.Printf("Error updating lesson %d: %v", lessonID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// CreateAssessment attaches a quiz to a lesson. A lesson carries at most one
// assessment.
func CreateAssessment(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedAssessment").(*courseValidator.AssessmentPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var existing int64
	database.Database.Db.Model(&courseModels.Assessment{}).Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Lesson already has an assessment!", nil)
	}

	assessment := courseModels.Assessment{
		LessonID:     uint(lessonID),
		Title:        reqData.Title,
		Description:  reqData.Description,
		PassingScore: reqData.PassingScore,
		Questions:    reqData.ToQuestionList(),
	}

	if err := database.Database.Db.Create(&assessment).Error; err != nil {
		log.Printf("Error creating assessment for lesson %d: %v", lessonID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assessment created successfully!", assessment)
}

// UpdateAssessment replaces the question set of an assessment. Assessments a
// learner has already submitted against are frozen; grading history must stay
// interpretable against the questions it was graded with.
func UpdateAssessment(c *fiber.Ctx) error {
	assessmentID := c.Locals("assessmentID").(int)

	reqData, ok := c.Locals("validatedAssessment").(*courseValidator.AssessmentPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var assessment courseModels.Assessment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	var submissionCount int64
	database.Database.Db.Model(&courseModels.AssessmentSubmission{}).
		Where("assessment_id = ? AND is_deleted = ?", assessmentID, false).
		Count(&submissionCount)
	if submissionCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assessment has submissions and can no longer be edited!", nil)
	}

	assessment.Title = reqData.Title
	assessment.Description = reqData.Description
	assessment.PassingScore = reqData.PassingScore
	assessment.Questions = reqData.ToQuestionList()

	if err := database.Database.Db.Save(&assessment).Error; err != nil {
		log.Printf("Error updating assessment %d: %v", assessmentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment updated successfully!", assessment)
}
