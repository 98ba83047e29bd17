package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CoursePayload is the validated course-creation request
type CoursePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Price       int64  `json:"price"`
	Duration    int64  `json:"duration"`
}

// CourseUpdatePayload carries optional course updates; nil fields are left
// untouched
type CourseUpdatePayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Status      *string `json:"status"`
	IsPublished *bool   `json:"is_published"`
}

// LessonPayload is the validated lesson-creation request
type LessonPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	TextContent string `json:"text_content"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index"`
	IsPublished bool   `json:"is_published"`
}

// LessonUpdatePayload carries optional lesson updates; nil fields are left
// untouched
type LessonUpdatePayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ContentType *string `json:"content_type"`
	TextContent *string `json:"text_content"`
	VideoURL    *string `json:"video_url"`
	OrderIndex  *int    `json:"order_index"`
	IsPublished *bool   `json:"is_published"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CoursePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Description
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		} else if len(strings.TrimSpace(reqData.Description)) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		// Validate Price (minor currency unit, zero means free)
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "id", "courseID"); !ok {
			return err
		}

		reqData := new(CourseUpdatePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if reqData.Status != nil {
			switch *reqData.Status {
			case "DRAFT", "ACTIVE", "INACTIVE":
			default:
				errors["status"] = "Status must be DRAFT, ACTIVE or INACTIVE!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "id", "courseID"); !ok {
			return err
		}

		reqData := new(LessonPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.ContentType == "" {
			reqData.ContentType = "TEXT"
		}
		switch reqData.ContentType {
		case "TEXT", "VIDEO":
		default:
			errors["content_type"] = "Content type must be TEXT or VIDEO!"
		}

		if reqData.ContentType == "VIDEO" && strings.TrimSpace(reqData.VideoURL) == "" {
			errors["video_url"] = "Video URL is required for VIDEO lessons!"
		}

		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "lesson_id", "lessonID"); !ok {
			return err
		}

		reqData := new(LessonUpdatePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.ContentType != nil {
			switch *reqData.ContentType {
			case "TEXT", "VIDEO":
			default:
				errors["content_type"] = "Content type must be TEXT or VIDEO!"
			}
		}

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}
