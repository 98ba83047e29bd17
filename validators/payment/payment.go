package paymentValidator

import (
	"lms/middleware"
	"lms/models"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// InitializePayload is the validated payment-initialization request
type InitializePayload struct {
	Purpose  string `json:"purpose"`
	CourseID *uint  `json:"course_id"`
}

func Initialize() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(InitializePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		switch models.PaymentPurpose(reqData.Purpose) {
		case models.PurposeCourseEnrollment:
			if reqData.CourseID == nil || *reqData.CourseID == 0 {
				errors["course_id"] = "Course ID is required for course enrollment payments!"
			}
		case models.PurposeMembership:
			// No extra fields
		default:
			errors["purpose"] = "Purpose must be COURSE_ENROLLMENT or MEMBERSHIP!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInitialize", reqData)
		return c.Next()
	}
}

// VerifyReference validates the transaction reference route parameter. Our
// references are UUIDs generated at initialize time.
func VerifyReference() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := strings.TrimSpace(c.Params("reference"))
		if reference == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction reference is required!", nil)
		}

		if _, err := uuid.Parse(reference); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction reference!", nil)
		}

		c.Locals("paymentReference", reference)
		return c.Next()
	}
}
