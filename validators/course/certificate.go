package courseValidator

import (
	"lms/middleware"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Certificate codes are PREFIX-YYYY-XXXXX; anything that cannot match the
// shape is rejected before touching the database.
var certificateCodePattern = regexp.MustCompile(`^[A-Z]{2,10}-\d{4}-[A-Z0-9]{5}$`)

func IssueCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "course_id", "courseID"); !ok {
			return err
		}
		return c.Next()
	}
}

func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if code == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate code is required!", nil)
		}

		if !certificateCodePattern.MatchString(code) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}

		c.Locals("certificateCode", code)
		return c.Next()
	}
}
