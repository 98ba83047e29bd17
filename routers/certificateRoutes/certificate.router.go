package certificateRoutes

import (
	controllers "lms/controllers/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up the public certificate verification route.
// No auth: anyone holding a certificate code can verify it.
func SetupCertificateRoutes(app *fiber.App) {
	app.Get("/certificates/:code", validators.VerifyCertificate(), controllers.VerifyCertificate)
}
