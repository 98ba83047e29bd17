package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course authoring routes for authors/admins
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("AUTHOR", "ADMIN"))

	adminGroup.Post("/course", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Put("/course/:id", validators.UpdateCourse(), controllers.UpdateCourse)

	adminGroup.Post("/course/:id/lesson", validators.CreateLesson(), controllers.CreateLesson)
	adminGroup.Put("/lesson/:lesson_id", validators.UpdateLesson(), controllers.UpdateLesson)

	adminGroup.Post("/lesson/:lesson_id/assessment", validators.CreateAssessment(), controllers.CreateAssessment)
	adminGroup.Put("/assessment/:assessment_id", validators.UpdateAssessment(), controllers.UpdateAssessment)
}
