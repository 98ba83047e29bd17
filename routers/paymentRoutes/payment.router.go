package paymentRoutes

import (
	paymentControllers "lms/controllers/payment"
	"lms/middleware"
	paymentValidators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/initialize", middleware.JWTMiddleware, paymentValidators.Initialize(), paymentControllers.InitializePayment)
	paymentGroup.Get("/verify/:reference", middleware.JWTMiddleware, paymentValidators.VerifyReference(), paymentControllers.VerifyPayment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, paymentControllers.GetPaymentHistory)
}
