package paymentController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	paymentValidator "lms/validators/payment"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// InitializePayment registers a transaction with the gateway for a course
// enrollment or a membership and returns the authorization URL to send the
// payer to. The reference is generated here and stored PENDING; nothing is
// unlocked until the gateway verifies it as settled.
func InitializePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedInitialize").(*paymentValidator.InitializePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var amount int64
	metadata := map[string]interface{}{
		"purpose": reqData.Purpose,
		"user_id": userID,
	}

	purpose := models.PaymentPurpose(reqData.Purpose)

	switch purpose {
	case models.PurposeCourseEnrollment:
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ? AND is_published = ? AND status = ?", *reqData.CourseID, false, true, "ACTIVE").First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
		}

		if course.IsFree() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is free. Enroll directly without payment!", nil)
		}

		var enrollment courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, *reqData.CourseID, false).First(&enrollment).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled in this course!", enrollment)
		}

		amount = course.Price
		metadata["course_id"] = *reqData.CourseID

	case models.PurposeMembership:
		if user.MembershipStatus == models.MembershipActive {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Membership is already active!", nil)
		}
		amount = config.AppConfig.MembershipFee

	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown payment purpose!", nil)
	}

	reference := uuid.NewString()

	txn := models.PaymentTransaction{
		UserID:    userID,
		Reference: reference,
		Purpose:   purpose,
		CourseID:  reqData.CourseID,
		Amount:    amount,
		Status:    models.PaymentPending,
	}

	if err := db.Create(&txn).Error; err != nil {
		log.Printf("Error creating payment transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initialize payment!", nil)
	}

	client := utils.NewPaystackClient()
	initData, err := client.InitializeTransaction(user.Email, amount, reference, metadata)
	if err != nil {
		log.Printf("Error initializing gateway transaction %s: %v", reference, err)
		db.Model(&txn).Update("status", models.PaymentFailed)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to initialize payment with the gateway!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment initialized!", fiber.Map{
		"authorization_url": initData.AuthorizationURL,
		"reference":         reference,
		"amount":            amount,
	})
}

// VerifyPayment confirms a transaction reference with the gateway and, on a
// success-classified settlement covering the expected amount, finalizes what
// the payment was for. Network failures and non-success gateway responses
// fail closed; nothing defaults to success.
func VerifyPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reference := c.Locals("paymentReference").(string)

	db := database.Database.Db

	var txn models.PaymentTransaction
	if err := db.Where("reference = ? AND user_id = ? AND is_deleted = ?", reference, userID, false).First(&txn).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}

	if txn.Status == models.PaymentSuccess {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already verified!", fiber.Map{
			"reference": txn.Reference,
			"status":    txn.Status,
		})
	}

	client := utils.NewPaystackClient()
	data, raw, err := client.VerifyTransaction(reference)
	if err != nil {
		log.Printf("Error verifying transaction %s: %v", reference, err)
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Payment verification failed!", nil)
	}

	outcome, err := utils.FinalizePayment(db, &txn, data, raw)
	if err != nil {
		log.Printf("Error finalizing transaction %s: %v", reference, err)
	}

	switch outcome {
	case utils.VerificationSuccess:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified!", fiber.Map{
			"reference": txn.Reference,
			"status":    txn.Status,
			"purpose":   txn.Purpose,
		})
	case utils.VerificationPending:
		return middleware.JsonResponse(c, fiber.StatusOK, false, "Payment is still pending at the gateway.", fiber.Map{
			"reference": txn.Reference,
			"status":    txn.Status,
		})
	default:
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Payment verification failed!", fiber.Map{
			"reference": txn.Reference,
			"status":    txn.Status,
		})
	}
}

// GetPaymentHistory returns the caller's gateway transaction ledger
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.PaymentTransaction{}).Where("user_id = ? AND is_deleted = ?", userID, false)

	var total int64
	query.Count(&total)

	var transactions []models.PaymentTransaction
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched successfully!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
