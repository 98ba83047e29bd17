package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// certIssueAttempts bounds the retry loop on certificate code collisions
const certIssueAttempts = 3

// IssueCertificate mints a completion certificate for the caller's enrollment.
// Preconditions, in order: authenticated, enrolled, progress of 100. Issuance
// is idempotent: the unique index on enrollment_id makes concurrent requests
// converge on a single certificate, and a repeat call returns the existing
// code.
func IssueCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if enrollment.Progress < 100 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", fiber.Map{
			"progress": enrollment.Progress,
		})
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var certificate courseModels.Certificate
	issued := false

	for attempt := 0; attempt < certIssueAttempts; attempt++ {
		code, err := utils.GenerateCertificateCode(config.AppConfig.CertificatePrefix, time.Now().Year())
		if err != nil {
			log.Printf("Error generating certificate code: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
		}

		certificate = courseModels.Certificate{
			EnrollmentID: enrollment.ID,
			Code:         code,
			IssuedAt:     time.Now(),
		}

		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}},
			DoNothing: true,
		}).Create(&certificate)

		if result.Error != nil {
			// Almost certainly a code collision on the code unique index;
			// regenerate and retry
			log.Printf("Certificate insert retry for enrollment %d: %v", enrollment.ID, result.Error)
			continue
		}

		if result.RowsAffected == 0 {
			// A certificate already exists for this enrollment; return it
			if err := db.Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).First(&certificate).Error; err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
			}
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", fiber.Map{
				"certificate":      certificate,
				"verification_url": utils.CertificateVerificationURL(config.AppConfig.AppOrigin, certificate.Code),
			})
		}

		issued = true
		break
	}

	if !issued {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	verifyURL := utils.CertificateVerificationURL(config.AppConfig.AppOrigin, certificate.Code)

	go func(email, name, title, code, url string) {
		if err := utils.SendCertificateIssued(email, name, title, code, url); err != nil {
			log.Printf("Error sending certificate email to %s: %v", email, err)
		}
	}(user.Email, user.Name, course.Title, certificate.Code, verifyURL)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", fiber.Map{
		"certificate":      certificate,
		"verification_url": verifyURL,
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	var results []CertificateWithCourse
	if err := database.Database.Db.Model(&courseModels.Certificate{}).
		Select("certificates.*, courses.title AS course_title").
		Joins("JOIN enrollments ON enrollments.id = certificates.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ? AND certificates.is_deleted = ?", userID, false).
		Order("certificates.issued_at desc").
		Scan(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": results,
		"total":        len(results),
	})
}

// VerifyCertificate is the public lookup by certificate code. No auth: anyone
// holding a code can confirm it. Everything comes back from one joined read;
// an unknown code yields a plain not-found with no further detail.
func VerifyCertificate(c *fiber.Ctx) error {
	code := c.Locals("certificateCode").(string)

	type CertificateDetails struct {
		Code         string     `json:"code"`
		IssuedAt     time.Time  `json:"issued_at"`
		LearnerName  string     `json:"learner_name"`
		LearnerEmail string     `json:"learner_email"`
		CourseTitle  string     `json:"course_title"`
		EnrolledAt   time.Time  `json:"enrolled_at"`
		CompletedAt  *time.Time `json:"completed_at"`
	}

	var details CertificateDetails
	err := database.Database.Db.Model(&courseModels.Certificate{}).
		Select(`certificates.code, certificates.issued_at,
			users.name AS learner_name, users.email AS learner_email,
			courses.title AS course_title,
			enrollments.created_at AS enrolled_at, enrollments.completed_at`).
		Joins("JOIN enrollments ON enrollments.id = certificates.enrollment_id").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("certificates.code = ? AND certificates.is_deleted = ?", code, false).
		Scan(&details).Error

	if err != nil || details.Code == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified!", fiber.Map{
		"certificate":      details,
		"verification_url": utils.CertificateVerificationURL(config.AppConfig.AppOrigin, details.Code),
	})
}
