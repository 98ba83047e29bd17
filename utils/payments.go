package utils

import (
	"fmt"
	"lms/models"
	courseModels "lms/models/course"
	"log"
	"time"

	"gorm.io/gorm"
)

// FinalizePayment applies a gateway verification result to a transaction and,
// when the gateway settled successfully for at least the expected amount,
// unlocks whatever the transaction was for: a course enrollment or a
// membership activation. Called from the verify endpoint and from the pending
// payment sweep; both paths converge here so a transaction can only ever be
// finalized one way.
//
// Already-finalized transactions return VerificationSuccess without touching
// anything. Anything other than a success-classified, amount-covering
// settlement leaves nothing unlocked.
func FinalizePayment(db *gorm.DB, txn *models.PaymentTransaction, data *TransactionData, raw string) (VerificationOutcome, error) {
	if txn.Status == models.PaymentSuccess {
		return VerificationSuccess, nil
	}

	txn.GatewayStatus = data.Status
	txn.GatewayAmount = data.Amount
	txn.GatewayResponseRaw = raw

	outcome := ClassifyTransaction(data)

	switch outcome {
	case VerificationPending:
		// Still in flight at the gateway; keep ours PENDING for the sweep.
		if err := db.Save(txn).Error; err != nil {
			return VerificationPending, err
		}
		return VerificationPending, nil

	case VerificationFailed:
		txn.Status = models.PaymentFailed
		if err := db.Save(txn).Error; err != nil {
			return VerificationFailed, err
		}
		return VerificationFailed, nil
	}

	// The gateway amount is authoritative: a settled transaction that does not
	// cover the expected price unlocks nothing.
	if err := CheckSettledAmount(data, txn.Amount); err != nil {
		txn.Status = models.PaymentFailed
		if saveErr := db.Save(txn).Error; saveErr != nil {
			return VerificationFailed, saveErr
		}
		return VerificationFailed, err
	}

	now := time.Now()
	txn.Status = models.PaymentSuccess
	txn.VerifiedAt = &now

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", txn.UserID).First(&user).Error; err != nil {
		return VerificationFailed, fmt.Errorf("payment user lookup: %w", err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return VerificationFailed, tx.Error
	}

	if err := tx.Save(txn).Error; err != nil {
		tx.Rollback()
		return VerificationFailed, err
	}

	var courseTitle string

	switch txn.Purpose {
	case models.PurposeCourseEnrollment:
		if txn.CourseID == nil {
			tx.Rollback()
			return VerificationFailed, fmt.Errorf("course enrollment transaction %s has no course", txn.Reference)
		}

		var course courseModels.Course
		if err := tx.Where("id = ? AND is_deleted = false", *txn.CourseID).First(&course).Error; err != nil {
			tx.Rollback()
			return VerificationFailed, fmt.Errorf("payment course lookup: %w", err)
		}
		courseTitle = course.Title

		if _, _, err := courseModels.FirstOrEnroll(tx, txn.UserID, *txn.CourseID, txn.Reference); err != nil {
			tx.Rollback()
			return VerificationFailed, err
		}

	case models.PurposeMembership:
		if err := tx.Model(&models.User{}).Where("id = ?", txn.UserID).
			Updates(map[string]interface{}{
				"membership_status":  models.MembershipActive,
				"membership_paid_at": now,
			}).Error; err != nil {
			tx.Rollback()
			return VerificationFailed, err
		}

	default:
		tx.Rollback()
		return VerificationFailed, fmt.Errorf("unknown payment purpose %q", txn.Purpose)
	}

	if err := tx.Commit().Error; err != nil {
		return VerificationFailed, err
	}

	// Notifications are best effort; the payment is already durable.
	go func(purpose models.PaymentPurpose, email, name, title string) {
		var err error
		if purpose == models.PurposeCourseEnrollment {
			err = SendEnrollmentConfirmation(email, name, title)
		} else {
			err = SendMembershipActivated(email, name)
		}
		if err != nil {
			log.Printf("Error sending payment notification to %s: %v", email, err)
		}
	}(txn.Purpose, user.Email, user.Name, courseTitle)

	return VerificationSuccess, nil
}
