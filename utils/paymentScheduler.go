package utils

import (
	"lms/database"
	"lms/models"
	"log"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler sets up the pending-payment reconciliation sweep
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Run daily at 6 AM to reconcile transactions whose callback never landed
	c.AddFunc("0 6 * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running daily payment reconciliation...")
		ReconcilePendingPayments()
		ExpireStalePayments()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - runs daily at 6 AM")
}

// ReconcilePendingPayments re-verifies PENDING transactions against the
// gateway. Payers who completed checkout but never returned to the callback
// URL get their enrollment/membership finalized here.
func ReconcilePendingPayments() {
	db := database.Database.Db
	client := NewPaystackClient()

	var pending []models.PaymentTransaction
	if err := db.Where("status = ? AND is_deleted = false", models.PaymentPending).Find(&pending).Error; err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error fetching pending transactions: %v", err)
		return
	}

	log.Printf("[PAYMENT-SCHEDULER] Found %d pending transactions", len(pending))

	for i := range pending {
		txn := &pending[i]

		data, raw, err := client.VerifyTransaction(txn.Reference)
		if err != nil {
			// Gateway did not confirm; leave the transaction for the next
			// sweep or the expiry pass.
			log.Printf("[PAYMENT-SCHEDULER] Reference %s not confirmed: %v", txn.Reference, err)
			continue
		}

		outcome, err := FinalizePayment(db, txn, data, raw)
		if err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Error finalizing reference %s: %v", txn.Reference, err)
			continue
		}
		log.Printf("[PAYMENT-SCHEDULER] Reference %s reconciled as %s", txn.Reference, outcome)
	}
}

// ExpireStalePayments marks PENDING transactions initialized before yesterday
// as EXPIRED so the ledger does not accumulate dead rows.
func ExpireStalePayments() {
	db := database.Database.Db
	cutoff := now.BeginningOfDay().AddDate(0, 0, -1)

	result := db.Model(&models.PaymentTransaction{}).
		Where("status = ? AND is_deleted = false AND created_at < ?", models.PaymentPending, cutoff).
		Update("status", models.PaymentExpired)

	if result.Error != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error expiring transactions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Expired %d stale transactions", result.RowsAffected)
	}
}
