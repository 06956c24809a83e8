package cmd

import "time"

// Config carries the service configuration read from the environment.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr            string
	RedisPassword        string
	NotificationQueueKey string

	PaymentServiceURL string
	PaymentTimeout    time.Duration

	VerificationServiceURL string
	VerificationTimeout    time.Duration

	// JurisdictionLimitGrams is the per-order dried-flower-equivalent cap
	// enforced by the compliance gate. Zero means the statutory default.
	JurisdictionLimitGrams float64

	ReconciliationSchedule string
	ReconcileMaxAttempts   int
}
