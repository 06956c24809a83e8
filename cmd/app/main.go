package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"dispensary/cmd"
	httpin "dispensary/internal/adapters/in/http"
	"dispensary/internal/adapters/out/notification"
	"dispensary/internal/adapters/out/payment"
	"dispensary/internal/adapters/out/postgres/driverrepo"
	"dispensary/internal/adapters/out/postgres/orderrepo"
	"dispensary/internal/adapters/out/verification"
	"dispensary/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDB(configs)

	paymentClient, err := payment.NewClient(configs.PaymentServiceURL, configs.PaymentTimeout)
	if err != nil {
		log.Fatalf("payment client: %v", err)
	}

	verificationClient, err := verification.NewClient(
		configs.VerificationServiceURL, configs.VerificationTimeout)
	if err != nil {
		log.Fatalf("verification client: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})
	relay, err := notification.NewRedisRelay(redisClient, configs.NotificationQueueKey)
	if err != nil {
		log.Fatalf("notification relay: %v", err)
	}

	app := cmd.NewCompositionRoot(
		configs,
		gormDB,
		paymentClient,
		relay,
		verificationClient,
		logger,
	)

	jobManager := jobs.NewJobManager(
		app.CreateReconcilePaymentsCommandHandler(),
		configs.ReconciliationSchedule,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// Local development reads .env; in deployment the variables come from
	// the environment itself.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		DBHost:                 envOrDefault("DB_HOST", "localhost"),
		DBPort:                 envOrDefault("DB_PORT", "5432"),
		DBUser:                 envOrDefault("DB_USER", "postgres"),
		DBPassword:             envOrDefault("DB_PASSWORD", "postgres"),
		DBName:                 envOrDefault("DB_NAME", "dispensary"),
		DBSslMode:              envOrDefault("DB_SSLMODE", "disable"),
		RedisAddr:              envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		NotificationQueueKey:   os.Getenv("NOTIFICATION_QUEUE_KEY"),
		PaymentServiceURL:      envOrDefault("PAYMENT_SERVICE_URL", "http://localhost:8181"),
		PaymentTimeout:         envDuration("PAYMENT_TIMEOUT", payment.DefaultTimeout),
		VerificationServiceURL: envOrDefault("VERIFICATION_SERVICE_URL", "http://localhost:8282"),
		VerificationTimeout:    envDuration("VERIFICATION_TIMEOUT", verification.DefaultTimeout),
		JurisdictionLimitGrams: envFloat("JURISDICTION_LIMIT_GRAMS", 0),
		ReconciliationSchedule: os.Getenv("RECONCILIATION_SCHEDULE"),
		ReconcileMaxAttempts:   envInt("RECONCILE_MAX_ATTEMPTS", 0),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return f
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&driverrepo.DriverDTO{},
	)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:         app.CreateCreateOrderCommandHandler(),
		ChangeOrderStatus:   app.CreateChangeOrderStatusCommandHandler(),
		CancelOrder:         app.CreateCancelOrderCommandHandler(),
		RefundOrder:         app.CreateRefundOrderCommandHandler(),
		AssignDriver:        app.CreateAssignDriverCommandHandler(),
		VerifyOrderIdentity: app.CreateVerifyOrderIdentityCommandHandler(),
		RecordDeliveryProof: app.CreateRecordDeliveryProofCommandHandler(),
		NotifyCustomer:      app.CreateNotifyCustomerCommandHandler(),
		CreateDriver:        app.CreateCreateDriverCommandHandler(),
		SetDriverStatus:     app.CreateSetDriverStatusCommandHandler(),

		GetOrders:              app.CreateGetOrdersQueryHandler(),
		GetOrder:               app.CreateGetOrderQueryHandler(),
		GetOrderMetrics:        app.CreateGetOrderMetricsQueryHandler(),
		GetAvailableDrivers:    app.CreateGetAvailableDriversQueryHandler(),
		GetReconciliationQueue: app.CreateGetReconciliationQueueQueryHandler(),
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
