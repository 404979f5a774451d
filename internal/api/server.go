// @title AuthApp API
// @version 1.0
// @description Registration, OTP email verification, login and password reset.
// @host localhost:3000
// @BasePath /
// @schemes http

package api

import (
	"log"

	"github.com/SundayYogurt/auth_service/config"
	"github.com/SundayYogurt/auth_service/infra/queue"
	"github.com/SundayYogurt/auth_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/helper"
	"github.com/SundayYogurt/auth_service/internal/repository"
	"github.com/SundayYogurt/auth_service/internal/services"
	"github.com/SundayYogurt/auth_service/pkg/mailer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	if err := migrate(db); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	otpMailer := mailer.New(
		cfg.GmailUser,
		cfg.GmailAppPassword,
		cfg.MailFrom,
		cfg.MailFromName,
	)
	authHelper := helper.SetupAuth()

	// ---------- Repository ----------
	userRepo := repository.NewUserRepository(db)

	// ---------- Services ----------
	otpSvc := services.NewOTPService(userRepo)
	authSvc := services.NewAuthService(userRepo, otpSvc, otpMailer, kafkaProducer, authHelper)

	// ---------- Handler ----------
	authHandler := handlers.NewAuthHandler(authSvc)
	authHandler.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

const migrateLockID int64 = 20260222

// migrate runs AutoMigrate under a Postgres advisory lock so concurrent
// replicas serialize their schema changes.
func migrate(db *gorm.DB) error {
	return withMigrationLock(db, func(tx *gorm.DB) error {
		return tx.AutoMigrate(&domain.User{})
	})
}

// withMigrationLock runs fn between pg_advisory_lock and unlock. Advisory
// locks are session scoped, so both calls and fn must share one pinned
// connection, and the lock is released before the caller starts serving.
func withMigrationLock(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
			return err
		}
		defer func() {
			_ = tx.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
		}()

		return fn(tx)
	})
}
