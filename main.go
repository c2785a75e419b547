package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"prop-broker-dashboard/handlers"
	"prop-broker-dashboard/middleware"
	"prop-broker-dashboard/models"
	"prop-broker-dashboard/services"
	"prop-broker-dashboard/utils"
	"prop-broker-dashboard/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// No fallback DSN in source. The service refuses to start without one.
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Broker{},
		&models.PropFirm{},
		&models.Wallet{},
		&models.CopierPack{},
		&models.PammGroup{},
		&models.PammClient{},
		&models.Crossing{},
		&models.User{},
		&models.Role{},
		&models.Session{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	buffers := services.NewBufferRegistry()

	authService := services.NewAuthService(db, buffers)
	brokerService := services.NewBrokerService(db)
	propFirmService := services.NewPropFirmService(db)
	walletService := services.NewWalletService(db)
	copierPackService := services.NewCopierPackService(db)
	pammService := services.NewPammService(db)
	ledgerService := services.NewLedgerService(db, buffers)
	exportService := services.NewExportService(db)
	crossingService := services.NewCrossingService(db)
	userService := services.NewUserService(db)
	statsService := services.NewStatsService(db)

	session := middleware.SessionAuthMiddleware(db, services.SessionTTL)

	// ✅ Setup routes — everything except login sits behind session auth
	handlers.SetupAuthRoutes(app, authService, session)
	handlers.SetupBrokerRoutes(app, brokerService, session)
	handlers.SetupPropFirmRoutes(app, propFirmService, session)
	handlers.SetupWalletRoutes(app, walletService, session)
	handlers.SetupCopierPackRoutes(app, copierPackService, session)
	handlers.SetupPammRoutes(app, pammService, ledgerService, exportService, session)
	handlers.SetupCrossingRoutes(app, crossingService, session)
	handlers.SetupUserRoutes(app, userService, session)
	handlers.SetupStatsRoutes(app, statsService, session)

	workers.StartSessionSweeper(db, buffers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Session sweeper running (hourly)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
