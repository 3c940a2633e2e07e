package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"action-quest-system/handlers"
	"action-quest-system/middleware"
	"action-quest-system/models"
	"action-quest-system/services"
	"action-quest-system/utils"
	"action-quest-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.SkillXP{},
		&models.Action{},
		&models.GuaranteedReward{},
		&models.RandomReward{},
		&models.ActionChoice{},
		&models.QueuedAction{},
		&models.BoostItem{},
		&models.ActiveBoost{},
		&models.Checkpoint{},
		&models.PendingRandomRewardTicket{},
		&models.XPThresholdReward{},
		&models.PlayerCalendar{},
		&models.GameSetting{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	archive, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	ledgerURL := os.Getenv("LEDGER_SERVICE_URL")
	if ledgerURL == "" {
		log.Fatal("LEDGER_SERVICE_URL environment variable not set")
	}
	oracleURL := os.Getenv("ORACLE_SERVICE_URL")
	if oracleURL == "" {
		log.Fatal("ORACLE_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("QUEST_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("QUEST_SERVICE_TOKEN environment variable not set")
	}

	clock := clockwork.NewRealClock()
	ledger := services.NewLedgerServiceClient(ledgerURL, serviceToken)
	oracle := services.NewOracleServiceClient(oracleURL, serviceToken)

	catalogService := services.NewCatalogService(db, archive)
	boostService := services.NewBoostService(db, clock, ledger)
	checkpointService := services.NewCheckpointService(db, clock, oracle)
	calendarService := services.NewCalendarService(db, clock)
	queueService := services.NewQueueService(db, clock, ledger, catalogService, boostService, checkpointService, calendarService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go workers.PollOracle(ctx, oracle, checkpointService, 30*time.Second)

	checkpointService.StartCheckpointScheduler()

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupQueueRoutes(app, queueService, calendarService)
	handlers.SetupCatalogRoutes(app, catalogService, calendarService, checkpointService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Oracle fulfilment polling running (every 30s)")
	log.Println("✅ Checkpoint scheduler running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
