package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/handlers"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/messaging"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/repository"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/service"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/session"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/uploader"
)

func main() {
	log.Println("🚀 Starting Marketplace Service...")

	persistence := initPersistence()

	store, err := docstore.NewStore(persistence)
	if err != nil {
		// Unparseable dataset blob: the store keeps running memory-only.
		log.Printf("⚠️ Store degraded to memory-only: %v", err)
	}

	sessions := session.NewProvider(persistence)

	var publisher *messaging.Publisher
	if os.Getenv("RABBITMQ_ENABLED") == "true" {
		rabbitConfig := messaging.NewRabbitMQConfig()
		rabbitClient := messaging.NewRabbitMQClient(rabbitConfig)
		if err := rabbitClient.Connect(); err != nil {
			log.Printf("RabbitMQ unavailable, notification fan-out disabled: %v", err)
		} else {
			defer rabbitClient.Close()
			publisher = messaging.NewPublisher(rabbitClient)
		}
	}

	userRepo := repository.NewUserRepository(store)
	catalogRepo := repository.NewCatalogRepository(store)
	offeringRepo := repository.NewOfferingRepository(store)
	reservationRepo := repository.NewReservationRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)

	notificationService := service.NewNotificationService(notificationRepo, publisher)
	reservationService := service.NewReservationService(reservationRepo, offeringRepo, userRepo, notificationService)
	catalogService := service.NewCatalogService(catalogRepo, offeringRepo, userRepo)
	accountService := service.NewAccountService(userRepo, sessions)

	uploads := uploader.NewLocalUploader(
		getEnvOrDefault("UPLOAD_DIR", "./data/uploads"),
		getEnvOrDefault("UPLOAD_BASE_URL", "/uploads"),
	)

	accountHandler := handlers.NewAccountHandler(accountService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, uploads)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	app := setupFiberApp()
	setupRoutes(app, accountHandler, catalogHandler, reservationHandler, notificationHandler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Shutting down Marketplace Service...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	port := getEnvOrDefault("PORT", "8080")
	log.Printf("🌍 Marketplace Service running on: http://localhost:%s", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server startup error: %v", err)
	}
}

// initPersistence picks the Postgres kv backend when a database is
// configured and falls back to the file backend, then to memory-only.
func initPersistence() docstore.Persistence {
	if os.Getenv("DB_ENABLED") == "true" {
		db, err := initDatabase()
		if err != nil {
			log.Printf("Database unavailable, falling back to file persistence: %v", err)
		} else {
			persistence, err := docstore.NewPostgresPersistence(db)
			if err != nil {
				log.Printf("KV table setup failed, falling back to file persistence: %v", err)
			} else {
				return persistence
			}
		}
	}

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	return docstore.NewFilePersistence(dataDir)
}

func initDatabase() (*sql.DB, error) {
	dbHost := getEnvOrDefault("DB_HOST", "localhost")
	dbPort := getEnvOrDefault("DB_PORT", "5432")
	dbUser := getEnvOrDefault("DB_USER", "postgres")
	dbPassword := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "marketplace_db")

	connectionString := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName,
	)

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("database open error: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping error: %v", err)
	}

	log.Printf("✅ Database connection successful: %s", dbName)
	return db, nil
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Marketplace Service v1.0",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	return app
}

func setupRoutes(
	app *fiber.App,
	accountHandler *handlers.AccountHandler,
	catalogHandler *handlers.CatalogHandler,
	reservationHandler *handlers.ReservationHandler,
	notificationHandler *handlers.NotificationHandler,
) {
	api := app.Group("/api/v1")
	api.Get("/health", accountHandler.HealthCheck)

	api.Post("/auth/register", accountHandler.Register)
	api.Post("/auth/login", accountHandler.Login)
	api.Post("/auth/logout", accountHandler.Logout)
	api.Get("/auth/session", accountHandler.Session)

	api.Post("/items", catalogHandler.CreateItem)
	api.Put("/items/:id", catalogHandler.UpdateItem)
	api.Delete("/items/:id", catalogHandler.DeleteItem)
	api.Get("/providers/:id/items", catalogHandler.ItemsByProvider)

	api.Post("/offerings", catalogHandler.CreateOffering)
	api.Put("/offerings/:id", catalogHandler.EditOffering)
	api.Post("/offerings/:id/deactivate", catalogHandler.DeactivateOffering)
	api.Get("/offerings", catalogHandler.ListOfferings)

	api.Post("/reservations", reservationHandler.CreateReservation)
	api.Put("/reservations/status", reservationHandler.BulkUpdateStatus)
	api.Put("/reservations/:id/status", reservationHandler.UpdateStatus)
	api.Post("/reservations/:id/cancel", reservationHandler.Cancel)
	api.Put("/reservations/:id/payment-reference", reservationHandler.AttachPaymentReference)
	api.Get("/customers/:id/reservations", reservationHandler.ReservationsByCustomer)
	api.Get("/providers/:id/reservations", reservationHandler.ReservationsByProvider)
	api.Get("/providers/:id/dashboard", reservationHandler.Dashboard)

	api.Put("/providers/:id/categories", accountHandler.SaveCategories)
	api.Post("/providers/:id/follow", accountHandler.FollowProvider)

	api.Get("/users/:id/notifications", notificationHandler.Inbox)
	api.Post("/notifications/:id/read", notificationHandler.MarkRead)

	api.Post("/uploads", catalogHandler.Upload)

	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
