package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier-desk/database"
	"courier-desk/httpServices/stripe"
	"courier-desk/logger"
	"courier-desk/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
	})

	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, reading configuration from environment")
	}

	db, err := database.InitDB()
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	authClient, err := database.InitFirebaseAuth(context.Background())
	if err != nil {
		logger.Error("Failed to initialize the identity verifier", err)
		return
	}

	stripeClient := stripe.NewClient(os.Getenv("STRIPE_API_BASE"), os.Getenv("PAYMENT_GATEWAY_KEY"))

	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	app.Use(cors.New(cors.Config{
		AllowOrigins: os.Getenv("FRONTEND_URL"),
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.SetupRoutes(app, db, authClient, stripeClient, asyncLogger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down...")
		if err := app.Shutdown(); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	host := os.Getenv("APP_HOST")
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "5000"
	}

	logger.Success("CourierDesk server running on " + host + ":" + port)
	if err := app.Listen(host + ":" + port); err != nil {
		logger.Error("Server stopped", err)
	}

	asyncLogger.Close()
	if err := database.Close(db); err != nil {
		logger.Error("Failed to close the database connection", err)
	}
}
