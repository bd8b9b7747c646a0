package main

import (
	"os"
	"time"

	"esport-accounts/database"
	"esport-accounts/logger"
	"esport-accounts/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768,
		WriteBufferSize: 32768,
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       1 * 1024 * 1024,
	})

	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, relying on process environment")
	}

	db, err := database.InitDB()
	if err != nil {
		logger.Fatal("Failed to connect to the database: " + err.Error())
	}

	rdb, err := database.InitRedis()
	if err != nil {
		logger.Fatal("Failed to connect to redis: " + err.Error())
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("FRONTEND_URL"),
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, db, rdb)

	appHost := os.Getenv("APP_HOST")
	appPort := os.Getenv("APP_PORT")
	logger.Success("Server is running on " + appHost + ":" + appPort)
	if err := app.Listen(appHost + ":" + appPort); err != nil {
		logger.Fatal("Server stopped: " + err.Error())
	}
}
