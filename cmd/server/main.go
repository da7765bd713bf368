package main

import (
	"log"
	"time"

	"virement-batch-backend/internal/config"
	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()
	db := config.InitDB()

	db.AutoMigrate(
		&models.Society{},
		&models.Member{},
		&models.DonneurDOrdre{},
		&models.Batch{},
		&models.BatchHistory{},
		&models.Transfer{},
		&models.TransferHistory{},
	)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Actor"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, cfg.DelayedBatchThreshold())

	r.Run(":" + cfg.Port)
}
