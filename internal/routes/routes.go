package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"virement-batch-backend/internal/handlers"
	"virement-batch-backend/internal/repository"
	batchsvc "virement-batch-backend/internal/services/batch"
	recon "virement-batch-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, delayThreshold time.Duration) {
	societyRepo := repository.NewSocietyRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	donneurRepo := repository.NewDonneurRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	transferRepo := repository.NewTransferRepository(db)

	validator := batchsvc.NewValidator()
	batchService := batchsvc.NewService(db, validator, memberRepo, batchRepo, transferRepo, donneurRepo, societyRepo)
	generator := batchsvc.NewGenerator(batchRepo, validator)
	machine := batchsvc.NewStateMachine(db)
	reconService := recon.NewService(transferRepo)

	directoryHandler := handlers.NewDirectoryHandler(societyRepo, memberRepo, donneurRepo)
	batchHandler := handlers.NewBatchHandler(batchService, generator, machine, batchRepo, delayThreshold)
	transferHandler := handlers.NewTransferHandler(transferRepo, machine, batchService)
	reconHandler := handlers.NewReconciliationHandler(reconService)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	societies := api.Group("/societies")
	societies.POST("", directoryHandler.CreateSociety)
	societies.GET("", directoryHandler.ListSocieties)
	societies.GET("/:id", directoryHandler.GetSociety)
	societies.PUT("/:id", directoryHandler.UpdateSociety)
	societies.DELETE("/:id", directoryHandler.DeleteSociety)

	members := api.Group("/members")
	members.POST("", directoryHandler.CreateMember)
	members.GET("", directoryHandler.ListMembers)
	members.GET("/:id", directoryHandler.GetMember)
	members.PUT("/:id", directoryHandler.UpdateMember)
	members.DELETE("/:id", directoryHandler.DeleteMember)

	donneurs := api.Group("/donneurs")
	donneurs.POST("", directoryHandler.CreateDonneur)
	donneurs.GET("", directoryHandler.ListDonneurs)
	donneurs.GET("/:id", directoryHandler.GetDonneur)
	donneurs.PUT("/:id", directoryHandler.UpdateDonneur)
	donneurs.DELETE("/:id", directoryHandler.DeleteDonneur)

	batches := api.Group("/batches")
	batches.POST("/preview", batchHandler.Preview)
	batches.POST("/upload", batchHandler.Upload)
	batches.GET("", batchHandler.List)
	batches.GET("/:id", batchHandler.Get)
	batches.DELETE("/:id", batchHandler.Delete)
	batches.GET("/:id/file", batchHandler.DownloadFile)
	batches.GET("/:id/pdf", batchHandler.DownloadPDF)
	batches.POST("/:id/status", batchHandler.UpdateStatus)
	batches.POST("/:id/archive", batchHandler.Archive)
	batches.GET("/:id/history", batchHandler.History)
	batches.POST("/:id/transfers", batchHandler.AddTransfer)

	transfers := api.Group("/transfers")
	transfers.GET("/:id", transferHandler.Get)
	transfers.POST("/:id/status", transferHandler.UpdateStatus)
	transfers.GET("/:id/history", transferHandler.History)
	transfers.DELETE("/:id", transferHandler.Delete)

	api.GET("/alerts", batchHandler.Alerts)

	api.POST("/reconciliation/run", reconHandler.Run)
}
