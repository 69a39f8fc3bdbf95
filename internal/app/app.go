package app

import (
	"database/sql"
	"fmt"
	"log"

	"salescrm/internal/config"
	"salescrm/internal/handlers"
	"salescrm/internal/repositories"
	"salescrm/internal/routes"
	"salescrm/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "salescrm/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	pipelineRepo := repositories.NewPipelineRepository(db)
	stageRepo := repositories.NewStageRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	productRepo := repositories.NewProductRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	dealRepo := repositories.NewDealRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	creditNoteRepo := repositories.NewCreditNoteRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// nil when no bot token is configured; callers tolerate that
	var telegramService *services.TelegramService
	if cfg.Telegram.BotToken != "" {
		telegramService = services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	pipelineService := services.NewPipelineService(pipelineRepo, stageRepo)
	stageService := services.NewStageService(stageRepo, leadRepo, dealRepo)
	customerService := services.NewCustomerService(customerRepo)
	productService := services.NewProductService(productRepo)
	leadService := services.NewLeadService(leadRepo, dealRepo, stageService, telegramService)
	dealService := services.NewDealService(dealRepo, stageService, productRepo, telegramService)
	invoiceService := services.NewInvoiceService(invoiceRepo, customerRepo, productRepo, emailService)
	creditNoteService := services.NewCreditNoteService(creditNoteRepo, invoiceRepo, customerRepo, productRepo, emailService)
	taskService := services.NewTaskService(taskRepo)
	reportService := services.NewReportService(pipelineRepo, leadRepo, dealRepo)

	// === Handlers ===
	pipelineHandler := handlers.NewPipelineHandler(pipelineService)
	stageHandler := handlers.NewStageHandler(stageService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	productHandler := handlers.NewProductHandler(productService)
	leadHandler := handlers.NewLeadHandler(leadService, customerService)
	dealHandler := handlers.NewDealHandler(dealService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	creditNoteHandler := handlers.NewCreditNoteHandler(creditNoteService)
	taskHandler := handlers.NewTaskHandler(taskService)
	reportHandler := handlers.NewReportHandler(reportService)
	pricingHandler := handlers.NewPricingHandler()

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		pipelineHandler,
		stageHandler,
		customerHandler,
		productHandler,
		leadHandler,
		dealHandler,
		invoiceHandler,
		creditNoteHandler,
		taskHandler,
		reportHandler,
		pricingHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
