package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/application/service"
	"github.com/tilldesk/tilldesk-api/internal/config"
	"github.com/tilldesk/tilldesk-api/internal/infrastructure/database"
	"github.com/tilldesk/tilldesk-api/internal/infrastructure/repository"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/handler"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/routes"
	"github.com/tilldesk/tilldesk-api/pkg/email"
	"github.com/tilldesk/tilldesk-api/pkg/printer"
	"github.com/tilldesk/tilldesk-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	var logger *zap.Logger
	var err error
	if cfg.App.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		logger.Warn("Failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	productRepo := repository.NewProductRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	pettyCashRepo := repository.NewPettyCashRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.FromEmail,
	})

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		logger.Warn("Failed to initialize printer, falling back to null printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	taxRate := decimal.NewFromFloat(cfg.Sales.TaxRate)

	// Initialize services
	authService := service.NewAuthService(userRepo, orgRepo, jwtManager)
	sessionService := service.NewSessionService(sessionRepo, pettyCashRepo, saleRepo, logger)
	pricingService := service.NewPricingService(logger)
	paymentService := service.NewPaymentService(logger)
	checkoutService := service.NewCheckoutService(
		productRepo, saleRepo, discountRepo, customerRepo,
		sessionService, pricingService, paymentService,
		taxRate, logger,
	)
	receiptService := service.NewReceiptService(saleRepo, orgRepo, thermalPrinter, emailService, logger)
	productService := service.NewProductService(productRepo, predictionRepo)
	customerService := service.NewCustomerService(customerRepo)
	discountService := service.NewDiscountService(discountRepo)
	reportService := service.NewReportService(sessionRepo, saleRepo, pettyCashRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Session:  handler.NewSessionHandler(sessionService, reportService, userRepo),
		Checkout: handler.NewCheckoutHandler(checkoutService, receiptService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Discount: handler.NewDiscountHandler(discountService),
		Report:   handler.NewReportHandler(reportService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		UserRepo:        userRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
