package main

import (
	"context"                            // context package is needed for Redis operations
	"expense_tracker/internal/api"       // Custom package for API handlers
	"expense_tracker/internal/config"    // Custom package for configuration
	"expense_tracker/internal/mail"      // Custom package for OTP email delivery
	"expense_tracker/internal/middleware" // Custom package for middleware
	"log"                                // log package is needed for logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The token secret is the one setting the server cannot run without
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup the OTP mailer; it dials lazily on first send
	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host: cfg.SMTPHost, // SMTP server host
		Port: cfg.SMTPPort, // SMTP server port
		User: cfg.SMTPUser, // SMTP username
		Pass: cfg.SMTPPass, // SMTP password
		From: cfg.SMTPFrom, // Sender address
	})
	if err != nil {
		logrus.Fatalf("failed to configure SMTP: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/register", api.RegisterHandler(db))               // Registration endpoint
	r.POST("/login", api.LoginHandler(db, cfg, mailer))        // Login endpoint, may trigger an OTP email
	r.POST("/verify-otp", api.VerifyOTPHandler(db, cfg))       // OTP verification endpoint

	// Account routes (protected by JWT)
	accountGroup := r.Group("/")
	accountGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	accountGroup.POST("/toggle-2fa", api.ToggleTwoFactorHandler(db))           // Flip the caller's 2FA flag
	accountGroup.PUT("/budget", api.UpdateBudgetHandler(db))                   // Set the caller's budget
	accountGroup.PUT("/profile", api.UpdateProfileHandler(db))                 // Partial profile update
	accountGroup.GET("/me", api.MeHandler(db))                                 // Public projection of the caller
	accountGroup.DELETE("/me", api.DeleteAccountHandler(db, redisClient))      // Remove the account and its expenses

	// Expense routes (protected by JWT)
	expenseGroup := r.Group("/api/expenses")
	expenseGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	expenseGroup.GET("", api.ListExpensesHandler(db, redisClient))          // List the caller's expenses
	expenseGroup.POST("", api.CreateExpenseHandler(db, redisClient))        // Record an expense
	expenseGroup.PUT("/:id", api.UpdateExpenseHandler(db, redisClient))     // Update a caller-owned expense
	expenseGroup.DELETE("/:id", api.DeleteExpenseHandler(db, redisClient))  // Delete a caller-owned expense

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
