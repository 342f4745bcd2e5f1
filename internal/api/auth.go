package api

import (
	"expense_tracker/internal/config" // Runtime configuration
	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/mail"   // OTP delivery
	"expense_tracker/internal/utils"  // Utility functions
	"net/http"                        // HTTP status codes
	"time"                            // OTP expiry arithmetic

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`           // Display name must be provided
	Email    string `json:"email" binding:"required,email"`    // Email must be provided and well-formed
	Password string `json:"password" binding:"required,min=6"` // Password must be at least 6 characters
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email must be provided
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// VerifyOTPRequest is the body of POST /verify-otp
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"` // Email the code was sent to
	OTP   string `json:"otp" binding:"required"`         // The 6-digit code
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Reject duplicate emails with an exact-match lookup
		var existing domain.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		// Hash the password before storage; plaintext is never persisted
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{Email: req.Email, Password: string(hash), Name: req.Name}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Unique index races still land here, surface the same duplicate error
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		// Log the registration
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // New user ID
			"email":   user.Email, // Registered email
		}).Info("User registered")
		// Registration never returns a token; the user logs in separately
		c.JSON(http.StatusCreated, gin.H{"message": "You are registered"})
	}
}

// LoginHandler authenticates a user. With 2FA disabled it returns a
// signed token immediately; with 2FA enabled it persists a fresh OTP,
// emails it, and returns a verification-required response instead.
func LoginHandler(db *gorm.DB, cfg *config.Config, mailer mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// Same message as a bad password so callers cannot probe for accounts
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		// Second factor required: issue a fresh code instead of a token
		if user.IsTwoFactorEnabled {
			code, err := utils.GenerateOTP()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate OTP"})
				return
			}
			expiresAt := time.Now().Add(cfg.OTPTTL)
			// Persist the code first; a repeated login overwrites any pending one
			updates := map[string]any{"pending_otp": code, "otp_expires_at": expiresAt}
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store OTP"})
				return
			}
			// Deliver the code out-of-band; a failed send fails the login
			text := "Your verification code is " + code
			html := "<p>Your verification code is <b>" + code + "</b></p>"
			if err := mailer.Send(c.Request.Context(), user.Email, "Your login verification code", text, html); err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": user.ID,     // User awaiting the code
					"error":   err.Error(), // Delivery failure
				}).Error("Failed to send OTP email")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP email"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":    user.ID,   // User awaiting the code
				"expires_at": expiresAt, // Code validity deadline
			}).Info("OTP issued")
			// No token until the code is verified
			c.JSON(http.StatusOK, gin.H{"twoFactorRequired": true, "message": "OTP sent to your email"})
			return
		}
		// Generate the bearer token
		token, err := utils.GenerateJWT(user.ID, cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token with the public user projection
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user.Public()})
	}
}

// VerifyOTPHandler completes a 2FA login. The code must match the most
// recently issued one and its expiry must not have passed; success
// clears the stored code so it cannot be replayed.
func VerifyOTPHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyOTPRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// Unknown user, bad code, and expired code all surface identically
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}
		// Check the stored code and its expiry
		if user.PendingOTP == "" || user.PendingOTP != req.OTP ||
			user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}
		// Clear the code so it cannot be reused
		updates := map[string]any{"pending_otp": "", "otp_expires_at": nil}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
			return
		}
		// Generate the bearer token
		token, err := utils.GenerateJWT(user.ID, cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // Verified user
		}).Info("OTP verified")
		// Same response shape as a 2FA-off login
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user.Public()})
	}
}
