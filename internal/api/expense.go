package api

import (
	"context"                         // Context for Redis operations
	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/utils"  // Utility functions
	"net/http"                        // HTTP status codes
	"time"                            // Date defaulting and cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateExpenseRequest is the body of POST /api/expenses
type CreateExpenseRequest struct {
	Title       string     `json:"title" binding:"required"`    // Label must be provided
	Amount      *float64   `json:"amount" binding:"required"`   // Amount must be provided, zero allowed
	Category    string     `json:"category" binding:"required"` // Category must be provided
	Description string     `json:"description"`                 // Optional details
	Date        *time.Time `json:"date"`                        // Optional, defaults to now
}

// UpdateExpenseRequest carries optional fields for a partial update
type UpdateExpenseRequest struct {
	Title       *string    `json:"title"`       // New label, if present
	Amount      *float64   `json:"amount"`      // New amount, if present
	Category    *string    `json:"category"`    // New category, if present
	Description *string    `json:"description"` // New details, if present
	Date        *time.Time `json:"date"`        // New date, if present
}

// ListExpensesHandler returns the caller's expenses, newest date first
func ListExpensesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                   // Context for Redis operations
		cacheKey := expenseCacheKey(userID.(uint))    // Per-user cache key
		expenses := []domain.Expense{}                // Non-nil so an empty account serializes as []
		found, err := utils.GetCache(ctx, rdb, cacheKey, &expenses) // Try the cache first
		if err == nil && found {
			c.JSON(http.StatusOK, expenses) // Serve the cached list
			return
		}
		// Fetch from the database, most recent spend first
		if err := db.Where("user_id = ?", userID).Order("date desc").Find(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, expenses, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, expenses)                                  // Return the list
	}
}

// CreateExpenseHandler records a new expense owned by the caller
func CreateExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateExpenseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		date := time.Now() // Default the spend date to creation time
		if req.Date != nil {
			date = *req.Date
		}
		expense := domain.Expense{
			UserID:      userID.(uint),   // Owner
			Title:       req.Title,       // Label
			Amount:      *req.Amount,     // Amount
			Category:    req.Category,    // Category
			Description: req.Description, // Details
			Date:        date,            // Spend date
		}
		// Save the expense
		if err := db.Create(&expense).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owner
				"error":   err.Error(), // Failure detail
			}).Error("Failed to create expense")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
			return
		}
		// Invalidate the cached list
		_ = utils.DeleteCache(context.Background(), rdb, expenseCacheKey(userID.(uint)))
		c.JSON(http.StatusCreated, expense) // Return the created record
	}
}

// UpdateExpenseHandler applies a partial update to a caller-owned
// expense; records owned by someone else look like missing records
func UpdateExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateExpenseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var expense domain.Expense // Look up the record scoped to the caller
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&expense).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		updates := map[string]any{} // Only fields present in the body
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Amount != nil {
			updates["amount"] = *req.Amount
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Date != nil {
			updates["date"] = *req.Date
		}
		if len(updates) > 0 {
			if err := db.Model(&expense).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
				return
			}
		}
		// Invalidate the cached list
		_ = utils.DeleteCache(context.Background(), rdb, expenseCacheKey(userID.(uint)))
		c.JSON(http.StatusOK, expense) // Return the updated record
	}
}

// DeleteExpenseHandler removes a caller-owned expense
func DeleteExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var expense domain.Expense // Look up the record scoped to the caller
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&expense).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		// Delete the record
		if err := db.Delete(&expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
			return
		}
		// Invalidate the cached list
		_ = utils.DeleteCache(context.Background(), rdb, expenseCacheKey(userID.(uint)))
		c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
	}
}
