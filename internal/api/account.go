package api

import (
	"context"                         // Context for Redis operations
	"expense_tracker/internal/db"     // Cascade-delete helper
	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/utils"  // Utility functions
	"net/http"                        // HTTP status codes
	"strconv"                         // Cache key formatting

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// UpdateBudgetRequest uses a pointer so an explicit zero budget is
// distinguishable from an absent field.
type UpdateBudgetRequest struct {
	Budget *float64 `json:"budget" binding:"required"` // New budget, zero allowed
}

// UpdateProfileRequest carries optional fields; only fields present in
// the JSON body are applied, so an empty string is a valid new value.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`           // New display name, if present
	ProfilePicture *string `json:"profilePicture"` // New picture reference, if present
}

// currentUser loads the authenticated caller's record from the userID
// set by the JWT middleware
func currentUser(c *gin.Context, dbx *gorm.DB) (*domain.User, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	var user domain.User // Fetch user from database
	if err := dbx.First(&user, userID).Error; err != nil {
		// The token outlived the account
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return &user, true
}

// ToggleTwoFactorHandler flips the caller's 2FA flag and returns the new state
func ToggleTwoFactorHandler(dbx *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, dbx)
		if !ok {
			return
		}
		newState := !user.IsTwoFactorEnabled // Flip the flag
		if err := dbx.Model(user).Update("is_two_factor_enabled", newState).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update 2FA setting"})
			return
		}
		// Log the toggle
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,  // Owner of the flag
			"enabled": newState, // Resulting state
		}).Info("2FA toggled")
		c.JSON(http.StatusOK, gin.H{"message": "Two-factor setting updated", "isTwoFactorEnabled": newState})
	}
}

// UpdateBudgetHandler sets the caller's budget
func UpdateBudgetHandler(dbx *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, dbx)
		if !ok {
			return
		}
		var req UpdateBudgetRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Budget == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := dbx.Model(user).Update("budget", *req.Budget).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Budget updated", "budget": *req.Budget})
	}
}

// UpdateProfileHandler applies a partial update of the caller's display
// fields. Presence in the body decides what changes, not truthiness.
func UpdateProfileHandler(dbx *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, dbx)
		if !ok {
			return
		}
		var req UpdateProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		updates := map[string]any{} // Only fields present in the body
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.ProfilePicture != nil {
			updates["profile_picture"] = *req.ProfilePicture
		}
		if len(updates) > 0 {
			if err := dbx.Model(user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user.Public()})
	}
}

// MeHandler returns the caller's public projection
func MeHandler(dbx *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, dbx)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Public()})
	}
}

// DeleteAccountHandler removes the caller's account together with all
// of its expenses in one transaction
func DeleteAccountHandler(dbx *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, dbx)
		if !ok {
			return
		}
		if err := db.DeleteUserCascade(dbx, user.ID); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Account being removed
				"error":   err.Error(), // Failure detail
			}).Error("Account deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
			return
		}
		// Drop the cached expense list for the removed account
		_ = utils.DeleteCache(context.Background(), rdb, expenseCacheKey(user.ID))
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // Removed account
		}).Info("Account deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
	}
}

// expenseCacheKey is the Redis key for a user's cached expense list
func expenseCacheKey(userID uint) string {
	return "expenses:user:" + strconv.Itoa(int(userID))
}
