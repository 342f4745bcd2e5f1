package db

import (
	"expense_tracker/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// DeleteUserCascade removes a user together with every expense the user
// owns, atomically. The schema-level foreign key also cascades, but the
// invariant belongs to the data-access layer so it holds on backends
// where the constraint is not enforced.
func DeleteUserCascade(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Remove the owned expenses first
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Expense{}).Error; err != nil {
			return err // Return error to rollback
		}
		// Then the user record itself
		if err := tx.Delete(&domain.User{}, userID).Error; err != nil {
			return err // Return error to rollback
		}
		return nil // Commit transaction
	})
}
