package scheduler_jobs

import (
	"log"
	"time"

	"assassinsBot/models"

	"gorm.io/gorm"
)

const errorLogRetention = 30 * 24 * time.Hour

// PruneErrorLogs deletes error log rows past the retention window.
func PruneErrorLogs(db *gorm.DB) error {
	cutoff := time.Now().Add(-errorLogRetention)

	result := db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.ErrorLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Pruned %d error log entries older than %s", result.RowsAffected, cutoff.Format("2006-01-02"))
	}
	return nil
}
