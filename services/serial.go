package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedback-github-sync/models"
)

// GetAndUpdatePostSerialCount allocates the next issue-key serial for a
// team. It returns the counter's current value and advances it by one in
// the same conditional update, so two concurrent calls can never observe
// the same serial: the loser's update matches zero rows and it retries on
// the fresh value.
func GetAndUpdatePostSerialCount(db *gorm.DB, teamID string) (int, error) {
	for {
		var counter models.TeamSerialCounter
		err := db.Where("team_id = ?", teamID).First(&counter).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.TeamSerialCounter{
				ID:         uuid.NewString(),
				TeamID:     teamID,
				NextSerial: 2,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}
			createErr := db.Create(&counter).Error
			if createErr == nil {
				return 1, nil
			}
			// another caller created the row first; retry against it
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				continue
			}
			return 0, fmt.Errorf("failed to create serial counter: %w", createErr)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read serial counter: %w", err)
		}

		serial := counter.NextSerial
		result := db.Model(&models.TeamSerialCounter{}).
			Where("team_id = ? AND next_serial = ?", teamID, serial).
			Updates(map[string]interface{}{
				"next_serial": serial + 1,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return 0, fmt.Errorf("failed to advance serial counter: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// lost the race, another caller took this serial
			continue
		}
		return serial, nil
	}
}
