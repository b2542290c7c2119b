package models

import "time"

// TeamSerialCounter hands out the per-team serials embedded in issue keys.
// NextSerial is the value the next allocation will return; every key ever
// generated for the team is strictly below it.
type TeamSerialCounter struct {
	ID         string `gorm:"primaryKey"`
	TeamID     string `gorm:"uniqueIndex"`
	NextSerial int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
