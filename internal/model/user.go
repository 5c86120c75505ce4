package model

import "time"

// User owns tasks and calendar events. TelegramID is zero for the local CLI
// user and set for users who registered through the bot.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
