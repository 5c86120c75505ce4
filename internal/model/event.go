package model

import "time"

// CalendarEvent is a scheduled block of time, optionally bound to an
// occurrence. Fixed tasks materialize one event per occurrence; manual
// time-blocking creates free-standing events. Many events may point at the
// same occurrence.
type CalendarEvent struct {
	ID           uint  `gorm:"primaryKey"`
	UserID       uint  `gorm:"index"`
	OccurrenceID *uint `gorm:"index"`

	Title   string
	IsFixed bool `gorm:"default:false"`

	Start  time.Time
	Finish time.Time

	IsCompleted   bool `gorm:"default:false"`
	DedicatedTime int  // minutes

	CreatedAt time.Time
	UpdatedAt time.Time
}
