package model

import "time"

// Task is a named unit of intent. How and when work for it materializes is
// governed by its optional recurrence rule; the concrete units of work are
// its occurrences.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Name        string
	Description string
	Importance  int  `gorm:"default:5"` // 1..10
	IsFixed     bool `gorm:"default:false"`
	IsActive    bool `gorm:"default:true"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// A task owns at most one recurrence and any number of occurrences;
	// both go away with the task.
	Recurrence  *TaskRecurrence  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Occurrences []TaskOccurrence `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
