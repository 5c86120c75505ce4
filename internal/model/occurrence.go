package model

import "time"

// OccurrenceStatus tracks the lifecycle of one unit of work.
type OccurrenceStatus string

const (
	StatusPending    OccurrenceStatus = "pending"
	StatusInProgress OccurrenceStatus = "in_progress"
	StatusCompleted  OccurrenceStatus = "completed"
	StatusSkipped    OccurrenceStatus = "skipped"
)

// IsFinished reports whether the occurrence no longer needs work: completed
// and skipped both count.
func (s OccurrenceStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// TaskOccurrence is one concrete, dated instance of a task's work.
// Occurrences are never deleted on their own, only via task cascade.
type TaskOccurrence struct {
	ID     uint `gorm:"primaryKey"`
	TaskID uint `gorm:"index"`

	StartDate  time.Time  // when the occurrence becomes active
	TargetDate *time.Time // soft goal
	LimitDate  *time.Time // hard deadline

	TargetTimeConsumption *int // minutes
	TimeConsumed          *int // minutes

	Status      OccurrenceStatus `gorm:"default:pending"`
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
