package model

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TaskRecurrence is the rule that governs occurrence generation for a task.
// It is the rule, never an occurrence: interval or one day pattern plus an
// optional per-period cap. DaysOfWeek and DaysOfMonth are mutually
// exclusive.
type TaskRecurrence struct {
	ID     uint `gorm:"primaryKey"`
	TaskID uint `gorm:"uniqueIndex"`

	Interval    *int        // days per period
	DaysOfWeek  WeekdaySet  `gorm:"type:text"`
	DaysOfMonth MonthDaySet `gorm:"type:text"`

	MaxOccurrences       *int
	CompletedOccurrences *int       // per-period counter, reset on rollover
	LastPeriodStart      *time.Time // anchor of the current period
	EndDate              *time.Time // optional hard stop

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecurrenceUpdate carries the only recurrence fields that ever change after
// creation. Both are applied through the period manager, nothing else writes
// them.
type RecurrenceUpdate struct {
	CompletedOccurrences *int
	LastPeriodStart      *time.Time
}

func (r *TaskRecurrence) HasInterval() bool {
	return r != nil && r.Interval != nil && *r.Interval > 0
}

func (r *TaskRecurrence) HasWeekdays() bool {
	return r != nil && len(r.DaysOfWeek) > 0
}

func (r *TaskRecurrence) HasMonthDays() bool {
	return r != nil && len(r.DaysOfMonth) > 0
}

func (r *TaskRecurrence) HasDayPattern() bool {
	return r.HasWeekdays() || r.HasMonthDays()
}

// MaxOccurrencesValue returns the cap, 0 when unset.
func (r *TaskRecurrence) MaxOccurrencesValue() int {
	if r == nil || r.MaxOccurrences == nil {
		return 0
	}
	return *r.MaxOccurrences
}

// CompletedOccurrencesValue returns the period counter, 0 when unset.
func (r *TaskRecurrence) CompletedOccurrencesValue() int {
	if r == nil || r.CompletedOccurrences == nil {
		return 0
	}
	return *r.CompletedOccurrences
}

// IsSingle reports whether the rule denotes a one-off task: no interval, no
// day pattern, at most one occurrence.
func (r *TaskRecurrence) IsSingle() bool {
	if r == nil {
		return true
	}
	return !r.HasInterval() && !r.HasDayPattern() && r.MaxOccurrencesValue() == 1
}

// Validate rejects rules the engine has no defined behavior for.
func (r *TaskRecurrence) Validate() error {
	if r == nil {
		return nil
	}
	if r.HasWeekdays() && r.HasMonthDays() {
		return fmt.Errorf("recurrence: days of week and days of month are mutually exclusive")
	}
	if r.Interval != nil && *r.Interval <= 0 {
		return fmt.Errorf("recurrence: interval must be positive, got %d", *r.Interval)
	}
	if r.MaxOccurrences != nil && *r.MaxOccurrences <= 0 {
		return fmt.Errorf("recurrence: max occurrences must be positive, got %d", *r.MaxOccurrences)
	}
	for _, day := range r.DaysOfMonth {
		if day < 1 || day > 31 {
			return fmt.Errorf("recurrence: day of month %d out of range", day)
		}
	}
	return nil
}

// WeekdaySet is a set of weekdays stored as a comma-separated text column
// ("MON,WED,FRI"). Kept sorted Sunday-first to match time.Weekday ordering.
type WeekdaySet []time.Weekday

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "SUN",
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
}

// ParseWeekday accepts the stored three-letter tag or a full English name.
func ParseWeekday(s string) (time.Weekday, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for wd, tag := range weekdayNames {
		if upper == tag || upper == strings.ToUpper(wd.String()) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func (s WeekdaySet) Contains(wd time.Weekday) bool {
	for _, d := range s {
		if d == wd {
			return true
		}
	}
	return false
}

// Sorted returns the weekdays in ascending time.Weekday order.
func (s WeekdaySet) Sorted() []time.Weekday {
	out := make([]time.Weekday, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s WeekdaySet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	tags := make([]string, 0, len(s))
	for _, wd := range s.Sorted() {
		tags = append(tags, weekdayNames[wd])
	}
	return strings.Join(tags, ","), nil
}

func (s *WeekdaySet) Scan(value interface{}) error {
	raw, err := scanText(value)
	if err != nil {
		return fmt.Errorf("scan weekday set: %w", err)
	}
	if raw == "" {
		*s = nil
		return nil
	}
	var set WeekdaySet
	for _, part := range strings.Split(raw, ",") {
		wd, err := ParseWeekday(part)
		if err != nil {
			return fmt.Errorf("scan weekday set: %w", err)
		}
		set = append(set, wd)
	}
	*s = set
	return nil
}

func (s WeekdaySet) String() string {
	v, _ := s.Value()
	if v == nil {
		return ""
	}
	return v.(string)
}

// MonthDaySet is a set of days of month (1..31) stored as comma-separated
// text ("1,15,31").
type MonthDaySet []int

func (s MonthDaySet) Contains(day int) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// Sorted returns the days in ascending order.
func (s MonthDaySet) Sorted() []int {
	out := make([]int, len(s))
	copy(out, s)
	sort.Ints(out)
	return out
}

// Min returns the smallest day in the set, 0 when empty.
func (s MonthDaySet) Min() int {
	if len(s) == 0 {
		return 0
	}
	return s.Sorted()[0]
}

func (s MonthDaySet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	parts := make([]string, 0, len(s))
	for _, d := range s.Sorted() {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ","), nil
}

func (s *MonthDaySet) Scan(value interface{}) error {
	raw, err := scanText(value)
	if err != nil {
		return fmt.Errorf("scan month day set: %w", err)
	}
	if raw == "" {
		*s = nil
		return nil
	}
	var set MonthDaySet
	for _, part := range strings.Split(raw, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("scan month day set: %w", err)
		}
		set = append(set, d)
	}
	*s = set
	return nil
}

func (s MonthDaySet) String() string {
	v, _ := s.Value()
	if v == nil {
		return ""
	}
	return v.(string)
}

func scanText(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported column type %T", value)
	}
}
