package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"habit-planner/internal/model"
)

// ExportService renders a user's schedule as an iCalendar document:
// one VEVENT per calendar event, plus an all-day VEVENT per open occurrence.
// Open occurrences of recurring tasks carry an RRULE derived from the rule,
// so calendar clients can show the cadence without the backlog being
// materialized.
type ExportService struct {
	tasks       TaskStore
	occurrences OccurrenceStore
	events      EventStore
	now         func() time.Time
}

func NewExportService(tasks TaskStore, occurrences OccurrenceStore, events EventStore) *ExportService {
	return &ExportService{
		tasks:       tasks,
		occurrences: occurrences,
		events:      events,
		now:         time.Now,
	}
}

// Export produces the .ics text for everything on the user's calendar.
func (s *ExportService) Export(ctx context.Context, userID uint) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//habit-planner//Schedule Export//EN")

	now := s.now()

	events, err := s.events.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, event := range events {
		e := ical.NewEvent()
		e.Props.SetText(ical.PropUID, uuid.NewString())
		e.Props.SetDateTime(ical.PropDateTimeStamp, now)
		e.Props.SetDateTime(ical.PropDateTimeStart, event.Start)
		e.Props.SetDateTime(ical.PropDateTimeEnd, event.Finish)
		e.Props.SetText(ical.PropSummary, event.Title)
		if event.IsCompleted {
			e.Props.SetText(ical.PropStatus, "CONFIRMED")
		}
		cal.Children = append(cal.Children, e.Component)
	}

	tasks, err := s.tasks.ListActiveByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	taskByID := make(map[uint]*model.Task, len(tasks))
	for i := range tasks {
		taskByID[tasks[i].ID] = &tasks[i]
	}

	pending, err := s.occurrences.ListPendingByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, occ := range pending {
		task := taskByID[occ.TaskID]
		if task == nil || task.IsFixed {
			// Fixed occurrences are already covered by their events.
			continue
		}

		e := ical.NewEvent()
		e.Props.SetText(ical.PropUID, uuid.NewString())
		e.Props.SetDateTime(ical.PropDateTimeStamp, now)
		e.Props.SetDateTime(ical.PropDateTimeStart, occ.StartDate)
		if occ.LimitDate != nil {
			e.Props.SetDateTime(ical.PropDateTimeEnd, *occ.LimitDate)
		}
		e.Props.SetText(ical.PropSummary, task.Name)
		if rule := recurrenceRule(task.Recurrence, occ.StartDate); rule != "" {
			e.Props.SetText(ical.PropRecurrenceRule, rule)
		}
		cal.Children = append(cal.Children, e.Component)
	}

	var buf strings.Builder
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("encode calendar: %w", err)
	}
	return buf.String(), nil
}

// recurrenceRule translates a task's recurrence into RRULE text. Empty for
// one-off rules.
func recurrenceRule(rec *model.TaskRecurrence, start time.Time) string {
	if rec.IsSingle() {
		return ""
	}

	opt := rrule.ROption{Freq: rrule.DAILY, Dtstart: start.UTC()}
	switch {
	case rec.HasWeekdays():
		opt.Freq = rrule.WEEKLY
		for _, wd := range rec.DaysOfWeek.Sorted() {
			opt.Byweekday = append(opt.Byweekday, rruleWeekday(wd))
		}
	case rec.HasMonthDays():
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = rec.DaysOfMonth.Sorted()
	case rec.HasInterval():
		opt.Interval = *rec.Interval
	default:
		// FiniteRecurring: daily with a total count.
		if max := rec.MaxOccurrencesValue(); max > 1 {
			opt.Count = max
		}
	}
	if rec.EndDate != nil {
		opt.Until = rec.EndDate.UTC()
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return ""
	}
	return rule.String()
}

func rruleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
