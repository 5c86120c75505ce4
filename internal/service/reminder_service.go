package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"habit-planner/internal/model"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	tasks       TaskStore
	occurrences OccurrenceStore
}

func NewReminderService(tasks TaskStore, occurrences OccurrenceStore) *ReminderService {
	return &ReminderService{tasks: tasks, occurrences: occurrences}
}

// DailySummary renders the user's open occurrences grouped into overdue, due
// soon and upcoming. Returns HTML the way the bot sends it.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	tasks, err := s.tasks.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	names := make(map[uint]string, len(tasks))
	for _, task := range tasks {
		names[task.ID] = task.Name
	}

	pending, err := s.occurrences.ListPendingByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}

	var overdue, dueSoon, upcoming []model.TaskOccurrence
	for _, occ := range pending {
		switch {
		case occ.LimitDate != nil && now.After(*occ.LimitDate):
			overdue = append(overdue, occ)
		case occ.LimitDate != nil && occ.LimitDate.Sub(now) <= 48*time.Hour:
			dueSoon = append(dueSoon, occ)
		default:
			upcoming = append(upcoming, occ)
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily plan</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	writeSection(&builder, "⚠️ <b>Overdue</b>", overdue, names, "nothing overdue")
	writeSection(&builder, "⏳ <b>Due soon</b>", dueSoon, names, "nothing due in the next two days")
	writeSection(&builder, "🟢 <b>Upcoming</b>", upcoming, names, "nothing scheduled")

	return strings.TrimSpace(builder.String()), nil
}

func writeSection(builder *strings.Builder, header string, occs []model.TaskOccurrence, names map[uint]string, empty string) {
	builder.WriteString(header)
	builder.WriteByte('\n')
	if len(occs) == 0 {
		builder.WriteString("— " + empty + "\n\n")
		return
	}
	for _, occ := range occs {
		builder.WriteString(formatOccurrence(occ, names))
	}
	builder.WriteByte('\n')
}

func formatOccurrence(occ model.TaskOccurrence, names map[uint]string) string {
	var sb strings.Builder

	name := names[occ.TaskID]
	if name == "" {
		name = fmt.Sprintf("task #%d", occ.TaskID)
	}
	sb.WriteString(fmt.Sprintf("• %s <i>(#%d)</i>", html.EscapeString(strings.TrimSpace(name)), occ.ID))

	if occ.TargetDate != nil {
		sb.WriteString(fmt.Sprintf(" · aim %s", occ.TargetDate.Format("2006-01-02")))
	}
	if occ.LimitDate != nil {
		sb.WriteString(fmt.Sprintf(" · by %s", occ.LimitDate.Format("2006-01-02")))
	}

	sb.WriteByte('\n')
	return sb.String()
}
