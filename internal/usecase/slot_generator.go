package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/service"
)

const (
	workdayStartHour = 9
	workdayEndHour   = 17
)

// fallbackPresets are hour/minute pairs offered when the calendar cannot be read.
var fallbackPresets = [][2]int{{10, 0}, {11, 30}, {14, 0}, {15, 30}}

type SlotGenerator struct {
	calendar service.CalendarServiceInterface
	duration time.Duration
	loc      *time.Location
	log      *slog.Logger
}

func NewSlotGenerator(calendar service.CalendarServiceInterface, duration time.Duration, loc *time.Location) *SlotGenerator {
	if duration <= 0 {
		duration = time.Hour
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SlotGenerator{
		calendar: calendar,
		duration: duration,
		loc:      loc,
		log:      slog.With(slog.String("component", "slot_generator")),
	}
}

// Generate never fails: when the calendar errors or has too little free time
// it returns the first count fallback presets instead.
func (g *SlotGenerator) Generate(ctx context.Context, date time.Time, count int, calendarID string) model.ProposedSlots {
	if count < 1 {
		count = 1
	}
	// date carries the calendar day only; its location may be UTC when read back from a date column
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, workdayStartHour, 0, 0, 0, g.loc)
	dayEnd := time.Date(y, m, d, workdayEndHour, 0, 0, 0, g.loc)

	if g.calendar != nil {
		busy, err := g.calendar.GetBusyBlocks(ctx, calendarID, dayStart, dayEnd)
		if err == nil {
			slots := freeSlots(dayStart, dayEnd, g.duration, busy, count)
			if len(slots) >= count {
				return slots
			}
			g.log.Info("not enough free calendar time, using fallback slots",
				slog.String("date", dayStart.Format(time.DateOnly)), slog.Int("found", len(slots)), slog.Int("wanted", count))
		} else {
			g.log.Warn("calendar unavailable, using fallback slots",
				slog.String("date", dayStart.Format(time.DateOnly)), slog.Any("error", err))
		}
	}
	return g.fallback(dayStart, count)
}

// freeSlots walks the working day in duration steps. A candidate interval
// that overlaps a busy block resumes at that block's end.
func freeSlots(dayStart, dayEnd time.Time, duration time.Duration, busy []model.TimeWindow, count int) model.ProposedSlots {
	var slots model.ProposedSlots
	cursor := dayStart
	for len(slots) < count {
		candidate := model.TimeWindow{Start: cursor, End: cursor.Add(duration)}
		if candidate.End.After(dayEnd) {
			break
		}
		if blockEnd, overlaps := latestOverlap(candidate, busy); overlaps {
			cursor = blockEnd
			continue
		}
		slots = append(slots, model.Slot{
			ID:    fmt.Sprintf("slot%d", len(slots)+1),
			Start: candidate.Start,
			End:   candidate.End,
		})
		cursor = candidate.End
	}
	return slots
}

func latestOverlap(w model.TimeWindow, busy []model.TimeWindow) (time.Time, bool) {
	var end time.Time
	found := false
	for _, b := range busy {
		if w.Overlaps(b) && b.End.After(end) {
			end, found = b.End, true
		}
	}
	return end, found
}

func (g *SlotGenerator) fallback(dayStart time.Time, count int) model.ProposedSlots {
	if count > len(fallbackPresets) {
		count = len(fallbackPresets)
	}
	y, m, d := dayStart.Date()
	slots := make(model.ProposedSlots, 0, count)
	for i := 0; i < count; i++ {
		start := time.Date(y, m, d, fallbackPresets[i][0], fallbackPresets[i][1], 0, 0, g.loc)
		slots = append(slots, model.Slot{
			ID:    fmt.Sprintf("slot%d", i+1),
			Start: start,
			End:   start.Add(g.duration),
		})
	}
	return slots
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextWeekday returns the first Monday-Friday date strictly after from.
func NextWeekday(from time.Time) time.Time {
	y, m, d := from.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, from.Location())
	for isWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
