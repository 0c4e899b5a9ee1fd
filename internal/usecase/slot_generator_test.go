package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 5, hour, minute, 0, 0, testLoc)
}

func startsOf(slots model.ProposedSlots) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.In(testLoc))
	}
	return out
}

func TestSlotGeneratorGenerate(t *testing.T) {
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		calendar *fakeCalendar
		count    int
		want     []time.Time
	}{
		{
			name:     "free calendar yields consecutive slots from nine",
			calendar: &fakeCalendar{},
			count:    3,
			want:     []time.Time{at(9, 0), at(10, 0), at(11, 0)},
		},
		{
			name: "busy block moves the walk to its end",
			calendar: &fakeCalendar{busy: []model.TimeWindow{
				{Start: at(9, 30), End: at(10, 30)},
			}},
			count: 3,
			want:  []time.Time{at(10, 30), at(11, 30), at(12, 30)},
		},
		{
			name: "overlapping busy blocks resume after the latest end",
			calendar: &fakeCalendar{busy: []model.TimeWindow{
				{Start: at(9, 0), End: at(9, 45)},
				{Start: at(9, 15), End: at(11, 0)},
				{Start: at(12, 0), End: at(13, 0)},
			}},
			count: 3,
			want:  []time.Time{at(11, 0), at(13, 0), at(14, 0)},
		},
		{
			name: "back to back meetings touching a slot edge do not block it",
			calendar: &fakeCalendar{busy: []model.TimeWindow{
				{Start: at(8, 0), End: at(9, 0)},
				{Start: at(10, 0), End: at(11, 0)},
			}},
			count: 2,
			want:  []time.Time{at(9, 0), at(11, 0)},
		},
		{
			name:     "gateway error falls back to presets",
			calendar: &fakeCalendar{busyErr: errors.New("googleapi: 401")},
			count:    3,
			want:     []time.Time{at(10, 0), at(11, 30), at(14, 0)},
		},
		{
			name: "too little free time falls back to presets",
			calendar: &fakeCalendar{busy: []model.TimeWindow{
				{Start: at(9, 0), End: at(16, 30)},
			}},
			count: 2,
			want:  []time.Time{at(10, 0), at(11, 30)},
		},
		{
			name:     "fallback clamps to the four presets",
			calendar: &fakeCalendar{busyErr: errors.New("timeout")},
			count:    6,
			want:     []time.Time{at(10, 0), at(11, 30), at(14, 0), at(15, 30)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSlotGenerator(tt.calendar, time.Hour, testLoc)
			slots := g.Generate(context.Background(), day, tt.count, "primary")

			assert.Equal(t, tt.want, startsOf(slots))
			for i, s := range slots {
				assert.Equal(t, "slot"+string(rune('1'+i)), s.ID)
				assert.Equal(t, time.Hour, s.End.Sub(s.Start))
			}
		})
	}
}

func TestSlotGeneratorWithoutCalendar(t *testing.T) {
	g := NewSlotGenerator(nil, 30*time.Minute, testLoc)
	slots := g.Generate(context.Background(), at(0, 0), 2, "primary")

	require.Len(t, slots, 2)
	assert.Equal(t, at(10, 0), slots[0].Start.In(testLoc))
	assert.Equal(t, at(10, 30), slots[0].End.In(testLoc))
}

func TestFreeSlotsStayInsideWorkingDay(t *testing.T) {
	slots := freeSlots(at(9, 0), at(17, 0), 90*time.Minute, nil, 10)

	require.Len(t, slots, 5)
	last := slots[len(slots)-1]
	assert.False(t, last.End.After(at(17, 0)))
}

func TestNextWeekday(t *testing.T) {
	tests := []struct {
		from time.Time
		want time.Weekday
		day  int
	}{
		{time.Date(2025, 3, 4, 18, 0, 0, 0, testLoc), time.Wednesday, 5},
		{time.Date(2025, 3, 7, 9, 0, 0, 0, testLoc), time.Monday, 10},
		{time.Date(2025, 3, 8, 9, 0, 0, 0, testLoc), time.Monday, 10},
		{time.Date(2025, 3, 9, 9, 0, 0, 0, testLoc), time.Monday, 10},
	}
	for _, tt := range tests {
		got := NextWeekday(tt.from)
		assert.Equal(t, tt.want, got.Weekday())
		assert.Equal(t, tt.day, got.Day())
		assert.Zero(t, got.Hour())
	}
}
