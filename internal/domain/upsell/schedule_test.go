package upsell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleActiveAt(t *testing.T) {
	// Friday evening.
	friday := time.Date(2025, 6, 6, 18, 30, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule Schedule
		at       time.Time
		want     bool
	}{
		{
			name:     "empty schedule is always active",
			schedule: Schedule{},
			at:       friday,
			want:     true,
		},
		{
			name:     "inside date range",
			schedule: Schedule{StartDate: &start, EndDate: &end},
			at:       friday,
			want:     true,
		},
		{
			name:     "before start date",
			schedule: Schedule{StartDate: &start},
			at:       start.AddDate(0, 0, -1),
			want:     false,
		},
		{
			name:     "after end date",
			schedule: Schedule{EndDate: &end},
			at:       end.Add(time.Minute),
			want:     false,
		},
		{
			name:     "matching weekday",
			schedule: Schedule{Days: []time.Weekday{time.Friday, time.Saturday}},
			at:       friday,
			want:     true,
		},
		{
			name:     "non-matching weekday",
			schedule: Schedule{Days: []time.Weekday{time.Monday}},
			at:       friday,
			want:     false,
		},
		{
			name:     "inside time slot",
			schedule: Schedule{Slots: []TimeSlot{{Start: "16:00", End: "23:00"}}},
			at:       friday,
			want:     true,
		},
		{
			name:     "slot bounds are inclusive",
			schedule: Schedule{Slots: []TimeSlot{{Start: "18:30", End: "18:30"}}},
			at:       friday,
			want:     true,
		},
		{
			name:     "outside every slot",
			schedule: Schedule{Slots: []TimeSlot{{Start: "08:00", End: "11:00"}, {Start: "20:00", End: "23:00"}}},
			at:       friday,
			want:     false,
		},
		{
			name: "all gates must pass",
			schedule: Schedule{
				StartDate: &start,
				EndDate:   &end,
				Days:      []time.Weekday{time.Friday},
				Slots:     []TimeSlot{{Start: "16:00", End: "23:00"}},
			},
			at:   friday,
			want: true,
		},
		{
			name: "one failing gate rejects",
			schedule: Schedule{
				Days:  []time.Weekday{time.Friday},
				Slots: []TimeSlot{{Start: "08:00", End: "11:00"}},
			},
			at:   friday,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schedule.ActiveAt(tt.at))
		})
	}
}
