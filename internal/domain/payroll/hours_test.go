package payroll

import (
	"testing"
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(value string) *time.Time {
	t := ts(value)
	return &t
}

func completedShift(start, end string, breaks ...shift.Break) shift.Shift {
	return shift.Shift{
		ID:             "shift-1",
		EmployeeID:     "emp-1",
		Status:         shift.ShiftStatusCompleted,
		ScheduledStart: ts(start),
		ScheduledEnd:   ts(end),
		ActualStart:    tsp(start),
		ActualEnd:      tsp(end),
		Breaks:         breaks,
	}
}

func TestAggregateHours_NineHourShiftWithUnpaidLunch(t *testing.T) {
	t.Parallel()

	s := completedShift("2025-03-10 08:00", "2025-03-10 17:00", shift.Break{
		Type:           shift.BreakTypeLunch,
		ScheduledStart: ts("2025-03-10 12:00"),
		ScheduledEnd:   ts("2025-03-10 12:30"),
		Paid:           false,
	})

	buckets := AggregateHours([]shift.Shift{s}, nil, time.Sunday)

	assert.Equal(t, 510, buckets.WorkedMinutes())
	assert.Equal(t, 480, buckets.RegularMinutes)
	assert.Equal(t, 30, buckets.OvertimeMinutes)
	assert.Equal(t, 0, buckets.HolidayMinutes)
	assert.Equal(t, 0, buckets.RestDayMinutes)
}

func TestAggregateHours_PaidBreakNotSubtracted(t *testing.T) {
	t.Parallel()

	s := completedShift("2025-03-10 08:00", "2025-03-10 16:00", shift.Break{
		Type:           shift.BreakTypeCoffee,
		ScheduledStart: ts("2025-03-10 10:00"),
		ScheduledEnd:   ts("2025-03-10 10:15"),
		Paid:           true,
	})

	buckets := AggregateHours([]shift.Shift{s}, nil, time.Sunday)

	assert.Equal(t, 480, buckets.RegularMinutes)
	assert.Equal(t, 0, buckets.OvertimeMinutes)
}

func TestAggregateHours_ActualBreakTimesPreferred(t *testing.T) {
	t.Parallel()

	// Scheduled 30 minutes, actually took 45
	s := completedShift("2025-03-10 08:00", "2025-03-10 17:00", shift.Break{
		Type:           shift.BreakTypeLunch,
		ScheduledStart: ts("2025-03-10 12:00"),
		ScheduledEnd:   ts("2025-03-10 12:30"),
		ActualStart:    tsp("2025-03-10 12:10"),
		ActualEnd:      tsp("2025-03-10 12:55"),
		Paid:           false,
	})

	buckets := AggregateHours([]shift.Shift{s}, nil, time.Sunday)

	assert.Equal(t, 495, buckets.WorkedMinutes())
}

func TestAggregateHours_CrossMidnight(t *testing.T) {
	t.Parallel()

	// 2025-03-10 is a Monday
	s := completedShift("2025-03-10 20:00", "2025-03-11 04:00")

	buckets := AggregateHours([]shift.Shift{s}, nil, time.Sunday)

	// Four hours on each calendar day, both under the daily threshold
	assert.Equal(t, 480, buckets.RegularMinutes)
	assert.Equal(t, 0, buckets.OvertimeMinutes)
	// 22:00-24:00 plus 00:00-04:00
	assert.Equal(t, 360, buckets.NightDiffMinutes)
	assert.Equal(t, 480, buckets.WorkedMinutes())
}

func TestAggregateHours_HolidayReplacesRegularClassification(t *testing.T) {
	t.Parallel()

	s := completedShift("2025-04-09 08:00", "2025-04-09 18:00")
	holidays := map[string]bool{"2025-04-09": true}

	buckets := AggregateHours([]shift.Shift{s}, holidays, time.Sunday)

	assert.Equal(t, 600, buckets.HolidayMinutes)
	assert.Equal(t, 0, buckets.RegularMinutes)
	assert.Equal(t, 0, buckets.OvertimeMinutes)
	assert.Equal(t, 600, buckets.WorkedMinutes())
}

func TestAggregateHours_RestDayBucket(t *testing.T) {
	t.Parallel()

	// 2025-03-09 is a Sunday
	s := completedShift("2025-03-09 08:00", "2025-03-09 14:00")

	buckets := AggregateHours([]shift.Shift{s}, nil, time.Sunday)

	assert.Equal(t, 360, buckets.RestDayMinutes)
	assert.Equal(t, 0, buckets.RegularMinutes)
}

func TestAggregateHours_HolidaySupersedesRestDay(t *testing.T) {
	t.Parallel()

	s := completedShift("2025-03-09 08:00", "2025-03-09 14:00")
	holidays := map[string]bool{"2025-03-09": true}

	buckets := AggregateHours([]shift.Shift{s}, holidays, time.Sunday)

	assert.Equal(t, 360, buckets.HolidayMinutes)
	assert.Equal(t, 0, buckets.RestDayMinutes)
}

func TestAggregateHours_SkipsIncompleteShifts(t *testing.T) {
	t.Parallel()

	scheduled := shift.Shift{
		Status:         shift.ShiftStatusScheduled,
		ScheduledStart: ts("2025-03-10 08:00"),
		ScheduledEnd:   ts("2025-03-10 16:00"),
	}
	noClockOut := shift.Shift{
		Status:         shift.ShiftStatusCompleted,
		ScheduledStart: ts("2025-03-10 08:00"),
		ScheduledEnd:   ts("2025-03-10 16:00"),
		ActualStart:    tsp("2025-03-10 08:00"),
	}

	buckets := AggregateHours([]shift.Shift{scheduled, noClockOut}, nil, time.Sunday)

	assert.Equal(t, 0, buckets.WorkedMinutes())
	assert.Equal(t, 0, buckets.NightDiffMinutes)
}

func TestAggregateHours_BucketSumIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		shifts        []shift.Shift
		holidays      map[string]bool
		restDay       time.Weekday
		wantWorkedMin int
	}{
		{
			name: "two regular shifts same week",
			shifts: []shift.Shift{
				completedShift("2025-03-10 08:00", "2025-03-10 16:00"),
				completedShift("2025-03-11 08:00", "2025-03-11 17:30", shift.Break{
					ScheduledStart: ts("2025-03-11 12:00"),
					ScheduledEnd:   ts("2025-03-11 13:00"),
					Paid:           false,
				}),
			},
			restDay:       time.Sunday,
			wantWorkedMin: 480 + 510,
		},
		{
			name: "cross midnight into holiday",
			shifts: []shift.Shift{
				completedShift("2025-03-10 21:00", "2025-03-11 05:00"),
			},
			holidays:      map[string]bool{"2025-03-11": true},
			restDay:       time.Sunday,
			wantWorkedMin: 480,
		},
		{
			name: "rest day with overtime-length shift",
			shifts: []shift.Shift{
				completedShift("2025-03-09 07:00", "2025-03-09 18:00"),
			},
			restDay:       time.Sunday,
			wantWorkedMin: 660,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buckets := AggregateHours(tt.shifts, tt.holidays, tt.restDay)

			sum := buckets.RegularMinutes + buckets.OvertimeMinutes +
				buckets.HolidayMinutes + buckets.RestDayMinutes
			assert.Equal(t, tt.wantWorkedMin, sum, "bucket sum must equal worked minutes minus unpaid breaks")
			assert.Equal(t, buckets.WorkedMinutes(), sum)
		})
	}
}

func TestAggregateHours_TwoShiftsSameDayShareDailyThreshold(t *testing.T) {
	t.Parallel()

	// Split shift: 5h morning + 5h evening on the same calendar day
	morning := completedShift("2025-03-10 07:00", "2025-03-10 12:00")
	evening := completedShift("2025-03-10 17:00", "2025-03-10 22:00")

	buckets := AggregateHours([]shift.Shift{morning, evening}, nil, time.Sunday)

	assert.Equal(t, 480, buckets.RegularMinutes)
	assert.Equal(t, 120, buckets.OvertimeMinutes)
}

func TestMinutesToHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    string
	}{
		{510, "8.5"},
		{480, "8"},
		{30, "0.5"},
		{125, "2.08"},
		{175, "2.92"},
		{0, "0"},
	}

	for _, tt := range tests {
		tt := tt
		got := MinutesToHours(tt.minutes)
		require.Equal(t, tt.want, got.String(), "minutes=%d", tt.minutes)
	}
}
