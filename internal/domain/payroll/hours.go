package payroll

import (
	"sort"
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

// regularDayMinutes is the per-calendar-day threshold above which worked
// minutes become overtime.
const regularDayMinutes = 8 * 60

// Night differential window: 22:00–06:00.
const (
	nightWindowEnd   = 6 * time.Hour
	nightWindowStart = 22 * time.Hour
)

// HourBuckets holds classified worked minutes. Regular, overtime, holiday and
// rest-day partition the worked time exactly; night differential is an
// additive overlay and intentionally overlaps the others.
type HourBuckets struct {
	RegularMinutes   int
	OvertimeMinutes  int
	HolidayMinutes   int
	RestDayMinutes   int
	NightDiffMinutes int
}

// WorkedMinutes returns the partitioned total: worked time minus unpaid
// breaks. Night differential is excluded since it overlaps the other buckets.
func (b HourBuckets) WorkedMinutes() int {
	return b.RegularMinutes + b.OvertimeMinutes + b.HolidayMinutes + b.RestDayMinutes
}

// Add returns the bucket-wise sum of b and o.
func (b HourBuckets) Add(o HourBuckets) HourBuckets {
	return HourBuckets{
		RegularMinutes:   b.RegularMinutes + o.RegularMinutes,
		OvertimeMinutes:  b.OvertimeMinutes + o.OvertimeMinutes,
		HolidayMinutes:   b.HolidayMinutes + o.HolidayMinutes,
		RestDayMinutes:   b.RestDayMinutes + o.RestDayMinutes,
		NightDiffMinutes: b.NightDiffMinutes + o.NightDiffMinutes,
	}
}

var sixty = decimal.NewFromInt(60)

// MinutesToHours converts minutes to decimal hours, HALF-UP to two places.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}

type interval struct {
	start, end time.Time
}

func (iv interval) minutes() int {
	return int(iv.end.Sub(iv.start) / time.Minute)
}

// AggregateHours classifies the worked time of completed shifts into hour
// buckets for one employee. Shifts without both actual timestamps are
// ignored. holidays is keyed by local date ("2006-01-02"); restDay is the
// employee's designated day off. Precedence when a day is both a holiday and
// a rest day: holiday wins.
func AggregateHours(shifts []shift.Shift, holidays map[string]bool, restDay time.Weekday) HourBuckets {
	dayMinutes := make(map[string]int)
	nightMinutes := 0

	for _, s := range shifts {
		if s.Status != shift.ShiftStatusCompleted || s.ActualStart == nil || s.ActualEnd == nil {
			continue
		}

		worked := subtractUnpaidBreaks(interval{*s.ActualStart, *s.ActualEnd}, s.Breaks)
		for _, seg := range worked {
			for _, piece := range splitByDay(seg) {
				day := piece.start.Format("2006-01-02")
				dayMinutes[day] += piece.minutes()
				nightMinutes += nightOverlapMinutes(piece)
			}
		}
	}

	var buckets HourBuckets
	buckets.NightDiffMinutes = nightMinutes

	days := make([]string, 0, len(dayMinutes))
	for day := range dayMinutes {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		m := dayMinutes[day]
		date, _ := time.Parse("2006-01-02", day)
		switch {
		case holidays[day]:
			buckets.HolidayMinutes += m
		case date.Weekday() == restDay:
			buckets.RestDayMinutes += m
		default:
			regular := m
			if regular > regularDayMinutes {
				regular = regularDayMinutes
			}
			buckets.RegularMinutes += regular
			buckets.OvertimeMinutes += m - regular
		}
	}

	return buckets
}

// subtractUnpaidBreaks removes unpaid break intervals from the worked span.
// Actual break times are used when both ends were recorded, otherwise the
// scheduled times.
func subtractUnpaidBreaks(worked interval, breaks []shift.Break) []interval {
	var unpaid []interval
	for _, b := range breaks {
		if b.Paid {
			continue
		}
		iv := interval{b.ScheduledStart, b.ScheduledEnd}
		if b.ActualStart != nil && b.ActualEnd != nil {
			iv = interval{*b.ActualStart, *b.ActualEnd}
		}
		// Clip to the worked span
		if iv.start.Before(worked.start) {
			iv.start = worked.start
		}
		if iv.end.After(worked.end) {
			iv.end = worked.end
		}
		if iv.end.After(iv.start) {
			unpaid = append(unpaid, iv)
		}
	}

	sort.Slice(unpaid, func(i, j int) bool { return unpaid[i].start.Before(unpaid[j].start) })

	segments := []interval{worked}
	for _, u := range unpaid {
		last := segments[len(segments)-1]
		if !u.start.After(last.start) {
			// Break starts at or before the remaining segment
			if u.end.After(last.start) {
				segments[len(segments)-1].start = u.end
			}
			continue
		}
		segments[len(segments)-1] = interval{last.start, u.start}
		if u.end.Before(last.end) {
			segments = append(segments, interval{u.end, last.end})
		}
	}

	out := segments[:0]
	for _, seg := range segments {
		if seg.end.After(seg.start) {
			out = append(out, seg)
		}
	}
	return out
}

// splitByDay cuts a segment at local midnight boundaries so cross-midnight
// shifts attribute minutes to the correct calendar days.
func splitByDay(seg interval) []interval {
	var pieces []interval
	cur := seg.start
	for cur.Before(seg.end) {
		y, m, d := cur.Date()
		nextMidnight := time.Date(y, m, d+1, 0, 0, 0, 0, cur.Location())
		end := seg.end
		if nextMidnight.Before(end) {
			end = nextMidnight
		}
		pieces = append(pieces, interval{cur, end})
		cur = end
	}
	return pieces
}

// nightOverlapMinutes returns the overlap of a same-day piece with the
// 22:00–06:00 night window.
func nightOverlapMinutes(piece interval) int {
	y, m, d := piece.start.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, piece.start.Location())

	total := 0
	windows := []interval{
		{midnight, midnight.Add(nightWindowEnd)},
		{midnight.Add(nightWindowStart), midnight.Add(24 * time.Hour)},
	}
	for _, w := range windows {
		start := piece.start
		if w.start.After(start) {
			start = w.start
		}
		end := piece.end
		if w.end.Before(end) {
			end = w.end
		}
		if end.After(start) {
			total += interval{start, end}.minutes()
		}
	}
	return total
}
