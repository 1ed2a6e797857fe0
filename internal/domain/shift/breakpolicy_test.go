package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBreakPolicy(t *testing.T) {
	t.Parallel()

	policies := []BreakPolicy{
		{
			MinShiftMinutes: 240,
			Breaks: []BreakSpec{
				{Type: BreakTypeCoffee, DurationMinutes: 15, Paid: true, Required: false},
			},
		},
		{
			MinShiftMinutes: 360,
			Breaks: []BreakSpec{
				{Type: BreakTypeCoffee, DurationMinutes: 15, Paid: true, Required: false},
				{Type: BreakTypeLunch, DurationMinutes: 30, Paid: false, Required: true},
			},
		},
		{
			MinShiftMinutes: 480,
			Breaks: []BreakSpec{
				{Type: BreakTypeCoffee, DurationMinutes: 15, Paid: true, Required: false},
				{Type: BreakTypeLunch, DurationMinutes: 60, Paid: false, Required: true},
				{Type: BreakTypeRest, DurationMinutes: 15, Paid: true, Required: true},
			},
		},
	}

	tests := []struct {
		name         string
		shiftMinutes int
		wantBreaks   int
	}{
		{"zero-length shift earns nothing", 0, 0},
		{"below every threshold", 120, 0},
		{"exactly at first threshold", 240, 1},
		{"between thresholds picks lower", 300, 1},
		{"six hour shift", 360, 2},
		{"nine hour shift picks greatest threshold", 540, 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveBreakPolicy(policies, tt.shiftMinutes)
			assert.Len(t, got, tt.wantBreaks)
		})
	}
}

func TestResolveBreakPolicy_TieKeepsFirstTableEntry(t *testing.T) {
	t.Parallel()

	policies := []BreakPolicy{
		{ID: "first", MinShiftMinutes: 240, Breaks: []BreakSpec{{Type: BreakTypeLunch, DurationMinutes: 30}}},
		{ID: "second", MinShiftMinutes: 240, Breaks: []BreakSpec{{Type: BreakTypeMeal, DurationMinutes: 45}}},
	}

	got := ResolveBreakPolicy(policies, 300)

	assert.Len(t, got, 1)
	assert.Equal(t, BreakTypeLunch, got[0].Type)
}
