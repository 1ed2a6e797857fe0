package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"a", false},
		{" a ", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEmpty(tt.input), "input: %q", tt.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1b4e28ba-2fa1-4d3b-8dfc-2b1a7a6b2f6e", true},
		{"0190d3a1-9f3b-7cce-8f0a-3f3e6b2a1c4d", true}, // v7
		{"1B4E28BA-2FA1-4D3B-8DFC-2B1A7A6B2F6E", true}, // case-insensitive
		{"not-a-uuid", false},
		{"1b4e28ba2fa14d3b8dfc2b1a7a6b2f6e", false}, // missing hyphens
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidUUID(tt.input), "input: %q", tt.input)
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2025-06-02")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), date)

	_, ok = IsValidDate("06/02/2025")
	assert.False(t, ok)
	_, ok = IsValidDate("2025-13-01")
	assert.False(t, ok)
}

func TestIsValidDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-06-02T09:00:00Z", true},
		{"2025-06-02T09:00:00+08:00", true},
		{"2025-06-02T09:00:00.123Z", true},
		{"2025-06-02", false},
		{"yesterday", false},
	}

	for _, tt := range tests {
		_, ok := IsValidDateTime(tt.input)
		assert.Equal(t, tt.want, ok, "input: %q", tt.input)
	}
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"pending", "approved", "rejected"}
	assert.True(t, IsInSlice("approved", statuses))
	assert.False(t, IsInSlice("withdrawn", statuses))
	assert.False(t, IsInSlice("", statuses))
}

func TestIsValidWeekday(t *testing.T) {
	assert.True(t, IsValidWeekday(0))
	assert.True(t, IsValidWeekday(6))
	assert.False(t, IsValidWeekday(-1))
	assert.False(t, IsValidWeekday(7))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "shift_id", Message: "shift_id is required"},
		{Field: "at", Message: "at must be an ISO8601 timestamp"},
	}

	assert.Equal(t, "shift_id: shift_id is required; at: at must be an ISO8601 timestamp", errs.Error())
	assert.Equal(t, map[string]string{
		"shift_id": "shift_id is required",
		"at":       "at must be an ISO8601 timestamp",
	}, errs.ToMap())
}
