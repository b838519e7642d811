package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercent(t *testing.T) {
	cases := []struct {
		completed int
		total     int
		want      int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 200, 1},
		{7, 7, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompletionPercent(tc.completed, tc.total),
			"%d of %d", tc.completed, tc.total)
	}
}

func TestDurationHours(t *testing.T) {
	cases := []struct {
		minutes int
		want    int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{30, 1},
		{59, 1},
		{60, 1},
		{61, 2},
		{120, 2},
		{121, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DurationHours(tc.minutes), "%d minutes", tc.minutes)
	}
}

func TestCompletionPercentNeverExceedsBounds(t *testing.T) {
	for completed := 0; completed <= 50; completed++ {
		got := CompletionPercent(completed, 50)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}
