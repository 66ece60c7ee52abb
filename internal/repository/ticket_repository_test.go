package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/pos-ticketing/internal/repository"
)

func TestExplorerWindowEnd_LastMinuteOfCalendarDay(t *testing.T) {
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	expanded := repository.ExplorerWindowEnd(end)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), expanded)

	lateEvening := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.True(t, lateEvening.Before(expanded), "same-day evening ticket falls inside the window")

	nextMorning := time.Date(2024, 3, 11, 0, 30, 0, 0, time.UTC)
	assert.False(t, nextMorning.Before(expanded), "next-day ticket falls outside the window")
}

func TestExplorerWindowEnd_IgnoresTimeOfDay(t *testing.T) {
	noon := time.Date(2024, 3, 10, 12, 15, 0, 0, time.UTC)
	midnight := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, repository.ExplorerWindowEnd(midnight), repository.ExplorerWindowEnd(noon))
}

func TestExplorerWindowEnd_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	end := time.Date(2024, 3, 10, 8, 0, 0, 0, loc)

	expanded := repository.ExplorerWindowEnd(end)
	assert.Equal(t, loc, expanded.Location())
	assert.Equal(t, 23, expanded.Hour())
	assert.Equal(t, 59, expanded.Minute())
}
