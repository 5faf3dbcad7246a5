package usage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/athenahq/gatekit/pkg/usage"
)

func TestWindowStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 15, 13, 45, 30, 0, time.UTC)

	assert.Equal(t,
		time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		usage.WindowDaily.Start(now))
	assert.Equal(t,
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		usage.WindowMonthly.Start(now))

	// Non-UTC inputs are normalized.
	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2025, time.March, 15, 2, 0, 0, 0, loc) // 21:00 Mar 14 UTC
	assert.Equal(t,
		time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		usage.WindowDaily.Start(local))
}

func TestWindowNext(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)

	assert.Equal(t,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		usage.WindowDaily.Next(now))
	assert.Equal(t,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		usage.WindowMonthly.Next(now))
}

func TestWindowsKind(t *testing.T) {
	t.Parallel()

	w := usage.DefaultWindows()

	assert.Equal(t, usage.WindowDaily, w.Kind("messages:send"))
	assert.Equal(t, usage.WindowMonthly, w.Kind("jobs:apply"))
	assert.Equal(t, usage.WindowMonthly, w.Kind("mentor:book"))

	custom := usage.NewWindows(map[usage.Category]usage.WindowKind{
		"ai": usage.WindowDaily,
	}, usage.WindowMonthly)
	assert.Equal(t, usage.WindowDaily, custom.Kind("ai:career_compass"))
	assert.Equal(t, usage.WindowMonthly, custom.Kind("messages:send"))
}
