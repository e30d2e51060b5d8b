package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := parseTimezoneLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	loc, err = parseTimezoneLocation("+08:00")
	require.NoError(t, err)
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 8*3600, offset)

	_, err = parseTimezoneLocation("Not/AZone")
	assert.Error(t, err)
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "5s", humanizeDuration(5*time.Second))
	assert.Equal(t, "2m0s", humanizeDuration(2*time.Minute+10*time.Second))
	assert.Equal(t, "3h0m0s", humanizeDuration(3*time.Hour+5*time.Minute))
}
