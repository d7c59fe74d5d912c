package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekendAware_HoursFor(t *testing.T) {
	p := DefaultWeekendAware()

	assert.Equal(t, 23*time.Hour+30*time.Minute, p.HoursFor(time.Monday).Close)
	assert.Equal(t, 23*time.Hour+30*time.Minute, p.HoursFor(time.Friday).Close)
	assert.Equal(t, 24*time.Hour, p.HoursFor(time.Saturday).Close)
	assert.Equal(t, 24*time.Hour, p.HoursFor(time.Sunday).Close)
	assert.Equal(t, 9*time.Hour, p.HoursFor(time.Sunday).Open)
}

func TestFixed_HoursFor(t *testing.T) {
	p := DefaultFixed()

	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.Equal(t, Hours{Open: 9 * time.Hour, Close: 24 * time.Hour}, p.HoursFor(d), d.String())
	}
}

func TestParseEligibilityRule(t *testing.T) {
	r, err := ParseEligibilityRule("")
	require.NoError(t, err)
	assert.Equal(t, Inclusive, r)

	r, err = ParseEligibilityRule(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, Strict, r)

	_, err = ParseEligibilityRule("lenient")
	assert.Error(t, err)
}

func TestConfig_Eligible(t *testing.T) {
	cfg := DefaultConfig()
	weekday := DefaultWeekendAware().Weekday

	assert.False(t, cfg.eligible(6*time.Hour, weekday), "before opening")
	assert.True(t, cfg.eligible(18*time.Hour, weekday))
	assert.False(t, cfg.eligible(21*time.Hour, weekday), "21 > 23:30 - 3h")

	cfg.Rule = Strict
	assert.False(t, cfg.eligible(21*time.Hour, Hours{Open: 9 * time.Hour, Close: 24 * time.Hour}))
	assert.True(t, cfg.eligible(18*time.Hour, Hours{Open: 9 * time.Hour, Close: 24 * time.Hour}))
}

func TestConfig_SlotFor(t *testing.T) {
	cfg := DefaultConfig()

	start, ok := cfg.slotFor(14 * time.Hour)
	require.True(t, ok)
	assert.Equal(t, 12*time.Hour, start)

	start, ok = cfg.slotFor(12 * time.Hour)
	require.True(t, ok)
	assert.Equal(t, 12*time.Hour, start, "boundary belongs to the later slot")

	_, ok = cfg.slotFor(8 * time.Hour)
	assert.False(t, ok)
}
