package slots

import (
	"fmt"
	"strings"
	"time"
)

// Hours is the opening window of one business day, as offsets from midnight.
type Hours struct {
	Open  time.Duration
	Close time.Duration
}

// BusinessHoursPolicy reports the business hours for a weekday.
type BusinessHoursPolicy interface {
	HoursFor(day time.Weekday) Hours
}

// WeekendAware closes later on Saturdays and Sundays.
type WeekendAware struct {
	Weekday Hours
	Weekend Hours
}

func (p WeekendAware) HoursFor(day time.Weekday) Hours {
	if IsWeekend(day) {
		return p.Weekend
	}
	return p.Weekday
}

// Fixed uses the same hours every day.
type Fixed struct {
	Hours Hours
}

func (p Fixed) HoursFor(time.Weekday) Hours {
	return p.Hours
}

// DefaultWeekendAware is 09:00-23:30 on weekdays and 09:00-24:00 on weekends.
func DefaultWeekendAware() WeekendAware {
	return WeekendAware{
		Weekday: Hours{Open: 9 * time.Hour, Close: 23*time.Hour + 30*time.Minute},
		Weekend: Hours{Open: 9 * time.Hour, Close: 24 * time.Hour},
	}
}

// DefaultFixed is 09:00-24:00 every day.
func DefaultFixed() Fixed {
	return Fixed{Hours: Hours{Open: 9 * time.Hour, Close: 24 * time.Hour}}
}

func IsWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// EligibilityRule decides how a slot's end is compared against closing time.
type EligibilityRule int

const (
	// Inclusive admits a slot that ends exactly at closing time.
	Inclusive EligibilityRule = iota
	// Strict requires a slot to end before closing time.
	Strict
)

func (r EligibilityRule) String() string {
	switch r {
	case Inclusive:
		return "inclusive"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("EligibilityRule(%d)", int(r))
}

func ParseEligibilityRule(s string) (EligibilityRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inclusive":
		return Inclusive, nil
	case "strict":
		return Strict, nil
	}
	return 0, fmt.Errorf("slots.ParseEligibilityRule: unknown rule %q", s)
}

// Config describes the fixed slot grid of a day.
type Config struct {
	Starts []time.Duration
	Length time.Duration
	Rule   EligibilityRule
}

// DefaultConfig is five 3-hour slots starting at 9, 12, 15, 18 and 21.
func DefaultConfig() Config {
	return Config{
		Starts: []time.Duration{
			9 * time.Hour,
			12 * time.Hour,
			15 * time.Hour,
			18 * time.Hour,
			21 * time.Hour,
		},
		Length: 3 * time.Hour,
		Rule:   Inclusive,
	}
}

func (c Config) eligible(start time.Duration, h Hours) bool {
	if start < h.Open {
		return false
	}
	last := h.Close - c.Length
	if c.Rule == Strict {
		return start < last
	}
	return start <= last
}

// slotFor returns the start of the slot containing offset.
func (c Config) slotFor(offset time.Duration) (time.Duration, bool) {
	for _, start := range c.Starts {
		if offset >= start && offset < start+c.Length {
			return start, true
		}
	}
	return 0, false
}
