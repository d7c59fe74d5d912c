// Package slots computes free booking slots per theatre for a single day.
package slots

import (
	"time"

	"github.com/kirinyoku/theatrego/internal/domain"
)

// Result lists the free slot starts of one theatre, as offsets from midnight.
type Result struct {
	Theatre string
	Times   []time.Duration
}

func (r Result) Count() int {
	return len(r.Times)
}

// Hours returns the free slot starts as whole clock hours.
func (r Result) Hours() []int {
	out := make([]int, len(r.Times))
	for i, t := range r.Times {
		out[i] = int(t / time.Hour)
	}
	return out
}

type Calculator struct {
	cfg    Config
	policy BusinessHoursPolicy
	loc    *time.Location
	picker Picker
}

// NewCalculator builds a calculator. Booking hours are read in loc.
// A nil picker disables the popularity adjustment.
func NewCalculator(cfg Config, policy BusinessHoursPolicy, loc *time.Location, picker Picker) *Calculator {
	if len(cfg.Starts) == 0 || cfg.Length <= 0 {
		def := DefaultConfig()
		cfg.Starts = def.Starts
		cfg.Length = def.Length
	}
	if policy == nil {
		policy = DefaultWeekendAware()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Calculator{
		cfg:    cfg,
		policy: policy,
		loc:    loc,
		picker: picker,
	}
}

// Hours returns the business hours that apply to day.
func (c *Calculator) Hours(day time.Time) Hours {
	return c.policy.HoursFor(day.In(c.loc).Weekday())
}

// Available returns, for every theatre in order, the eligible slot starts on day
// that no booking occupies. Bookings are expected to be those of day already.
func (c *Calculator) Available(day time.Time, theatres []string, bookings []domain.Booking) []Result {
	hours := c.Hours(day)

	occupied := make(map[string]map[time.Duration]struct{}, len(theatres))
	for _, name := range theatres {
		occupied[name] = make(map[time.Duration]struct{})
	}

	for _, b := range bookings {
		taken, ok := occupied[b.TheatreName]
		if !ok {
			continue
		}
		h, m, sec := b.Datetime.In(c.loc).Clock()
		offset := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
		if start, ok := c.cfg.slotFor(offset); ok {
			taken[start] = struct{}{}
		}
	}

	out := make([]Result, 0, len(theatres))
	for _, name := range theatres {
		times := make([]time.Duration, 0, len(c.cfg.Starts))
		for _, start := range c.cfg.Starts {
			if !c.cfg.eligible(start, hours) {
				continue
			}
			if _, busy := occupied[name][start]; busy {
				continue
			}
			times = append(times, start)
		}
		out = append(out, Result{Theatre: name, Times: times})
	}

	return out
}

// Batch is Available followed by one popularity adjustment.
func (c *Calculator) Batch(day time.Time, theatres []string, bookings []domain.Booking) []Result {
	results := c.Available(day, theatres, bookings)
	c.AdjustPopularity(results)
	return results
}

// AdjustPopularity removes one random slot from one random theatre that has
// more than one free slot. It returns the index of the modified result, or -1
// when nothing qualified or the adjustment is disabled.
func (c *Calculator) AdjustPopularity(results []Result) int {
	if c.picker == nil {
		return -1
	}

	var candidates []int
	for i, r := range results {
		if r.Count() > 1 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}

	idx := candidates[c.picker.IntN(len(candidates))]
	times := results[idx].Times
	drop := c.picker.IntN(len(times))
	results[idx].Times = append(times[:drop:drop], times[drop+1:]...)

	return idx
}
