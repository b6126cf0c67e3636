// Package scheduling produces the candidate appointment slots offered to a lead.
package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Copenhagen must resolve in slim containers

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

// maxSearchDays bounds the forward walk when busy intervals keep rejecting candidates.
const maxSearchDays = 60

var ErrInvalidWorkingHours = errors.New("working hours: start must be before end")

// ClockTime is a time of day in minutes after midnight.
type ClockTime int

func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(h, m), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

type WorkingHours struct {
	Start        ClockTime
	End          ClockTime
	StartTimes   []ClockTime // candidate appointment starts per working day
	SkipWeekends bool
	Location     *time.Location
}

// DefaultWorkingHours mirrors the times the business has always offered:
// 10:00, 14:00 and 16:00 inside an 08–17 working day.
func DefaultWorkingHours(loc *time.Location) WorkingHours {
	if loc == nil {
		loc = time.UTC
	}
	return WorkingHours{
		Start:        Clock(8, 0),
		End:          Clock(17, 0),
		StartTimes:   []ClockTime{Clock(10, 0), Clock(14, 0), Clock(16, 0)},
		SkipWeekends: true,
		Location:     loc,
	}
}

func (w WorkingHours) Validate() error {
	if w.Start >= w.End {
		return ErrInvalidWorkingHours
	}
	if len(w.StartTimes) == 0 {
		return errors.New("working hours: at least one start time is required")
	}
	return nil
}

type Interval struct {
	Start time.Time
	End   time.Time
}

type Generator struct {
	hours WorkingHours
}

func NewGenerator(hours WorkingHours) (*Generator, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	starts := append([]ClockTime(nil), hours.StartTimes...)
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	hours.StartTimes = starts
	return &Generator{hours: hours}, nil
}

func (g *Generator) Location() *time.Location {
	return g.hours.Location
}

// Generate walks forward from the day after reference and collects up to count
// slots that start and end inside working hours, skipping weekends and anything
// overlapping busy.
// Deterministic for identical inputs.
func (g *Generator) Generate(reference time.Time, count int, duration time.Duration, busy []Interval) []entity.Slot {
	if count <= 0 {
		return nil
	}
	loc := g.hours.Location
	ref := reference.In(loc)
	first := ref.Add(24 * time.Hour)
	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)

	slots := make([]entity.Slot, 0, count)
	for i := 0; i < maxSearchDays && len(slots) < count; i, day = i+1, day.AddDate(0, 0, 1) {
		if g.hours.SkipWeekends && isWeekend(day.Weekday()) {
			continue
		}
		closing := time.Date(day.Year(), day.Month(), day.Day(), g.hours.End.Hour(), g.hours.End.Minute(), 0, 0, loc)
		for _, c := range g.hours.StartTimes {
			if c < g.hours.Start || c >= g.hours.End {
				continue
			}
			start := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, loc)
			if !start.After(ref) {
				continue
			}
			// the whole job must fit before closing time
			end := start.Add(duration)
			if end.After(closing) || overlapsAny(start, end, busy) {
				continue
			}
			slots = append(slots, entity.Slot{
				Index: len(slots) + 1,
				Start: start,
				End:   end,
				Label: LongLabel(start),
				Short: ShortLabel(start),
			})
			if len(slots) == count {
				break
			}
		}
	}
	return slots
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// overlapsAny is a linear scan; the candidate set is three slots and a few
// days of bookings.
func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
