package scheduler

import (
	"fmt"
	"time"

	"github.com/templui/smsgoals/internal/config"
)

// Schedule yields the next run time strictly after a given instant.
type Schedule interface {
	Next(after time.Time) time.Time
	String() string
}

// Daily fires once a day at a wall-clock time in Location.
type Daily struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// ParseDaily builds a Daily schedule from an HH:MM string.
func ParseDaily(clock string, loc *time.Location) (Daily, error) {
	hour, minute, err := config.ParseClock(clock)
	if err != nil {
		return Daily{}, err
	}
	return Daily{Hour: hour, Minute: minute, Location: loc}, nil
}

func (d Daily) Next(after time.Time) time.Time {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	local := after.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.Hour, d.Minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, d.Hour, d.Minute, 0, 0, loc)
	}
	return next
}

func (d Daily) String() string {
	name := "UTC"
	if d.Location != nil {
		name = d.Location.String()
	}
	return fmt.Sprintf("daily at %02d:%02d %s", d.Hour, d.Minute, name)
}

// Every fires at a fixed interval.
type Every time.Duration

func (e Every) Next(after time.Time) time.Time {
	return after.Add(time.Duration(e))
}

func (e Every) String() string {
	return "every " + time.Duration(e).String()
}
