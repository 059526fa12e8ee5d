package service

import (
	"time"

	"github.com/templui/smsgoals/internal/model"
)

// Clock resolves "today" in the deployment timezone. Services take it by
// value so tests can pin the date.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func NewClock(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Clock{now: now, loc: loc}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c Clock) Today() model.Date {
	return model.DateOf(c.Now().In(c.Location()))
}
