package model

import (
	"time"
)

type User struct {
	PhoneNumber       string    `db:"phone_number"`
	EmergencyContact  string    `db:"emergency_contact"`
	LastResponse      *Date     `db:"last_response"` // Nil until the first reply
	ConsecutiveMisses int       `db:"consecutive_misses"`
	LastMissed        *Date     `db:"last_missed"` // Sweep date of the last counted miss
	CreatedAt         time.Time `db:"created_at"`
}

// InactiveOn reports whether the user counts as silent for a sweep run on ref:
// never replied, or last replied more than one day before ref.
func (u *User) InactiveOn(ref Date) bool {
	if u.LastResponse == nil {
		return true
	}
	return u.LastResponse.Before(ref.AddDays(-1))
}
