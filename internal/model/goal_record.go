package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// GoalRecord holds one user's goals for one day. Goals and CompletionStatus
// always have the same length; mutate through the methods to keep it that way.
type GoalRecord struct {
	ID               string    `db:"id"`
	PhoneNumber      string    `db:"phone_number"`
	Date             Date      `db:"date"`
	Goals            TextList  `db:"goals"`
	CompletionStatus FlagList  `db:"completion_status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func NewGoalRecord(id, phoneNumber string, date Date, goals []string) *GoalRecord {
	r := &GoalRecord{
		ID:          id,
		PhoneNumber: phoneNumber,
		Date:        date,
	}
	r.SetGoals(goals)
	return r
}

// SetGoals overwrites the goal list. Existing completion flags survive only
// when the goal count is unchanged; otherwise they are reset to all false.
func (r *GoalRecord) SetGoals(goals []string) {
	r.Goals = append(TextList{}, goals...)
	if len(r.CompletionStatus) != len(r.Goals) {
		r.CompletionStatus = make(FlagList, len(r.Goals))
	}
}

// ApplyFlags aligns flags with the goals by position. Positions past the end
// of flags keep their current value and extra flags are ignored. It returns
// false when the number of flags differs from the number of goals.
func (r *GoalRecord) ApplyFlags(flags []bool) bool {
	r.Normalize()
	for i := range r.CompletionStatus {
		if i < len(flags) {
			r.CompletionStatus[i] = flags[i]
		}
	}
	return len(flags) == len(r.Goals)
}

// Normalize pads or truncates CompletionStatus to the goal count.
func (r *GoalRecord) Normalize() {
	switch {
	case len(r.CompletionStatus) < len(r.Goals):
		r.CompletionStatus = append(r.CompletionStatus, make(FlagList, len(r.Goals)-len(r.CompletionStatus))...)
	case len(r.CompletionStatus) > len(r.Goals):
		r.CompletionStatus = r.CompletionStatus[:len(r.Goals)]
	}
}

func (r *GoalRecord) Incomplete() []string {
	var out []string
	for i, goal := range r.Goals {
		if i >= len(r.CompletionStatus) || !r.CompletionStatus[i] {
			out = append(out, goal)
		}
	}
	return out
}

func (r *GoalRecord) CompletedCount() int {
	n := 0
	for _, done := range r.CompletionStatus {
		if done {
			n++
		}
	}
	return n
}

// TextList is a list of strings stored as a JSON array.
type TextList []string

func (l TextList) Value() (driver.Value, error) {
	if l == nil {
		l = TextList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *TextList) Scan(src any) error {
	return scanJSON(src, (*[]string)(l))
}

func (l TextList) String() string {
	return strings.Join(l, ", ")
}

// FlagList is a list of booleans stored as a JSON array.
type FlagList []bool

func (l FlagList) Value() (driver.Value, error) {
	if l == nil {
		l = FlagList{}
	}
	b, err := json.Marshal([]bool(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *FlagList) Scan(src any) error {
	return scanJSON(src, (*[]bool)(l))
}

func scanJSON(src any, dest any) error {
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		data = []byte("[]")
	default:
		return fmt.Errorf("cannot scan %T into JSON list", src)
	}
	return json.Unmarshal(data, dest)
}
