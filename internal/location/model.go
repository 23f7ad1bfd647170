package location

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the wire format for created_at values and for the from/to
// filter bounds. Both sides use the same layout so a createdAt taken from a
// query response parses back as a filter bound.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp wraps time.Time to pin its JSON representation to TimeLayout (UTC).
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(TimeLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTime parses a TimeLayout timestamp, interpreted as UTC.
func ParseTime(s string) (time.Time, error) {
	parsed, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %q: %w", TimeLayout, err)
	}
	return parsed, nil
}

// Location is a persisted location record. ID and CreatedAt are assigned by
// the store on insert and never change afterwards.
type Location struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Input is the client-supplied payload for creating a location. Latitude and
// longitude are stored as-is, with no range checks.
type Input struct {
	Source    string  `json:"source"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Filter narrows a location scan. Each predicate is independent and optional;
// a nil field means no constraint on that column, which is not the same thing
// as matching an empty or zero value. From and To are inclusive bounds on
// CreatedAt.
type Filter struct {
	Source *string
	From   *time.Time
	To     *time.Time
}
