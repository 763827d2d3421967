package service

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// StayDefaults holds the hours used when a request carries only a date.
type StayDefaults struct {
	Location     *time.Location
	CheckInHour  int
	CheckOutHour int
	OrderPrefix  string
}

func (d StayDefaults) location() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

// resolveStayTime combines a date (or RFC3339 timestamp) with optional hour
// and minute. A bare date takes the default clock; an explicit hour or minute
// overrides both the default and the timestamp's own clock.
func resolveStayTime(raw string, hour, minute *int, defaultHour, defaultMinute int, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("is required")
	}

	var day time.Time
	h, m := defaultHour, defaultMinute
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		day = t
	} else if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.In(loc)
		day = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		h, m = t.Hour(), t.Minute()
	} else {
		return time.Time{}, fmt.Errorf("must be YYYY-MM-DD or RFC3339")
	}

	if hour != nil {
		if *hour < 0 || *hour > 23 {
			return time.Time{}, fmt.Errorf("hour must be between 0 and 23")
		}
		h = *hour
	}
	if minute != nil {
		if *minute < 0 || *minute > 59 {
			return time.Time{}, fmt.Errorf("minute must be between 0 and 59")
		}
		m = *minute
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc), nil
}

func formatOrderCode(prefix string, seq int64) string {
	if prefix == "" {
		prefix = "OD"
	}
	return fmt.Sprintf("%s_%04d", prefix, seq)
}

func orderCounterKey(houseID uint) string {
	return fmt.Sprintf("booking:house:%d", houseID)
}
