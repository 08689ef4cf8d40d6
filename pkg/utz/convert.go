package utz

import (
	"time"
)

// ToLocal re-expresses instant in user's timezone, preserving the absolute
// point in time. A nil user or an unset timezone field returns the instant
// unchanged, still carrying its original offset.
func (r *Registry) ToLocal(instant time.Time, user any) (LocalTime, error) {
	if user == nil {
		return NewLocalTime(instant, nil), nil
	}
	tz, err := r.UserTimezone(user)
	if err != nil {
		return LocalTime{}, err
	}
	if tz == "" {
		return NewLocalTime(instant, nil), nil
	}
	loc, err := Location(tz)
	if err != nil {
		return LocalTime{}, err
	}
	return NewLocalTime(instant, loc), nil
}

// FromWall interprets t's wall-clock reading in the deployment default
// timezone. Use it for values whose zone information is not trustworthy; a
// bare reading is never silently treated as UTC.
func (r *Registry) FromWall(t time.Time) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	return time.Date(year, month, day, hour, min, sec, t.Nanosecond(), r.cfg.DefaultTimezone)
}
