package utz

import (
	"encoding/json"
	"time"
)

// DefaultTimeFormat is used when no render format is configured.
const DefaultTimeFormat = time.RFC3339

// LocalTime is a timestamp re-expressed in a target timezone. It always
// carries the zone that produced it, so rendering is never ambiguous about
// the offset.
//
// A LocalTime is portable regardless of the deployment-wide aware-storage
// setting unless the caller opts in with RegardStoreSetting.
type LocalTime struct {
	t           time.Time
	loc         *time.Location
	regardStore bool
}

// NewLocalTime wraps t as a LocalTime in loc. A nil loc keeps t's own zone.
func NewLocalTime(t time.Time, loc *time.Location) LocalTime {
	if loc == nil {
		loc = t.Location()
	}
	return LocalTime{t: t.In(loc), loc: loc}
}

// Time returns the underlying instant.
func (lt LocalTime) Time() time.Time { return lt.t }

// Location returns the timezone the value is expressed in.
func (lt LocalTime) Location() *time.Location { return lt.loc }

// Equal reports whether lt and other denote the same absolute instant.
func (lt LocalTime) Equal(other time.Time) bool { return lt.t.Equal(other) }

// RegardStoreSetting returns a copy that respects the deployment-wide
// aware-storage setting when rendered.
func (lt LocalTime) RegardStoreSetting() LocalTime {
	lt.regardStore = true
	return lt
}

// DisregardStoreSetting returns a copy unaffected by the deployment-wide
// aware-storage setting. This is the default.
func (lt LocalTime) DisregardStoreSetting() LocalTime {
	lt.regardStore = false
	return lt
}

// RegardsStoreSetting reports whether rendering respects the deployment
// aware-storage setting.
func (lt LocalTime) RegardsStoreSetting() bool { return lt.regardStore }

// Format renders the value with the given layout, offset included.
func (lt LocalTime) Format(layout string) string {
	return lt.t.Format(layout)
}

// Render renders the value with the given layout. When the result regards the
// store setting and aware storage is off, the wall clock is rendered without
// offset information, mirroring how naive storage presents timestamps.
func (lt LocalTime) Render(layout string, awareStorage bool) string {
	if lt.regardStore && !awareStorage {
		year, month, day := lt.t.Date()
		hour, min, sec := lt.t.Clock()
		naive := time.Date(year, month, day, hour, min, sec, lt.t.Nanosecond(), time.UTC)
		return naive.Format("2006-01-02T15:04:05")
	}
	return lt.t.Format(layout)
}

func (lt LocalTime) String() string {
	return lt.t.Format(DefaultTimeFormat)
}

// MarshalJSON renders RFC3339 with explicit offset.
func (lt LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(lt.t.Format(time.RFC3339))
}
