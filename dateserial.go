package xlcodec

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xuri/nfp"
)

const msPerDay = 86400000

// serialEpoch is the moment before serial 1 in the 1900 date system. It sits
// two days before 1900-01-01 so that serials from 61 on line up with the
// phantom 1900-02-29 that the 1900 system counts.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// leapBugSerial is the first serial at or after the phantom leap day.
const leapBugSerial = 60

const (
	isoDateLayout     = "2006-01-02"
	isoDateTimeLayout = "2006-01-02T15:04:05"
	isoDateTimeOutput = "2006-01-02T15:04:05.999"
)

// SerialToTime converts a 1900-system serial into a UTC calendar moment,
// rounded to the millisecond. Serials below 60 are moved forward one day to
// compensate for the phantom 1900-02-29. ok is false for non-finite serials
// and for results outside years 1..9999.
func SerialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	if serial < leapBugSerial {
		serial++
	}
	ms := math.Round(serial * msPerDay)
	if math.Abs(ms) > 4e15 {
		return time.Time{}, false
	}
	total := int64(ms)
	days := total / msPerDay
	rem := total % msPerDay
	if rem < 0 {
		days--
		rem += msPerDay
	}
	t := serialEpoch.AddDate(0, 0, int(days)).Add(time.Duration(rem) * time.Millisecond)
	if t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// TimeToSerial converts a calendar moment into a 1900-system serial. The
// wall clock of t is used as is; its location is ignored. Moments before
// 1900-03-01 are shifted back one day, mirroring SerialToTime.
func TimeToSerial(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	ms := (wall.Unix()-serialEpoch.Unix())*1000 + int64(wall.Nanosecond()/int(time.Millisecond))
	serial := float64(ms) / msPerDay
	if serial < leapBugSerial+1 {
		serial--
	}
	return serial
}

// ParseISODate parses "YYYY-MM-DD".
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(isoDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidDateFormat, s)
	}
	return t, nil
}

// ParseISODateTime parses "YYYY-MM-DDTHH:MM:SS" with optional fractional
// seconds and an optional trailing "Z". A space may replace the "T".
func ParseISODateTime(s string) (time.Time, error) {
	v := strings.TrimSuffix(strings.TrimSpace(s), "Z")
	v = strings.Replace(v, " ", "T", 1)
	t, err := time.Parse(isoDateTimeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: datetime %q", ErrInvalidDateFormat, s)
	}
	return t, nil
}

// FormatISODate renders the calendar date of t.
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// FormatISODateTime renders t with millisecond precision; a zero fraction
// is omitted.
func FormatISODateTime(t time.Time) string {
	return t.Format(isoDateTimeOutput)
}

// isMidnight reports whether t has no time-of-day component.
func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// LooksLikeDateFormat reports whether a number format code renders dates:
// among its date/time tokens it must carry both a year and a day token.
// This is a shape test, not a full grammar check.
func LooksLikeDateFormat(code string) bool {
	if code == "" {
		return false
	}
	ps := nfp.NumberFormatParser()
	var year, day bool
	for _, section := range ps.Parse(code) {
		for _, tok := range section.Items {
			if tok.TType != nfp.TokenTypeDateTimes {
				continue
			}
			v := strings.ToLower(tok.TValue)
			year = year || strings.Contains(v, "y")
			day = day || strings.Contains(v, "d")
		}
	}
	return year && day
}
