// Package normalize converts each chain's native time representation into
// one canonical local timestamp, and computes the calendar dates a scrape
// run covers. AMC's API hands out ISO datetimes; Regal pages expose
// 12-hour display strings. Both funnel through Canonical so no adapter
// carries its own time regexes.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrParse indicates a showtime value that matches neither supported
// format. Callers drop the single showing and continue.
var ErrParse = errors.New("unparseable showtime")

// Date is a plain calendar date with no time-of-day or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current calendar date in local time.
func Today() Date {
	return DateOf(time.Now())
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays advances the date by n calendar days. The arithmetic runs at
// noon UTC so a daylight-saving transition can never skip or repeat a day.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

// TargetDates returns windowDays consecutive calendar dates starting at
// start.
func TargetDates(start Date, windowDays int) []Date {
	dates := make([]Date, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

var (
	clockRe = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*([ap]m)$`)
	isoRe   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?`)
)

// Canonical parses raw as either a 12-hour clock string ("9:15pm") or an
// ISO-8601 local datetime ("2025-12-27T09:30:00") and returns the
// canonical YYYY-MM-DDTHH:MM:SS form. Clock strings are anchored to d;
// ISO strings keep their own date and time-of-day verbatim, with no
// timezone conversion. Anything else fails with ErrParse.
func Canonical(d Date, raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if m := isoRe.FindStringSubmatch(raw); m != nil {
		sec := m[4]
		if sec == "" {
			sec = "00"
		}
		return m[1] + "T" + m[2] + ":" + m[3] + ":" + sec, nil
	}

	if m := clockRe.FindStringSubmatch(raw); m != nil {
		hour, err := strconv.Atoi(m[1])
		if err != nil || hour < 1 || hour > 12 {
			return "", fmt.Errorf("%w: %q", ErrParse, raw)
		}
		meridiem := strings.ToLower(m[3])
		if meridiem == "pm" && hour < 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%sT%02d:%s:00", d, hour, m[2]), nil
	}

	return "", fmt.Errorf("%w: %q", ErrParse, raw)
}

// DisplayClock renders a canonical timestamp as the 12-hour form shown to
// users ("9:15pm"). Unparseable input is returned as-is.
func DisplayClock(canonical string) string {
	t, err := time.Parse("2006-01-02T15:04:05", canonical)
	if err != nil {
		return canonical
	}
	return strings.ToLower(t.Format("3:04PM"))
}
