package loader

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"mortpca/domain/core"
)

var yearWeekPattern = regexp.MustCompile(`^(\d{4})-?W(\d{1,2})$`)

// ParseISOWeek returns the Monday (UTC midnight) of an ISO 8601 week written
// as "YYYY-Www" or "YYYYWww". Week 53 is accepted only for ISO years that
// have one.
func ParseISOWeek(s string) (time.Time, error) {
	m := yearWeekPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrMalformedYearWeek, s)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("%w: week %d out of range in %q", core.ErrMalformedYearWeek, week, s)
	}

	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)

	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("%w: ISO year %d has no week %d", core.ErrMalformedYearWeek, year, week)
	}
	return monday, nil
}
