package etl

import (
	"fmt"
	"time"
)

// expandYear applies the standard two-digit-year century rule (the one both
// Go's "06" layout and strptime's %y use): 00–68 → 20xx, 69–99 → 19xx.
// Values outside 0–99 are rejected.
func expandYear(yy int) (int, error) {
	if yy < 0 || yy > 99 {
		return 0, fmt.Errorf("two-digit year %d out of range", yy)
	}
	if yy < 69 {
		return 2000 + yy, nil
	}
	return 1900 + yy, nil
}

// isoDate builds an ISO 8601 date (YYYY-MM-DD) from a two-digit year, month,
// and day. Month and day are validated against the real calendar, leap years
// included, so "2015-02-29" fails rather than normalizing.
func isoDate(yy, month, day int) (string, error) {
	year, err := expandYear(yy)
	if err != nil {
		return "", err
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return "", fmt.Errorf("day %d out of range for %04d-%02d", day, year, month)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// isoTime builds an ISO 8601 time (HH:MM:SS) from clock components.
func isoTime(hour, minute, second int) (string, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return "", fmt.Errorf("minute %d out of range", minute)
	}
	if second < 0 || second > 59 {
		return "", fmt.Errorf("second %d out of range", second)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second), nil
}

// daysIn returns the number of days in the given month, accounting for leap
// years via the day-zero-of-next-month trick.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
