package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTime accepts RFC3339 timestamps with or without fractional seconds.
func ParseTime(val string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, val)
}

// ParseLimit parses a page size query value. Empty means def; values above max are clamped.
func ParseLimit(val string, def int, max int) (int, error) {
	if val == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("limit %q is not a number", val)
	}
	if limit <= 0 {
		return 0, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if limit > max {
		return max, nil
	}
	return limit, nil
}
