package recovery

import (
	"fmt"
	"strings"
	"time"
)

type cleanTimeUnit struct {
	name string
	size time.Duration
}

// Calendar units are approximated: a month is 30 days and a year 365.
var cleanTimeUnits = []cleanTimeUnit{
	{"year", 365 * day},
	{"month", 30 * day},
	{"week", 7 * day},
	{"day", day},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// FormatCleanTime renders d using its largest unit plus the next smaller one
// when that is non-zero, e.g. "1 year, 6 months" or "3 days".
func FormatCleanTime(d time.Duration) string {
	if d < time.Second {
		return "0 seconds"
	}
	parts := make([]string, 0, 2)
	rest := d
	for _, u := range cleanTimeUnits {
		n := rest / u.size
		if n == 0 {
			if len(parts) > 0 {
				break
			}
			continue
		}
		rest -= n * u.size
		label := u.name
		if n != 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, ", ")
}
