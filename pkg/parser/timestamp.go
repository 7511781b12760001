package parser

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimestampLayouts are tried in order when combining the DATE and
// TIME fields. Fractional seconds are accepted by time.Parse without being
// part of the layout.
var DefaultTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"02.01.2006 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
}

// TimestampParser turns date and time fields into a single timestamp.
// It remembers the layout that last succeeded; not safe for concurrent use.
type TimestampParser struct {
	layouts []string
	last    int
}

// NewTimestampParser creates a parser for the given layouts, or the default
// layouts if none are given.
func NewTimestampParser(layouts ...string) *TimestampParser {
	if len(layouts) == 0 {
		layouts = DefaultTimestampLayouts
	}
	return &TimestampParser{layouts: layouts}
}

// Parse combines date and clock fields and parses them as UTC.
func (p *TimestampParser) Parse(date, clock string) (time.Time, error) {
	s := strings.TrimSpace(date)
	if c := strings.TrimSpace(clock); c != "" {
		s = s + " " + c
	}
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if ts, err := time.Parse(p.layouts[p.last], s); err == nil {
		return ts, nil
	}
	for i, layout := range p.layouts {
		if i == p.last {
			continue
		}
		if ts, err := time.Parse(layout, s); err == nil {
			p.last = i
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q: no matching layout", s)
}
