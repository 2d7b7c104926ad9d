// Package ids allocates the human-readable identifiers stamped on operations.
package ids

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const prefix = "OP"

// DayCounter issues OP-YYYYMMDD-NNN identifiers. The sequence is scoped to
// the calendar day and advanced under a lock, so two concurrent creations can
// never observe the same count. Past 999 the suffix simply grows to four
// digits.
type DayCounter struct {
	mu  sync.Mutex
	day string
	n   int
}

func NewDayCounter() *DayCounter {
	return &DayCounter{}
}

// Next returns the identifier for a creation happening at now.
func (c *DayCounter) Next(now time.Time) string {
	day := now.Format("20060102")
	c.mu.Lock()
	defer c.mu.Unlock()
	if day != c.day {
		c.day = day
		c.n = 0
	}
	c.n++
	return fmt.Sprintf("%s-%s-%03d", prefix, day, c.n)
}

// Prime resumes the counter from identifiers already persisted, so restarts
// do not reissue a suffix. Identifiers for other days are ignored.
func (c *DayCounter) Prime(now time.Time, existing []string) {
	day := now.Format("20060102")
	c.mu.Lock()
	defer c.mu.Unlock()
	if day != c.day {
		c.day = day
		c.n = 0
	}
	for _, id := range existing {
		seq, ok := parse(id, day)
		if ok && seq > c.n {
			c.n = seq
		}
	}
}

func parse(id, day string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-"+day+"-")
	if !ok {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return seq, true
}
