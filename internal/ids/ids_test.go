package ids

import (
	"fmt"
	"testing"
	"time"
)

func TestNextSequencesWithinDay(t *testing.T) {
	c := NewDayCounter()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	if got := c.Next(now); got != "OP-20250601-001" {
		t.Fatalf("first id = %q", got)
	}
	if got := c.Next(now.Add(time.Hour)); got != "OP-20250601-002" {
		t.Fatalf("second id = %q", got)
	}
}

func TestNextResetsOnNewDay(t *testing.T) {
	c := NewDayCounter()
	day1 := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)

	c.Next(day1)
	c.Next(day1)
	if got := c.Next(day2); got != "OP-20250602-001" {
		t.Fatalf("id after rollover = %q", got)
	}
}

func TestNextGrowsPast999(t *testing.T) {
	c := NewDayCounter()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	var last string
	for i := 0; i < 1000; i++ {
		last = c.Next(now)
	}
	if last != "OP-20250601-1000" {
		t.Fatalf("1000th id = %q", last)
	}
}

func TestPrimeResumesFromExisting(t *testing.T) {
	c := NewDayCounter()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	c.Prime(now, []string{
		"OP-20250601-003",
		"OP-20250601-001",
		"OP-20250531-017", // other day, ignored
		"garbage",
	})
	if got := c.Next(now); got != "OP-20250601-004" {
		t.Fatalf("id after prime = %q", got)
	}
}

func TestUniqueAcrossBurst(t *testing.T) {
	c := NewDayCounter()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := c.Next(now)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if want := fmt.Sprintf("OP-20250601-%03d", 50); !seen[want] {
		t.Fatalf("missing %q", want)
	}
}
