package domain

import "testing"

func TestIntervalsOverlapHalfOpen(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"disjoint", 0, 10, 20, 30, false},
		{"nested", 0, 30, 10, 20, true},
		{"partial", 0, 15, 10, 20, true},
		{"back to back", 0, 10, 10, 20, false},
		{"identical", 5, 10, 5, 10, true},
	}
	for _, tc := range cases {
		if got := IntervalsOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		// The rule is symmetric.
		if got := IntervalsOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
			t.Errorf("%s (swapped): got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("19:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != 19*60+30 {
		t.Fatalf("expected 1170 minutes, got %d", c)
	}
	if c.String() != "19:30" {
		t.Fatalf("unexpected round trip: %s", c)
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Fatal("expected error for invalid hour")
	}
	if _, err := ParseClock(""); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestWindowOverlapScenario(t *testing.T) {
	// 19:00-20:30 vs 19:30-21:00 overlap; 20:30-22:00 is back-to-back.
	first := NewWindow(19*60, 90)
	second := NewWindow(19*60+30, 90)
	third := NewWindow(20*60+30, 90)

	if !first.Overlaps(second) {
		t.Fatal("expected 19:00 and 19:30 windows to overlap")
	}
	if first.Overlaps(third) {
		t.Fatal("back-to-back windows must not overlap")
	}
}

func TestWindowValid(t *testing.T) {
	if !NewWindow(22*60, 120).Valid() {
		t.Fatal("22:00 + 120min should be valid")
	}
	if NewWindow(23*60, 90).Valid() {
		t.Fatal("window spilling past midnight should be invalid")
	}
	if NewWindow(10*60, 0).Valid() {
		t.Fatal("empty window should be invalid")
	}
}
