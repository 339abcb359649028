package etl

import "testing"

func TestExpandYearCenturyRule(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 2000},
		{15, 2015},
		{68, 2068},
		{69, 1969},
		{99, 1999},
	}
	for _, tc := range cases {
		got, err := expandYear(tc.in)
		if err != nil {
			t.Fatalf("expandYear(%d): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("expandYear(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestExpandYearRejectsOutOfRange(t *testing.T) {
	for _, in := range []int{-1, 100, 2015} {
		if _, err := expandYear(in); err == nil {
			t.Errorf("expandYear(%d): expected error", in)
		}
	}
}

func TestIsoDate(t *testing.T) {
	got, err := isoDate(15, 3, 31)
	if err != nil {
		t.Fatalf("isoDate: %v", err)
	}
	if got != "2015-03-31" {
		t.Errorf("isoDate = %q, want %q", got, "2015-03-31")
	}

	// Leap day exists in 2016 but not 2015.
	if _, err := isoDate(16, 2, 29); err != nil {
		t.Errorf("isoDate(16, 2, 29): %v", err)
	}
	if _, err := isoDate(15, 2, 29); err == nil {
		t.Error("isoDate(15, 2, 29): expected error")
	}
}

func TestIsoDateRejectsInvalidComponents(t *testing.T) {
	cases := []struct {
		yy, month, day int
	}{
		{15, 0, 1},
		{15, 13, 1},
		{15, 4, 31},
		{15, 1, 0},
		{15, 1, 32},
	}
	for _, tc := range cases {
		if _, err := isoDate(tc.yy, tc.month, tc.day); err == nil {
			t.Errorf("isoDate(%d, %d, %d): expected error", tc.yy, tc.month, tc.day)
		}
	}
}

func TestIsoTime(t *testing.T) {
	got, err := isoTime(15, 3, 31)
	if err != nil {
		t.Fatalf("isoTime: %v", err)
	}
	if got != "15:03:31" {
		t.Errorf("isoTime = %q, want %q", got, "15:03:31")
	}

	for _, tc := range [][3]int{{24, 0, 0}, {-1, 0, 0}, {0, 60, 0}, {0, 0, 60}} {
		if _, err := isoTime(tc[0], tc[1], tc[2]); err == nil {
			t.Errorf("isoTime(%d, %d, %d): expected error", tc[0], tc[1], tc[2])
		}
	}
}
