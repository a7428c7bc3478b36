package utils

import (
	"testing"
	"time"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"123.45", "123.45", false},
		{"  10 ", "10", false},
		{"0", "0", false},
		{"", "", true},
		{"   ", "", true},
		{"abc", "", true},
	}

	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseDecimal(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDecimal(%q): %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ParseDecimal(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestTruncateToDay(t *testing.T) {
	loc := time.FixedZone("VET", -4*60*60)
	in := time.Date(2026, time.January, 7, 18, 42, 13, 999, loc)

	got := TruncateToDay(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("time-of-day not dropped: %s", got)
	}
	if got.Year() != 2026 || got.Month() != time.January || got.Day() != 7 {
		t.Fatalf("date changed: %s", got)
	}
	if got.Location() != loc {
		t.Fatalf("location changed: %s", got.Location())
	}
}
