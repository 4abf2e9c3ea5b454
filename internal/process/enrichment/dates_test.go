package enrichment

import (
	"testing"
	"time"
)

func TestDecomposeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		valid    bool
		date     string
		year     int
		month    int
		day      int
		hour     int
		datetime time.Time
	}{
		{
			name:  "feed format",
			input: "2026-02-09 14:30:00",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "iso with zulu",
			input: "2026-02-09T14:30:00Z",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "iso with offset keeps local fields",
			input: "2026-02-09T23:15:00+02:00",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 23,
			datetime: time.Date(2026, 2, 9, 21, 15, 0, 0, time.UTC),
		},
		{
			name:  "iso with fraction",
			input: "2026-02-09T14:30:00.123456Z",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 14, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "iso without offset",
			input: "2026-02-09T08:05",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 8,
			datetime: time.Date(2026, 2, 9, 8, 5, 0, 0, time.UTC),
		},
		{
			name:  "space separator with offset",
			input: "2026-02-09 14:30:00+01:00",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 13, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separator with zulu",
			input: "2026-02-09 14:30:00Z",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separator with fraction and offset",
			input: "2026-02-09 14:30:00.5-03:00",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 17, 30, 0, 500000000, time.UTC),
		},
		{
			name:  "compact offset",
			input: "2026-02-09T14:30:00+0100",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 13, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separator with compact offset",
			input: "2026-02-09 14:30:00+0100",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 13, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separator minute precision",
			input: "2026-02-09 14:30",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 14,
			datetime: time.Date(2026, 2, 9, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "bare date",
			input: "2026-02-09",
			valid: true, date: "2026-02-09", year: 2026, month: 2, day: 9, hour: 0,
			datetime: time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: ""},
		{name: "blank", input: "   "},
		{name: "garbage", input: "invalido"},
		{name: "day first", input: "09/02/2026"},
		{name: "impossible day", input: "2026-02-30 10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecomposeDate(tt.input)

			if got.Valid != tt.valid {
				t.Fatalf("DecomposeDate(%q).Valid = %v, want %v", tt.input, got.Valid, tt.valid)
			}

			if !tt.valid {
				if got.DateString() != "" || got.Year != 0 || !got.Datetime.IsZero() {
					t.Errorf("DecomposeDate(%q) = %+v, want zero value", tt.input, got)
				}

				return
			}

			if got.DateString() != tt.date {
				t.Errorf("date = %q, want %q", got.DateString(), tt.date)
			}

			if got.Year != tt.year || got.Month != tt.month || got.Day != tt.day || got.Hour != tt.hour {
				t.Errorf("fields = %d-%d-%d %dh, want %d-%d-%d %dh",
					got.Year, got.Month, got.Day, got.Hour, tt.year, tt.month, tt.day, tt.hour)
			}

			if !got.Datetime.Equal(tt.datetime) {
				t.Errorf("datetime = %v, want %v", got.Datetime, tt.datetime)
			}
		})
	}
}
