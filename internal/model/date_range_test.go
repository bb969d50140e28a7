package model

import (
	"testing"
	"time"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("ParseDateRange(%q, %q): %v", start, end, err)
	}
	return r
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid", "2025-02-10", "2025-02-12", false},
		{"single night", "2025-02-10", "2025-02-11", false},
		{"zero length", "2025-02-10", "2025-02-10", true},
		{"inverted", "2025-02-12", "2025-02-10", true},
		{"bad start", "10-02-2025", "2025-02-12", true},
		{"bad end", "2025-02-10", "someday", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDateRange(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestDateRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    DateRange
		b    DateRange
		want bool
	}{
		{
			name: "identical",
			a:    mustRange(t, "2025-02-10", "2025-02-12"),
			b:    mustRange(t, "2025-02-10", "2025-02-12"),
			want: true,
		},
		{
			name: "partial overlap",
			a:    mustRange(t, "2025-02-10", "2025-02-14"),
			b:    mustRange(t, "2025-02-12", "2025-02-16"),
			want: true,
		},
		{
			name: "contained",
			a:    mustRange(t, "2025-02-10", "2025-02-20"),
			b:    mustRange(t, "2025-02-12", "2025-02-14"),
			want: true,
		},
		{
			name: "back to back checkout equals checkin",
			a:    mustRange(t, "2025-02-10", "2025-02-12"),
			b:    mustRange(t, "2025-02-12", "2025-02-14"),
			want: false,
		},
		{
			name: "disjoint",
			a:    mustRange(t, "2025-02-10", "2025-02-12"),
			b:    mustRange(t, "2025-03-01", "2025-03-05"),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%s.Overlaps(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%s.Overlaps(%s) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2025-02-10", "2025-02-11", 1},
		{"2025-02-10", "2025-02-12", 2},
		{"2025-02-01", "2025-03-01", 28},
	}
	for _, tt := range tests {
		if got := mustRange(t, tt.start, tt.end).Nights(); got != tt.want {
			t.Errorf("Nights(%s..%s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestDateTruncates(t *testing.T) {
	in := time.Date(2025, 2, 10, 17, 42, 3, 99, time.FixedZone("X", 3*3600))
	got := Date(in)
	want := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Date(%v) = %v, want %v", in, got, want)
	}
}
