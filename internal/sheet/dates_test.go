package sheet

import (
	"testing"
	"time"
)

func TestParseHeaderDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{
			name:   "iso date",
			header: "2024-03-15",
			want:   "2024-03-15",
			wantOK: true,
		},
		{
			name:   "us slash date",
			header: "03/15/2024",
			want:   "2024-03-15",
			wantOK: true,
		},
		{
			name:   "day first slash date",
			header: "25/03/2024",
			want:   "2024-03-25",
			wantOK: true,
		},
		{
			name:   "year first slash date",
			header: "2024/03/15",
			want:   "2024-03-15",
			wantOK: true,
		},
		{
			name:   "ambiguous slash date uses month first",
			header: "03/04/2024",
			want:   "2024-03-04",
			wantOK: true,
		},
		{
			name:   "month day in the past keeps current year",
			header: "03-15",
			want:   "2024-03-15",
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			header: " 2024-03-15 ",
			want:   "2024-03-15",
			wantOK: true,
		},
		{
			name:   "plain text header",
			header: "handle",
			wantOK: false,
		},
		{
			name:   "empty header",
			header: "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseHeaderDate(tt.header, now)
			if ok != tt.wantOK {
				t.Fatalf("parseHeaderDate(%q) ok = %v, want %v", tt.header, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseHeaderDate(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseHeaderDateYearWraparound(t *testing.T) {
	// A December column seen in early January belongs to the
	// previous year.
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	got, ok := parseHeaderDate("12-25", now)
	if !ok {
		t.Fatal("expected 12-25 to parse")
	}
	if got != "2023-12-25" {
		t.Errorf("expected 2023-12-25, got %s", got)
	}

	// Same-day columns stay in the current year.
	got, ok = parseHeaderDate("01-05", now)
	if !ok {
		t.Fatal("expected 01-05 to parse")
	}
	if got != "2024-01-05" {
		t.Errorf("expected 2024-01-05, got %s", got)
	}
}
