package shift

import (
	"testing"
	"time"
)

func TestSpanMinutes(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		out  time.Time
		want int
	}{
		{
			name: "same day",
			in:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			out:  time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC),
			want: 510,
		},
		{
			name: "out before in wraps a day",
			in:   time.Date(2025, 3, 10, 22, 53, 0, 0, time.UTC),
			out:  time.Date(2025, 3, 10, 7, 5, 0, 0, time.UTC),
			want: 494,
		},
		{
			name: "already on next day",
			in:   time.Date(2025, 3, 10, 22, 53, 0, 0, time.UTC),
			out:  time.Date(2025, 3, 11, 7, 5, 0, 0, time.UTC),
			want: 494,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SpanMinutes(c.in, c.out); got != c.want {
				t.Errorf("SpanMinutes = %d, want %d", got, c.want)
			}
		})
	}
}

func TestWorkedHours(t *testing.T) {
	in := time.Date(2025, 3, 10, 22, 53, 0, 0, time.UTC)
	out := time.Date(2025, 3, 11, 7, 5, 0, 0, time.UTC)

	// (494 - 90) / 60 = 6.7333... rounds to 6.73
	if got := WorkedHours(in, out, 90); got != 6.73 {
		t.Errorf("WorkedHours = %v, want 6.73", got)
	}

	// Breaks longer than the span clamp at zero.
	short := in.Add(30 * time.Minute)
	if got := WorkedHours(in, short, 60); got != 0 {
		t.Errorf("WorkedHours clamped = %v, want 0", got)
	}
}
