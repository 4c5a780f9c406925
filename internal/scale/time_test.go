package scale

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var t0 = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

func TestTimeLayoutBySpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		span time.Duration
		want string
	}{
		{2 * time.Hour, LayoutClock},
		{10 * 24 * time.Hour, LayoutDay},
		{100 * 24 * time.Hour, LayoutMonth},
		{730 * 24 * time.Hour, LayoutYear},
	}
	for _, tt := range tests {
		s := NewTime([]time.Time{t0, t0.Add(tt.span)})
		if s.Layout() != tt.want {
			t.Errorf("span %v: Layout() = %q, want %q", tt.span, s.Layout(), tt.want)
		}
	}

	s := NewTime([]time.Time{t0, t0.Add(time.Hour)}, WithTickFormat(time.Kitchen))
	if got := s.Format(t0); got != "10:30AM" {
		t.Fatalf("Format() = %q, want %q", got, "10:30AM")
	}
}

func TestTimeMapAndInvert(t *testing.T) {
	t.Parallel()

	s := NewTime([]time.Time{t0.Add(4 * time.Hour), t0}, WithRange(0, 400))
	if got := s.Map(t0.Add(time.Hour)); math.Abs(got-100) > 1e-9 {
		t.Fatalf("Map(+1h) = %v, want 100", got)
	}
	if got := s.Invert(200); !got.Equal(t0.Add(2 * time.Hour)) {
		t.Fatalf("Invert(200) = %v, want %v", got, t0.Add(2*time.Hour))
	}
	lo, hi := s.Domain()
	if !lo.Equal(t0) || !hi.Equal(t0.Add(4*time.Hour)) {
		t.Fatalf("Domain() = %v, %v", lo, hi)
	}
}

func TestTimeNice(t *testing.T) {
	t.Parallel()

	s := NewTime([]time.Time{t0, time.Date(2024, time.March, 20, 6, 0, 0, 0, time.UTC)}, WithNice(0))
	lo, hi := s.Domain()
	if want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC); !lo.Equal(want) {
		t.Fatalf("nice lo = %v, want %v", lo, want)
	}
	if want := time.Date(2024, time.March, 21, 0, 0, 0, 0, time.UTC); !hi.Equal(want) {
		t.Fatalf("nice hi = %v, want %v", hi, want)
	}
}

func TestTimeTicks(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	hourly := NewTime([]time.Time{day, day.Add(6 * time.Hour)}).Ticks(6)
	if len(hourly) != 7 || !hourly[0].Equal(day) || !hourly[6].Equal(day.Add(6*time.Hour)) {
		t.Fatalf("hourly ticks = %v", hourly)
	}

	months := NewTime([]time.Time{
		time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
	}).Ticks(4)
	want := []time.Time{
		time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, months); diff != "" {
		t.Fatalf("quarterly ticks mismatch (-want +got):\n%s", diff)
	}
}
