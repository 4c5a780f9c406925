package scale

import "time"

// Time maps instants onto a continuous range.
type Time struct {
	lin    *Linear
	lo, hi time.Time
	layout string
}

// Tick label layouts chosen by domain span.
const (
	LayoutClock = "15:04"
	LayoutDay   = "Jan 2"
	LayoutMonth = "Jan 2006"
	LayoutYear  = "2006"
)

// NewTime returns a time scale over the extent of values. With WithNice
// the domain is widened to whole units of its span class.
func NewTime(values []time.Time, opts ...Option) *Time {
	o := newOptions(opts)

	var lo, hi time.Time
	for i, v := range values {
		if i == 0 || v.Before(lo) {
			lo = v
		}
		if i == 0 || v.After(hi) {
			hi = v
		}
	}
	if o.nice && len(values) > 0 {
		lo, hi = niceTime(lo, hi)
	}

	t := &Time{lo: lo, hi: hi, layout: o.tickFormat}
	t.lin = NewLinear(nil,
		WithDomain(millis(lo), millis(hi)),
		WithRange(o.r0, o.r1),
		clampIf(o.clamp),
	)
	if t.layout == "" {
		t.layout = AutoLayout(hi.Sub(lo))
	}
	return t
}

func clampIf(on bool) Option {
	return func(o *options) { o.clamp = on }
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// AutoLayout picks a label layout for a domain spanning d.
func AutoLayout(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d < day:
		return LayoutClock
	case d < 30*day:
		return LayoutDay
	case d < 365*day:
		return LayoutMonth
	}
	return LayoutYear
}

func niceTime(lo, hi time.Time) (time.Time, time.Time) {
	var floor, ceil func(time.Time) time.Time
	switch AutoLayout(hi.Sub(lo)) {
	case LayoutClock:
		floor = func(t time.Time) time.Time { return t.Truncate(time.Hour) }
		ceil = func(t time.Time) time.Time { return ceilTo(t, floor, func(t time.Time) time.Time { return t.Add(time.Hour) }) }
	case LayoutDay:
		floor = func(t time.Time) time.Time {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		}
		ceil = func(t time.Time) time.Time { return ceilTo(t, floor, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }) }
	case LayoutMonth:
		floor = func(t time.Time) time.Time {
			y, m, _ := t.Date()
			return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
		}
		ceil = func(t time.Time) time.Time { return ceilTo(t, floor, func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }) }
	default:
		floor = func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		}
		ceil = func(t time.Time) time.Time { return ceilTo(t, floor, func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }) }
	}
	return floor(lo), ceil(hi)
}

func ceilTo(t time.Time, floor, next func(time.Time) time.Time) time.Time {
	f := floor(t)
	if f.Equal(t) {
		return t
	}
	return next(f)
}

func (t *Time) Kind() Kind { return KindTime }

func (t *Time) Range() (float64, float64) { return t.lin.Range() }

// Domain returns the first and last instant.
func (t *Time) Domain() (time.Time, time.Time) { return t.lo, t.hi }

// Map maps v onto the range.
func (t *Time) Map(v time.Time) float64 { return t.lin.Map(millis(v)) }

// Invert maps a range position back to an instant.
func (t *Time) Invert(y float64) time.Time {
	ms := t.lin.Invert(y)
	return time.UnixMilli(int64(ms)).In(t.lo.Location())
}

// Layout returns the tick label layout in effect.
func (t *Time) Layout() string { return t.layout }

// Format renders v with the scale's tick layout.
func (t *Time) Format(v time.Time) string { return v.Format(t.layout) }

var tickSteps = []struct {
	d      time.Duration
	months int
}{
	{d: time.Second}, {d: 5 * time.Second}, {d: 15 * time.Second}, {d: 30 * time.Second},
	{d: time.Minute}, {d: 5 * time.Minute}, {d: 15 * time.Minute}, {d: 30 * time.Minute},
	{d: time.Hour}, {d: 3 * time.Hour}, {d: 6 * time.Hour}, {d: 12 * time.Hour},
	{d: 24 * time.Hour}, {d: 48 * time.Hour}, {d: 7 * 24 * time.Hour},
	{months: 1}, {months: 3}, {months: 12},
}

// Ticks returns at most about count instants on calendar boundaries
// within the domain.
func (t *Time) Ticks(count int) []time.Time {
	if count <= 0 || !t.hi.After(t.lo) {
		if count > 0 && !t.lo.IsZero() {
			return []time.Time{t.lo}
		}
		return nil
	}
	span := t.hi.Sub(t.lo)
	step := tickSteps[len(tickSteps)-1]
	for _, s := range tickSteps {
		approx := s.d
		if s.months > 0 {
			approx = time.Duration(s.months) * 30 * 24 * time.Hour
		}
		if span/approx <= time.Duration(count) {
			step = s
			break
		}
	}

	var out []time.Time
	if step.months > 0 {
		y, m, _ := t.lo.Date()
		m0 := (int(m) - 1) / step.months * step.months
		cur := time.Date(y, time.Month(m0+1), 1, 0, 0, 0, 0, t.lo.Location())
		for ; !cur.After(t.hi); cur = cur.AddDate(0, step.months, 0) {
			if !cur.Before(t.lo) {
				out = append(out, cur)
			}
		}
		return out
	}
	cur := t.lo.Truncate(step.d)
	if cur.Before(t.lo) {
		cur = cur.Add(step.d)
	}
	for !cur.After(t.hi) {
		out = append(out, cur)
		cur = cur.Add(step.d)
	}
	return out
}
