package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coredds/mintwaterfall/internal/data"
)

func prepare(t *testing.T, values ...float64) []data.ProcessedDataItem {
	t.Helper()
	items := make([]data.ChartDataItem, 0, len(values))
	for i, v := range values {
		items = append(items, data.ChartDataItem{
			Label:  string(rune('A' + i%26)),
			Stacks: []data.StackItem{{Value: v, Color: "#000"}},
		})
	}
	out, err := data.Prepare(items, data.PrepareConfig{})
	require.NoError(t, err)
	return out
}

var small = Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}

func TestDomain(t *testing.T) {
	lo, hi, neg := Domain(prepare(t, 100, -30))
	assert.False(t, neg)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 110.0, hi, "102 nices up to 110")

	lo, hi, neg = Domain(prepare(t, -50, -30))
	assert.True(t, neg)
	assert.InDelta(t, -84, lo, 1e-9)
	assert.InDelta(t, 4, hi, 1e-9)
}

func TestEstimatePositive(t *testing.T) {
	items := prepare(t, 100, -30)

	m, d := Estimate(items, small, 240, WithMinTop(0))
	assert.InDelta(t, 12.1818, d.HighestLabelY, 1e-3)
	assert.InDelta(t, 37.8182, m.Top, 1e-3)
	assert.Equal(t, small.Bottom, m.Bottom, "no negatives leaves the bottom alone")
	assert.Equal(t, "100", d.WidestLabel)
	assert.Equal(t, 27.0, m.Right)
	assert.Equal(t, 27.0, m.Left)

	floored, _ := Estimate(items, small, 240)
	assert.Equal(t, 80.0, floored.Top, "top floor applies by default")
}

func TestEstimateNegative(t *testing.T) {
	m, d := Estimate(prepare(t, -50, -30), small, 240, WithMinTop(0))

	require.True(t, d.HasNegative)
	assert.InDelta(t, 200-200*4.0/88, d.LowestLabelY, 1e-9)
	assert.InDelta(t, 20-800.0/88, d.BottomShortfall, 1e-9)
	assert.InDelta(t, 50-800.0/88, m.Bottom, 1e-9)
}

func TestEstimateWideLabels(t *testing.T) {
	m, d := Estimate(prepare(t, 12345, 7654321), small, 400, WithCharWidth(10), WithLabelPadding(4))

	assert.Equal(t, "7,666,666", d.WidestLabel)
	assert.Equal(t, 94.0, m.Right)
	assert.Greater(t, m.Left, small.Left)
}

func TestEstimateNeverShrinks(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	bases := []Margin{
		small,
		DefaultMargin,
		{Top: 500, Right: 500, Bottom: 500, Left: 500},
		{},
	}
	for range 200 {
		values := make([]float64, 1+r.IntN(12))
		for i := range values {
			values[i] = (r.Float64() - 0.4) * 1e4
		}
		items := prepare(t, values...)
		for _, base := range bases {
			height := 50 + r.Float64()*600
			m, _ := Estimate(items, base, height)
			require.Truef(t, m.AtLeast(base), "Estimate(%v, %+v, %v) = %+v", values, base, height, m)
		}
	}
}

func TestEstimateEmpty(t *testing.T) {
	m, _ := Estimate(nil, DefaultMargin, 400)
	assert.Equal(t, DefaultMargin, m)
}

func TestValueScaleOrientation(t *testing.T) {
	s := ValueScale(prepare(t, 100, -30), 200)
	assert.Equal(t, 200.0, s.Map(0))
	assert.Equal(t, 0.0, s.Map(110))
}
