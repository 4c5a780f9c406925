package chart

import (
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/stats"
)

// Analysis runs the statistical engine over the bars of a processed series.
// The total bar is excluded throughout.
type Analysis struct {
	Summary  data.Summary                `json:"summary"`
	Bars     stats.Summary               `json:"bars"`
	Outliers stats.OutlierAnalysis       `json:"outliers"`
	Variance stats.VarianceAnalysis      `json:"variance"`
	Trend    stats.TrendAnalysis         `json:"trend"`
	Quality  stats.DataQualityAssessment `json:"quality"`
}

// Analyze summarizes items. Trend is fitted to the running total against
// bar position.
func Analyze(items []data.ProcessedDataItem) Analysis {
	var (
		values  []float64
		labels  []string
		labeled []stats.LabeledValue
		points  []stats.Point
		raw     []any
		bars    []data.ProcessedDataItem
	)
	for _, it := range items {
		if it.IsTotal {
			continue
		}
		bars = append(bars, it)
		values = append(values, it.BarTotal)
		labels = append(labels, it.Label)
		labeled = append(labeled, stats.LabeledValue{Label: it.Label, Value: it.BarTotal})
		points = append(points, stats.Point{X: float64(len(points)), Y: it.CumulativeTotal})
		raw = append(raw, it.BarTotal)
	}
	return Analysis{
		Summary:  data.Summarize(bars),
		Bars:     stats.CalculateSummary(values),
		Outliers: stats.DetectOutliers(values, labels),
		Variance: stats.AnalyzeVariance(labeled),
		Trend:    stats.AnalyzeTrend(points),
		Quality:  stats.AssessDataQuality(raw, stats.QualityOptions{}),
	}
}
