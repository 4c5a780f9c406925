package stats

import (
	"math"
	"slices"
)

// Severity classifies how far an outlier lies outside the IQR fences.
type Severity string

const (
	SeverityMild    Severity = "mild"
	SeverityExtreme Severity = "extreme"
)

// Outlier is a single value outside the mild fences.
type Outlier struct {
	Value    float64  `json:"value"`
	Index    int      `json:"index"`
	Label    string   `json:"label,omitempty"`
	Severity Severity `json:"severity"`
}

// Fences are the IQR bounds used for classification.
type Fences struct {
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	IQR        float64 `json:"iqr"`
	MildLow    float64 `json:"mildLow"`
	MildHigh   float64 `json:"mildHigh"`
	ExtremeLow float64 `json:"extremeLow"`
	ExtremeHi  float64 `json:"extremeHigh"`
}

// OutlierSummary counts the detected outliers.
type OutlierSummary struct {
	TotalOutliers     int     `json:"totalOutliers"`
	MildOutliers      int     `json:"mildOutliers"`
	ExtremeOutliers   int     `json:"extremeOutliers"`
	OutlierPercentage float64 `json:"outlierPercentage"`
}

// OutlierAnalysis partitions a sample into outliers and clean data.
// len(Outliers)+len(CleanData) equals the number of non-NaN inputs.
type OutlierAnalysis struct {
	Outliers  []Outlier      `json:"outliers"`
	CleanData []float64      `json:"cleanData"`
	Fences    Fences         `json:"fences"`
	Summary   OutlierSummary `json:"summary"`
}

type outlierConfig struct {
	mild    float64
	extreme float64
}

// OutlierOption configures DetectOutliers.
type OutlierOption func(*outlierConfig)

// WithMildFactor sets the IQR multiplier of the mild fences (default 1.5).
func WithMildFactor(k float64) OutlierOption {
	return func(c *outlierConfig) { c.mild = k }
}

// WithExtremeFactor sets the IQR multiplier of the extreme fences (default 3).
func WithExtremeFactor(k float64) OutlierOption {
	return func(c *outlierConfig) { c.extreme = k }
}

// DetectOutliers flags values outside [Q1-1.5·IQR, Q3+1.5·IQR] as mild and
// values outside [Q1-3·IQR, Q3+3·IQR] as extreme. labels is optional and
// matched to values by index. NaN values are excluded from both partitions.
func DetectOutliers(values []float64, labels []string, opts ...OutlierOption) OutlierAnalysis {
	cfg := outlierConfig{mild: 1.5, extreme: 3}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := OutlierAnalysis{
		Outliers:  []Outlier{},
		CleanData: []float64{},
	}

	valid := Clean(values)
	if len(valid) == 0 {
		return result
	}
	slices.Sort(valid)

	q1 := QuantileSorted(valid, 0.25)
	q3 := QuantileSorted(valid, 0.75)
	iqr := q3 - q1
	f := Fences{
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		MildLow:    q1 - cfg.mild*iqr,
		MildHigh:   q3 + cfg.mild*iqr,
		ExtremeLow: q1 - cfg.extreme*iqr,
		ExtremeHi:  q3 + cfg.extreme*iqr,
	}
	result.Fences = f

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v >= f.MildLow && v <= f.MildHigh {
			result.CleanData = append(result.CleanData, v)
			continue
		}
		o := Outlier{Value: v, Index: i, Severity: SeverityMild}
		if i < len(labels) {
			o.Label = labels[i]
		}
		if v < f.ExtremeLow || v > f.ExtremeHi {
			o.Severity = SeverityExtreme
			result.Summary.ExtremeOutliers++
		} else {
			result.Summary.MildOutliers++
		}
		result.Outliers = append(result.Outliers, o)
	}

	result.Summary.TotalOutliers = len(result.Outliers)
	result.Summary.OutlierPercentage = float64(len(result.Outliers)) / float64(len(valid)) * 100
	return result
}
