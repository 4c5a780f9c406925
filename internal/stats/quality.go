package stats

import (
	"encoding/json"
	"fmt"
	"math"
)

// ValueType names the dynamic type of a value in a quality assessment.
type ValueType string

const (
	TypeNumber ValueType = "number"
	TypeString ValueType = "string"
	TypeBool   ValueType = "boolean"
	TypeObject ValueType = "object"
)

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// QualityOptions configures AssessDataQuality.
type QualityOptions struct {
	// ExpectedRange bounds accurate numeric values. Nil disables the check.
	ExpectedRange *Range
	// AllowedTypes lists valid value types. Empty means numbers only.
	AllowedTypes []ValueType
	// DuplicateTolerance is the duplicate fraction above which a
	// recommendation is produced. Zero selects the 5% default.
	DuplicateTolerance float64
}

// QualityScores holds the independent quality measures, as percentages.
type QualityScores struct {
	Completeness float64 `json:"completeness"`
	Validity     float64 `json:"validity"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
	Overall      float64 `json:"overall"`
}

// DataQualityAssessment is the result of AssessDataQuality.
type DataQualityAssessment struct {
	TotalValues     int             `json:"totalValues"`
	MissingValues   int             `json:"missingValues"`
	InvalidValues   int             `json:"invalidValues"`
	OutOfRange      int             `json:"outOfRange"`
	Duplicates      int             `json:"duplicates"`
	Scores          QualityScores   `json:"scores"`
	Outliers        OutlierAnalysis `json:"outliers"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
}

const (
	completenessThreshold = 95.0
	validityThreshold     = 95.0
	accuracyThreshold     = 90.0
	outlierThreshold      = 5.0
	defaultDupTolerance   = 0.05
)

// AssessDataQuality scores a raw column of values. Nil entries and NaN
// numbers count as missing. Duplicates are detected by comparing the JSON
// serialisation of each present value.
func AssessDataQuality(data []any, opts QualityOptions) DataQualityAssessment {
	result := DataQualityAssessment{
		TotalValues:     len(data),
		Issues:          []string{},
		Recommendations: []string{},
		Outliers:        DetectOutliers(nil, nil),
	}
	if len(data) == 0 {
		result.Issues = append(result.Issues, "dataset is empty")
		return result
	}

	allowed := opts.AllowedTypes
	if len(allowed) == 0 {
		allowed = []ValueType{TypeNumber}
	}
	tolerance := opts.DuplicateTolerance
	if tolerance <= 0 {
		tolerance = defaultDupTolerance
	}

	var (
		present  int
		valid    int
		numeric  []float64
		accurate int
		seen     = make(map[string]struct{}, len(data))
	)
	for _, v := range data {
		n, isNum := toFloat(v)
		if v == nil || (isNum && math.IsNaN(n)) {
			result.MissingValues++
			continue
		}
		present++

		if key, err := json.Marshal(v); err == nil {
			if _, dup := seen[string(key)]; dup {
				result.Duplicates++
			} else {
				seen[string(key)] = struct{}{}
			}
		}

		if typeAllowed(typeOf(v), allowed) {
			valid++
		}
		if isNum && !math.IsInf(n, 0) {
			numeric = append(numeric, n)
			if opts.ExpectedRange == nil || opts.ExpectedRange.Contains(n) {
				accurate++
			}
		}
	}
	result.InvalidValues = present - valid

	scores := &result.Scores
	scores.Completeness = percent(present, len(data))
	scores.Validity = percent(valid, present)
	scores.Accuracy = 100
	if opts.ExpectedRange != nil {
		result.OutOfRange = len(numeric) - accurate
		scores.Accuracy = percent(accurate, len(numeric))
	}
	scores.Consistency = consistency(numeric)
	scores.Overall = (scores.Completeness + scores.Validity + scores.Accuracy + scores.Consistency) / 4

	result.Outliers = DetectOutliers(numeric, nil)

	describeQuality(&result, tolerance, present)
	return result
}

func describeQuality(r *DataQualityAssessment, tolerance float64, present int) {
	s := r.Scores
	if r.MissingValues > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d of %d values are missing (%.1f%% complete)", r.MissingValues, r.TotalValues, s.Completeness))
	}
	if r.InvalidValues > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d values have an unexpected type", r.InvalidValues))
	}
	if r.OutOfRange > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d values fall outside the expected range", r.OutOfRange))
	}
	if r.Duplicates > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d duplicate values found", r.Duplicates))
	}
	if n := r.Outliers.Summary.TotalOutliers; n > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d outliers detected (%d extreme)", n, r.Outliers.Summary.ExtremeOutliers))
	}

	if s.Completeness < completenessThreshold {
		r.Recommendations = append(r.Recommendations, "Fill or impute missing values before charting")
	}
	if s.Validity < validityThreshold {
		r.Recommendations = append(r.Recommendations, "Convert or remove values with unexpected types")
	}
	if s.Accuracy < accuracyThreshold {
		r.Recommendations = append(r.Recommendations, "Review values outside the expected range")
	}
	if present > 0 && float64(r.Duplicates)/float64(present) > tolerance {
		r.Recommendations = append(r.Recommendations, "Check the source for duplicated records")
	}
	if r.Outliers.Summary.OutlierPercentage > outlierThreshold {
		r.Recommendations = append(r.Recommendations, "Investigate outliers; consider a breakdown or an Others bucket")
	}
}

// consistency is 100 - CV·100 floored at zero, where CV is the coefficient
// of variation (population std dev over |mean|).
func consistency(xs []float64) float64 {
	if len(xs) == 0 {
		return 100
	}
	s := CalculateSummary(xs)
	if s.StdDev == 0 {
		return 100
	}
	if s.Mean == 0 {
		return 0
	}
	return math.Max(0, 100-s.StdDev/math.Abs(s.Mean)*100)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 100
	}
	return float64(part) / float64(whole) * 100
}

func typeAllowed(t ValueType, allowed []ValueType) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

func typeOf(v any) ValueType {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	}
	if _, ok := toFloat(v); ok {
		return TypeNumber
	}
	return TypeObject
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
