package stats

import (
	"regexp"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// LabeledValue is one bar of a waterfall reduced to its label and value.
type LabeledValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Impact buckets a variance contribution.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Contribution is the share of total variance caused by one item.
type Contribution struct {
	Label        string  `json:"label"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
	Impact       Impact  `json:"impact"`
}

// Significance buckets an F statistic.
type Significance string

const (
	Significant           Significance = "significant"
	ModeratelySignificant Significance = "moderate"
	NotSignificant        Significance = "not significant"
)

// ANOVA is a simplified one-way analysis of variance.
type ANOVA struct {
	Groups          map[string]int `json:"groups"`
	BetweenVariance float64        `json:"betweenGroupVariance"`
	WithinVariance  float64        `json:"withinGroupVariance"`
	FStatistic      float64        `json:"fStatistic"`
	Significance    Significance   `json:"significance"`
}

// VarianceAnalysis is the result of AnalyzeVariance.
type VarianceAnalysis struct {
	Count            int            `json:"count"`
	Mean             float64        `json:"mean"`
	TotalVariance    float64        `json:"totalVariance"`
	PositiveVariance float64        `json:"positiveVariance"`
	NegativeVariance float64        `json:"negativeVariance"`
	Contributions    []Contribution `json:"contributions"`
	TopContributors  []Contribution `json:"topContributors"`
	ANOVA            ANOVA          `json:"anova"`
}

// GroupKeyFunc assigns an item to an ANOVA group. Returning "" leaves the
// item ungrouped, which triggers the sign-based fallback.
type GroupKeyFunc func(label string, value float64) string

type varianceConfig struct {
	groupKey GroupKeyFunc
}

// VarianceOption configures AnalyzeVariance.
type VarianceOption func(*varianceConfig)

// WithGroupKey replaces the default label-prefix grouping.
func WithGroupKey(fn GroupKeyFunc) VarianceOption {
	return func(c *varianceConfig) { c.groupKey = fn }
}

var labelPrefix = regexp.MustCompile(`^[A-Za-z]+`)

// LabelPrefixKey groups items by the leading alphabetic run of their label.
func LabelPrefixKey(label string, _ float64) string {
	return labelPrefix.FindString(label)
}

// SignKey groups items into "positive" and "negative" by value sign.
func SignKey(_ string, value float64) string {
	if value < 0 {
		return "negative"
	}
	return "positive"
}

const topContributors = 5

// AnalyzeVariance decomposes the population variance of items.
func AnalyzeVariance(items []LabeledValue, opts ...VarianceOption) VarianceAnalysis {
	cfg := varianceConfig{groupKey: LabelPrefixKey}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := VarianceAnalysis{
		Contributions:   []Contribution{},
		TopContributors: []Contribution{},
		ANOVA:           ANOVA{Groups: map[string]int{}, Significance: NotSignificant},
	}
	if len(items) == 0 {
		return result
	}

	values := make([]float64, len(items))
	var positive, negative []float64
	for i, it := range items {
		values[i] = it.Value
		switch {
		case it.Value > 0:
			positive = append(positive, it.Value)
		case it.Value < 0:
			negative = append(negative, it.Value)
		}
	}

	mean, total := stat.PopMeanVariance(values, nil)
	result.Count = len(items)
	result.Mean = mean
	result.TotalVariance = total
	result.PositiveVariance = popVariance(positive)
	result.NegativeVariance = popVariance(negative)

	for _, it := range items {
		c := Contribution{Label: it.Label, Value: it.Value, Impact: ImpactLow}
		if total > 0 {
			d := it.Value - mean
			c.Contribution = d * d / total * 100
		}
		switch {
		case c.Contribution > 20:
			c.Impact = ImpactHigh
		case c.Contribution > 10:
			c.Impact = ImpactMedium
		}
		result.Contributions = append(result.Contributions, c)
	}

	top := slices.Clone(result.Contributions)
	slices.SortStableFunc(top, func(a, b Contribution) int {
		switch {
		case a.Contribution > b.Contribution:
			return -1
		case a.Contribution < b.Contribution:
			return 1
		}
		return 0
	})
	result.TopContributors = top[:min(topContributors, len(top))]

	result.ANOVA = oneWayANOVA(items, mean, cfg.groupKey)
	return result
}

func popVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(xs, nil)
	return v
}

// oneWayANOVA groups items with key, falling back to SignKey when any item
// is ungrouped, fewer than two groups emerge or every group is a singleton.
func oneWayANOVA(items []LabeledValue, grand float64, key GroupKeyFunc) ANOVA {
	groups, order := groupValues(items, key)
	if len(groups) < 2 || len(groups) == len(items) {
		groups, order = groupValues(items, SignKey)
	}

	out := ANOVA{Groups: make(map[string]int, len(groups)), Significance: NotSignificant}
	for _, name := range order {
		out.Groups[name] = len(groups[name])
	}

	k := len(order)
	n := len(items)
	if k < 2 || n-k < 1 {
		return out
	}

	var ssBetween, ssWithin float64
	for _, name := range order {
		g := groups[name]
		m := stat.Mean(g, nil)
		d := m - grand
		ssBetween += float64(len(g)) * d * d
		for _, v := range g {
			e := v - m
			ssWithin += e * e
		}
	}
	out.BetweenVariance = ssBetween / float64(k-1)
	out.WithinVariance = ssWithin / float64(n-k)
	if out.WithinVariance > 0 {
		out.FStatistic = out.BetweenVariance / out.WithinVariance
	}

	switch {
	case out.FStatistic > 4:
		out.Significance = Significant
	case out.FStatistic > 2:
		out.Significance = ModeratelySignificant
	}
	return out
}

func groupValues(items []LabeledValue, key GroupKeyFunc) (map[string][]float64, []string) {
	groups := make(map[string][]float64)
	var order []string
	for _, it := range items {
		name := key(it.Label, it.Value)
		if name == "" {
			return nil, nil
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], it.Value)
	}
	return groups, order
}
