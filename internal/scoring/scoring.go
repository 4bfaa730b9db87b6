// Package scoring implements the six closed-form assessment equations of
// the EdPEx/Baldrige excellence framework: ADLI process scoring, LeTCI
// results scoring, point-value weighted category aggregation, the
// organizational weighted sum, the Integration Health Index, and
// gap-based prioritization. All functions are pure; identical inputs
// produce identical outputs.
package scoring

import "math"

// Canonical names of the seven EdPEx assessment categories.
const (
	CategoryLeadership  = "Leadership"
	CategoryStrategy    = "Strategy"
	CategoryCustomers   = "Customers"
	CategoryMeasurement = "Measurement"
	CategoryWorkforce   = "Workforce"
	CategoryOperations  = "Operations"
	CategoryResults     = "Results"
)

// Categories lists the seven EdPEx categories in canonical order.
var Categories = []string{
	CategoryLeadership,
	CategoryStrategy,
	CategoryCustomers,
	CategoryMeasurement,
	CategoryWorkforce,
	CategoryOperations,
	CategoryResults,
}

// ProcessIndicators holds the four ADLI dimension values for a process
// item. Each value must be in [0,1].
type ProcessIndicators struct {
	Approach    float64 `json:"approach"`
	Deployment  float64 `json:"deployment"`
	Learning    float64 `json:"learning"`
	Integration float64 `json:"integration"`
}

// Validate rejects any dimension outside [0,1].
func (p ProcessIndicators) Validate() error {
	dims := []struct {
		name  string
		value float64
	}{
		{"approach", p.Approach},
		{"deployment", p.Deployment},
		{"learning", p.Learning},
		{"integration", p.Integration},
	}
	for _, d := range dims {
		if d.value < 0 || d.value > 1 {
			return NewInvalidIndicatorError(d.name, d.value)
		}
	}
	return nil
}

// ResultsIndicators holds the four LeTCI dimension values for a results
// item. Each value must be in [0,1].
type ResultsIndicators struct {
	Level       float64 `json:"level"`
	Trend       float64 `json:"trend"`
	Comparison  float64 `json:"comparison"`
	Integration float64 `json:"integration"`
}

// Validate rejects any dimension outside [0,1].
func (r ResultsIndicators) Validate() error {
	dims := []struct {
		name  string
		value float64
	}{
		{"level", r.Level},
		{"trend", r.Trend},
		{"comparison", r.Comparison},
		{"integration", r.Integration},
	}
	for _, d := range dims {
		if d.value < 0 || d.value > 1 {
			return NewInvalidIndicatorError(d.name, d.value)
		}
	}
	return nil
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ProcessScore computes the ADLI item score:
//
//	S = 100 * (wA*A + wD*D + wL*L + wI*I)
//
// The result is in [0,100] when the weights sum to 1 and the indicators
// are in range.
func ProcessScore(ind ProcessIndicators, weights ProcessWeights) (float64, error) {
	if err := ind.Validate(); err != nil {
		return 0, err
	}
	if err := weights.Validate(); err != nil {
		return 0, err
	}

	score := 100 * (weights.Approach*ind.Approach +
		weights.Deployment*ind.Deployment +
		weights.Learning*ind.Learning +
		weights.Integration*ind.Integration)

	return clip(score, 0, 100), nil
}

// ResultsScore computes the LeTCI item score with the same shape as
// ProcessScore over the level, trend, comparison, and integration
// dimensions.
func ResultsScore(ind ResultsIndicators, weights ResultsWeights) (float64, error) {
	if err := ind.Validate(); err != nil {
		return 0, err
	}
	if err := weights.Validate(); err != nil {
		return 0, err
	}

	score := 100 * (weights.Level*ind.Level +
		weights.Trend*ind.Trend +
		weights.Comparison*ind.Comparison +
		weights.Integration*ind.Integration)

	return clip(score, 0, 100), nil
}

// ScoredItem is a scored assessment item as consumed by category
// aggregation. RawValue/RawUnit carry the optional underlying metric for
// results items and are opaque to the scoring math.
type ScoredItem struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	PointValue int     `json:"point_value"`
	Score      float64 `json:"score"`
	RawValue   float64 `json:"raw_value,omitempty"`
	RawUnit    string  `json:"raw_unit,omitempty"`
}

// CategoryScore computes the point-value weighted mean over items sharing
// a category:
//
//	C = sum(v_i * S_i) / sum(v_i)
//
// An empty item list or a zero total point value yields a recoverable
// EmptyCategory error; the caller decides how to proceed rather than
// propagating a NaN.
func CategoryScore(category string, items []ScoredItem) (float64, error) {
	if len(items) == 0 {
		return 0, NewEmptyCategoryError(category)
	}

	var num, den float64
	for _, it := range items {
		num += float64(it.PointValue) * it.Score
		den += float64(it.PointValue)
	}
	if den == 0 {
		return 0, NewEmptyCategoryError(category)
	}

	return num / den, nil
}

// OrganizationalScore computes the weighted sum over the seven category
// scores. Every category named by the weights must be present in scores;
// a missing category is a configuration error, not a skippable item,
// because omission silently changes the effective weight distribution.
func OrganizationalScore(scores map[string]float64, weights CategoryWeights) (float64, error) {
	if err := weights.Validate(); err != nil {
		return 0, err
	}

	wm := weights.Map()
	total := 0.0
	for _, cat := range Categories {
		score, ok := scores[cat]
		if !ok {
			return 0, NewMissingCategoryError(cat)
		}
		total += wm[cat] * score
	}

	return clip(total, 0, 100), nil
}

// IntegrationHealthIndex averages the mean raw process-integration and
// results-integration indicators with a flat 0.5/0.5 split regardless of
// population sizes:
//
//	IHI = 0.5 * (mean(P_I) + mean(R_I))
//
// Inputs are the raw [0,1] integration indicators, not the derived
// [0,100] item scores. Both lists must be non-empty.
func IntegrationHealthIndex(processIntegration, resultsIntegration []float64) (float64, error) {
	if len(processIntegration) == 0 {
		return 0, NewEmptyCategoryError("process integration")
	}
	if len(resultsIntegration) == 0 {
		return 0, NewEmptyCategoryError("results integration")
	}
	for _, v := range processIntegration {
		if v < 0 || v > 1 {
			return 0, NewInvalidIndicatorError("process integration", v)
		}
	}
	for _, v := range resultsIntegration {
		if v < 0 || v > 1 {
			return 0, NewInvalidIndicatorError("results integration", v)
		}
	}

	ihi := 0.5 * (mean(processIntegration) + mean(resultsIntegration))
	return clip(ihi, 0, 1), nil
}

func mean(vs []float64) float64 {
	s := 0.0
	for _, v := range vs {
		s += v
	}
	return s / float64(len(vs))
}

// GapPriority computes the improvement priority for an item:
//
//	G = (target - current) * pointValue * urgency
//
// No range clamp is applied; a current score above target yields a
// negative priority that sorts to the bottom of the ranking.
func GapPriority(current, target float64, pointValue int, urgency float64) (float64, error) {
	if urgency < 0 || urgency > 1 {
		return 0, NewInvalidIndicatorError("deployment urgency", urgency)
	}
	return (target - current) * float64(pointValue) * urgency, nil
}
