package scoring

import "math"

// weightTolerance is the allowed deviation from 1.0 for a weight sum.
const weightTolerance = 1e-6

// ProcessWeights holds the per-dimension weights for ADLI process scoring.
// Weights must sum to 1.0 for the [0,100] score range guarantee to hold.
type ProcessWeights struct {
	Approach    float64 `json:"approach" yaml:"approach"`
	Deployment  float64 `json:"deployment" yaml:"deployment"`
	Learning    float64 `json:"learning" yaml:"learning"`
	Integration float64 `json:"integration" yaml:"integration"`
}

// ResultsWeights holds the per-dimension weights for LeTCI results scoring.
type ResultsWeights struct {
	Level       float64 `json:"level" yaml:"level"`
	Trend       float64 `json:"trend" yaml:"trend"`
	Comparison  float64 `json:"comparison" yaml:"comparison"`
	Integration float64 `json:"integration" yaml:"integration"`
}

// CategoryWeights maps the seven EdPEx categories to their share of the
// organizational score. All seven keys are required.
type CategoryWeights struct {
	Leadership  float64 `json:"leadership" yaml:"leadership"`
	Strategy    float64 `json:"strategy" yaml:"strategy"`
	Customers   float64 `json:"customers" yaml:"customers"`
	Measurement float64 `json:"measurement" yaml:"measurement"`
	Workforce   float64 `json:"workforce" yaml:"workforce"`
	Operations  float64 `json:"operations" yaml:"operations"`
	Results     float64 `json:"results" yaml:"results"`
}

// DefaultProcessWeights returns the NIST Baldrige default ADLI weights.
func DefaultProcessWeights() ProcessWeights {
	return ProcessWeights{
		Approach:    0.30,
		Deployment:  0.30,
		Learning:    0.20,
		Integration: 0.20,
	}
}

// DefaultResultsWeights returns the Baldrige default LeTCI weights.
// Level carries the largest share as the primary performance indicator.
func DefaultResultsWeights() ResultsWeights {
	return ResultsWeights{
		Level:       0.40,
		Trend:       0.25,
		Comparison:  0.25,
		Integration: 0.10,
	}
}

// DefaultCategoryWeights returns the EdPEx category weight distribution.
func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{
		Leadership:  0.12,
		Strategy:    0.085,
		Customers:   0.085,
		Measurement: 0.10,
		Workforce:   0.10,
		Operations:  0.15,
		Results:     0.36,
	}
}

// Sum returns the total of the four dimension weights.
func (w ProcessWeights) Sum() float64 {
	return w.Approach + w.Deployment + w.Learning + w.Integration
}

// Validate checks that the weights sum to 1.0 within tolerance.
func (w ProcessWeights) Validate() error {
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return NewInvalidWeightError("process", w.Sum())
	}
	return nil
}

// Sum returns the total of the four dimension weights.
func (w ResultsWeights) Sum() float64 {
	return w.Level + w.Trend + w.Comparison + w.Integration
}

// Validate checks that the weights sum to 1.0 within tolerance.
func (w ResultsWeights) Validate() error {
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return NewInvalidWeightError("results", w.Sum())
	}
	return nil
}

// Sum returns the total of the seven category weights.
func (w CategoryWeights) Sum() float64 {
	return w.Leadership + w.Strategy + w.Customers + w.Measurement +
		w.Workforce + w.Operations + w.Results
}

// Validate checks that the weights sum to 1.0 within tolerance.
func (w CategoryWeights) Validate() error {
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return NewInvalidWeightError("category", w.Sum())
	}
	return nil
}

// Map returns the category weights keyed by canonical category name.
func (w CategoryWeights) Map() map[string]float64 {
	return map[string]float64{
		CategoryLeadership:  w.Leadership,
		CategoryStrategy:    w.Strategy,
		CategoryCustomers:   w.Customers,
		CategoryMeasurement: w.Measurement,
		CategoryWorkforce:   w.Workforce,
		CategoryOperations:  w.Operations,
		CategoryResults:     w.Results,
	}
}
