package scoring

import "fmt"

// MaturityBand is one of the five ordered maturity labels summarizing an
// organizational score range.
type MaturityBand string

const (
	BandReactive        MaturityBand = "Reactive"
	BandEarlySystematic MaturityBand = "EarlySystematic"
	BandAligned         MaturityBand = "Aligned"
	BandIntegrated      MaturityBand = "Integrated"
	BandRoleModel       MaturityBand = "RoleModel"
)

// Maturity describes a classified score: the ordinal level (1..5), the
// band label, a short description, and the band's score range.
type Maturity struct {
	Level       int          `json:"level"`
	Band        MaturityBand `json:"band"`
	Description string       `json:"description"`
	Lower       float64      `json:"lower"`
	Upper       float64      `json:"upper"`
}

// Band boundaries are inclusive on the lower bound and exclusive on the
// upper bound, except the final band which is closed on both ends.
var maturityBands = []Maturity{
	{Level: 1, Band: BandReactive, Description: "Activity-based, undocumented", Lower: 0, Upper: 21},
	{Level: 2, Band: BandEarlySystematic, Description: "Initial process definitions", Lower: 21, Upper: 41},
	{Level: 3, Band: BandAligned, Description: "Systematic, deployed across units", Lower: 41, Upper: 61},
	{Level: 4, Band: BandIntegrated, Description: "Well-deployed, strategic alignment", Lower: 61, Upper: 86},
	{Level: 5, Band: BandRoleModel, Description: "Innovative, benchmarked, sustained", Lower: 86, Upper: 100},
}

// ClassifyMaturity maps a [0,100] organizational score to its maturity
// band. Scores outside [0,100] are rejected.
func ClassifyMaturity(score float64) (Maturity, error) {
	if score < 0 || score > 100 {
		return Maturity{}, NewInvalidIndicatorError("organizational score", score)
	}

	last := len(maturityBands) - 1
	for i, b := range maturityBands {
		if i == last {
			// final band is closed: [86,100]
			return b, nil
		}
		if score >= b.Lower && score < b.Upper {
			return b, nil
		}
	}

	// unreachable given the range check above
	return Maturity{}, fmt.Errorf("score %g outside maturity bands", score)
}
