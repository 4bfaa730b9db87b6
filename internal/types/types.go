package types

import "github.com/edcellence/edpex-engine/internal/scoring"

// ProcessItem is an unscored process assessment item handed to the
// engine: ADLI indicators plus Baldrige metadata.
type ProcessItem struct {
	ID            string                    `json:"id" binding:"required"`
	Category      string                    `json:"category" binding:"required"`
	PointValue    int                       `json:"point_value" binding:"required"`
	Indicators    scoring.ProcessIndicators `json:"indicators"`
	DeploymentGap float64                   `json:"deployment_gap"`
	TargetScore   float64                   `json:"target_score,omitempty"`
}

// ResultsItem is an unscored results assessment item: LeTCI indicators
// plus an optional raw metric value and unit carried through for
// reporting.
type ResultsItem struct {
	ID            string                    `json:"id" binding:"required"`
	Category      string                    `json:"category" binding:"required"`
	PointValue    int                       `json:"point_value" binding:"required"`
	Indicators    scoring.ResultsIndicators `json:"indicators"`
	DeploymentGap float64                   `json:"deployment_gap"`
	TargetScore   float64                   `json:"target_score,omitempty"`
	RawValue      float64                   `json:"raw_value,omitempty"`
	RawUnit       string                    `json:"raw_unit,omitempty"`
}

// AssessRequest is the request body for the assess endpoint and the
// shape of JSON batch input files.
type AssessRequest struct {
	Department   string        `json:"department" binding:"required"`
	Cycle        string        `json:"cycle" binding:"required"`
	ProcessItems []ProcessItem `json:"process_items"`
	ResultsItems []ResultsItem `json:"results_items"`
}
