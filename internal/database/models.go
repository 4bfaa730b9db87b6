package database

import (
	"time"

	"github.com/google/uuid"
)

// Department is an assessed organizational unit
type Department struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AssessmentRecord is one persisted assessment run of a department in a
// cycle. CategoryScores is stored as a JSON object keyed by category.
type AssessmentRecord struct {
	ID                  string             `json:"id" db:"id"`
	Department          string             `json:"department" db:"department"`
	Cycle               string             `json:"cycle" db:"cycle"`
	OrganizationalScore float64            `json:"organizational_score" db:"organizational_score"`
	IHI                 float64            `json:"ihi" db:"ihi"`
	MaturityLevel       int                `json:"maturity_level" db:"maturity_level"`
	MaturityBand        string             `json:"maturity_band" db:"maturity_band"`
	CategoryScores      map[string]float64 `json:"category_scores" db:"-"`
	ProcessItemCount    int                `json:"process_item_count" db:"process_item_count"`
	ResultsItemCount    int                `json:"results_item_count" db:"results_item_count"`
	ItemScores          []ItemScoreRecord  `json:"item_scores,omitempty" db:"-"`
	GapPriorities       []GapRecord        `json:"gap_priorities,omitempty" db:"-"`
	CreatedAt           time.Time          `json:"created_at" db:"created_at"`
}

// ItemScoreRecord is a persisted per-item score
type ItemScoreRecord struct {
	ID           string    `json:"id" db:"id"`
	AssessmentID string    `json:"-" db:"assessment_id"`
	ItemID       string    `json:"item_id" db:"item_id"`
	Category     string    `json:"category" db:"category"`
	PointValue   int       `json:"point_value" db:"point_value"`
	Score        float64   `json:"score" db:"score"`
	RawValue     *float64  `json:"raw_value,omitempty" db:"raw_value"`
	RawUnit      *string   `json:"raw_unit,omitempty" db:"raw_unit"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// GapRecord is a persisted ranked improvement priority
type GapRecord struct {
	ID           string    `json:"id" db:"id"`
	AssessmentID string    `json:"-" db:"assessment_id"`
	ItemID       string    `json:"item_id" db:"item_id"`
	CurrentScore float64   `json:"current_score" db:"current_score"`
	TargetScore  float64   `json:"target_score" db:"target_score"`
	PointValue   int       `json:"point_value" db:"point_value"`
	Urgency      float64   `json:"urgency" db:"urgency"`
	Priority     float64   `json:"priority" db:"priority"`
	Rank         int       `json:"rank" db:"rank"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RankingRow is a department's standing within one cycle
type RankingRow struct {
	AssessmentID        string    `json:"assessment_id"`
	Department          string    `json:"department"`
	Cycle               string    `json:"cycle"`
	OrganizationalScore float64   `json:"organizational_score"`
	IHI                 float64   `json:"ihi"`
	MaturityBand        string    `json:"maturity_band"`
	Rank                int       `json:"rank"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewDepartment creates a department with a generated ID
func NewDepartment(name string) *Department {
	return &Department{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}
