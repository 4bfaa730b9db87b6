package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edcellence/edpex-engine/internal/assessment"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// getOrCreateDepartment resolves a department by name, creating it on
// first sight. Runs inside the caller's transaction.
func (r *Repository) getOrCreateDepartment(tx *sql.Tx, name string) (*Department, error) {
	var dept Department
	err := tx.QueryRow(`
		SELECT id, name, created_at FROM departments WHERE name = ?
	`, name).Scan(&dept.ID, &dept.Name, &dept.CreatedAt)

	if err == nil {
		return &dept, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query department: %w", err)
	}

	dept = *NewDepartment(name)
	_, err = tx.Exec(`
		INSERT INTO departments (id, name, created_at) VALUES (?, ?, ?)
	`, dept.ID, dept.Name, dept.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return &dept, nil
}

// SaveAssessment persists a finalized assessment result with its item
// scores and gap priorities in a single transaction.
func (r *Repository) SaveAssessment(result *assessment.Result) (*AssessmentRecord, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dept, err := r.getOrCreateDepartment(tx, result.Department)
	if err != nil {
		return nil, err
	}

	categoryScores, err := json.Marshal(result.CategoryScores)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category scores: %w", err)
	}

	now := time.Now()
	record := &AssessmentRecord{
		ID:                  uuid.New().String(),
		Department:          result.Department,
		Cycle:               result.Cycle,
		OrganizationalScore: result.OrganizationalScore,
		IHI:                 result.IHI,
		MaturityLevel:       result.Maturity.Level,
		MaturityBand:        string(result.Maturity.Band),
		CategoryScores:      result.CategoryScores,
		ProcessItemCount:    result.ProcessItemCount,
		ResultsItemCount:    result.ResultsItemCount,
		CreatedAt:           now,
	}

	_, err = tx.Exec(`
		INSERT INTO assessment_cycles (
			id, department_id, cycle, organizational_score, ihi,
			maturity_level, maturity_band, category_scores,
			process_item_count, results_item_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, dept.ID, record.Cycle, record.OrganizationalScore, record.IHI,
		record.MaturityLevel, record.MaturityBand, string(categoryScores),
		record.ProcessItemCount, record.ResultsItemCount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert assessment: %w", err)
	}

	for _, item := range result.Items {
		var rawValue *float64
		var rawUnit *string
		if item.RawUnit != "" {
			v := item.RawValue
			u := item.RawUnit
			rawValue = &v
			rawUnit = &u
		}

		_, err = tx.Exec(`
			INSERT INTO item_scores (
				id, assessment_id, item_id, category, point_value, score,
				raw_value, raw_unit, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), record.ID, item.ID, item.Category,
			item.PointValue, item.Score, rawValue, rawUnit, now)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item score %q: %w", item.ID, err)
		}
	}

	for _, gap := range result.GapPriorities {
		_, err = tx.Exec(`
			INSERT INTO gap_priorities (
				id, assessment_id, item_id, current_score, target_score,
				point_value, urgency, priority, rank, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), record.ID, gap.ItemID, gap.CurrentScore,
			gap.TargetScore, gap.PointValue, gap.Urgency, gap.Priority,
			gap.Rank, now)
		if err != nil {
			return nil, fmt.Errorf("failed to insert gap priority %q: %w", gap.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit assessment: %w", err)
	}

	return record, nil
}

// GetAssessment loads one assessment with its item scores and gap
// priorities. Returns ErrNotFound if no record matches.
func (r *Repository) GetAssessment(id string) (*AssessmentRecord, error) {
	stmt, err := r.db.GetPreparedStatement("get_assessment")
	if err != nil {
		return nil, err
	}

	var record AssessmentRecord
	var categoryScores string
	err = stmt.QueryRow(id).Scan(
		&record.ID, &record.Department, &record.Cycle,
		&record.OrganizationalScore, &record.IHI,
		&record.MaturityLevel, &record.MaturityBand, &categoryScores,
		&record.ProcessItemCount, &record.ResultsItemCount, &record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment: %w", err)
	}

	if err := json.Unmarshal([]byte(categoryScores), &record.CategoryScores); err != nil {
		return nil, fmt.Errorf("failed to decode category scores: %w", err)
	}

	record.ItemScores, err = r.getItemScores(record.ID)
	if err != nil {
		return nil, err
	}

	record.GapPriorities, err = r.getGapPriorities(record.ID)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *Repository) getItemScores(assessmentID string) ([]ItemScoreRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, assessment_id, item_id, category, point_value, score,
			raw_value, raw_unit, created_at
		FROM item_scores WHERE assessment_id = ? ORDER BY category, item_id
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query item scores: %w", err)
	}
	defer rows.Close()

	var items []ItemScoreRecord
	for rows.Next() {
		var item ItemScoreRecord
		if err := rows.Scan(
			&item.ID, &item.AssessmentID, &item.ItemID, &item.Category,
			&item.PointValue, &item.Score, &item.RawValue, &item.RawUnit,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item score: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *Repository) getGapPriorities(assessmentID string) ([]GapRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, assessment_id, item_id, current_score, target_score,
			point_value, urgency, priority, rank, created_at
		FROM gap_priorities WHERE assessment_id = ? ORDER BY rank ASC
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gap priorities: %w", err)
	}
	defer rows.Close()

	var gaps []GapRecord
	for rows.Next() {
		var gap GapRecord
		if err := rows.Scan(
			&gap.ID, &gap.AssessmentID, &gap.ItemID, &gap.CurrentScore,
			&gap.TargetScore, &gap.PointValue, &gap.Urgency, &gap.Priority,
			&gap.Rank, &gap.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan gap priority: %w", err)
		}
		gaps = append(gaps, gap)
	}

	return gaps, rows.Err()
}

// GetCycleRankings returns departments ranked by organizational score
// within one cycle. Ties resolve to the earlier assessment.
func (r *Repository) GetCycleRankings(cycle string, limit int) ([]RankingRow, error) {
	if limit <= 0 {
		limit = 50
	}

	stmt, err := r.db.GetPreparedStatement("get_cycle_rankings")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(cycle, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var rankings []RankingRow
	for rows.Next() {
		var row RankingRow
		if err := rows.Scan(
			&row.AssessmentID, &row.Department, &row.Cycle,
			&row.OrganizationalScore, &row.IHI, &row.MaturityBand,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		row.Rank = len(rankings) + 1
		rankings = append(rankings, row)
	}

	return rankings, rows.Err()
}

// ListDepartments returns all known departments
func (r *Repository) ListDepartments() ([]Department, error) {
	rows, err := r.db.Query(`SELECT id, name, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, dept)
	}

	return departments, rows.Err()
}
