package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool creates a new database connection pool
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// NewDB creates a new database connection with optimized pooling
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "edpex_engine.db")

	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool := NewConnectionPool(db, 25, 5, 5*time.Minute)

	database := &DB{
		DB:       db,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized with connection pooling",
		"path", dbPath,
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns)

	return database, nil
}

// migrate creates the necessary tables
func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS departments (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL
		)`,

		// One row per finalized assessment run of a department in a cycle
		`CREATE TABLE IF NOT EXISTS assessment_cycles (
			id TEXT PRIMARY KEY,
			department_id TEXT NOT NULL,
			cycle TEXT NOT NULL,
			organizational_score REAL NOT NULL,
			ihi REAL NOT NULL,
			maturity_level INTEGER NOT NULL,
			maturity_band TEXT NOT NULL,
			category_scores TEXT NOT NULL, -- JSON map of category -> score
			process_item_count INTEGER NOT NULL,
			results_item_count INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (department_id) REFERENCES departments(id)
		)`,

		`CREATE TABLE IF NOT EXISTS item_scores (
			id TEXT PRIMARY KEY,
			assessment_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			category TEXT NOT NULL,
			point_value INTEGER NOT NULL,
			score REAL NOT NULL,
			raw_value REAL,
			raw_unit TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (assessment_id) REFERENCES assessment_cycles(id)
		)`,

		`CREATE TABLE IF NOT EXISTS gap_priorities (
			id TEXT PRIMARY KEY,
			assessment_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			current_score REAL NOT NULL,
			target_score REAL NOT NULL,
			point_value INTEGER NOT NULL,
			urgency REAL NOT NULL,
			priority REAL NOT NULL,
			rank INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (assessment_id) REFERENCES assessment_cycles(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_departments_name ON departments(name)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_department ON assessment_cycles(department_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_cycle ON assessment_cycles(cycle)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_score ON assessment_cycles(cycle, organizational_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_item_scores_assessment ON item_scores(assessment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_gap_priorities_assessment ON gap_priorities(assessment_id, rank)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// initPreparedStatements initializes frequently used prepared statements
func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		"insert_department": `INSERT INTO departments (id, name, created_at)
			VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`,

		"get_department_by_name": `SELECT id, name, created_at
			FROM departments WHERE name = ?`,

		"insert_assessment": `INSERT INTO assessment_cycles (
			id, department_id, cycle, organizational_score, ihi,
			maturity_level, maturity_band, category_scores,
			process_item_count, results_item_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"insert_item_score": `INSERT INTO item_scores (
			id, assessment_id, item_id, category, point_value, score,
			raw_value, raw_unit, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"insert_gap_priority": `INSERT INTO gap_priorities (
			id, assessment_id, item_id, current_score, target_score,
			point_value, urgency, priority, rank, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"get_assessment": `SELECT a.id, d.name, a.cycle, a.organizational_score,
			a.ihi, a.maturity_level, a.maturity_band, a.category_scores,
			a.process_item_count, a.results_item_count, a.created_at
			FROM assessment_cycles a
			JOIN departments d ON d.id = a.department_id
			WHERE a.id = ?`,

		"get_cycle_rankings": `SELECT a.id, d.name, a.cycle,
			a.organizational_score, a.ihi, a.maturity_band, a.created_at
			FROM assessment_cycles a
			JOIN departments d ON d.id = a.department_id
			WHERE a.cycle = ?
			ORDER BY a.organizational_score DESC, a.created_at ASC
			LIMIT ?`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt

		slog.Debug("Prepared statement initialized", "name", name)
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	return db.pool.GetStats()
}

// Close closes the database connection and prepared statements
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}

	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}
