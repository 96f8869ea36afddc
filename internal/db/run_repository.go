package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one server session: from start until shutdown.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
	Loops      int
}

// EncounterRecord is one completed encounter.
type EncounterRecord struct {
	Scene       string
	Loop        int
	Enemies     int
	Hits        int
	DamageDealt float64
	DamageTaken float64
	Duration    time.Duration
	CompletedAt time.Time
}

// RunRepository persists runs and their encounters.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// StartRun inserts a new run and returns its id.
func (r *RunRepository) StartRun(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `INSERT INTO runs (id) VALUES ($1)`, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// RecordEncounter stores a completed encounter under runID.
func (r *RunRepository) RecordEncounter(ctx context.Context, runID uuid.UUID, rec EncounterRecord) error {
	completedAt := rec.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO encounters
		   (run_id, scene, loop_index, enemies, hits, damage_dealt, damage_taken, duration_ms, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		runID, rec.Scene, rec.Loop, rec.Enemies, rec.Hits,
		rec.DamageDealt, rec.DamageTaken, rec.Duration.Milliseconds(), completedAt)
	if err != nil {
		return fmt.Errorf("inserting encounter for run %s: %w", runID, err)
	}
	return nil
}

// FinishRun stamps the run's end time and loop count.
func (r *RunRepository) FinishRun(ctx context.Context, runID uuid.UUID, loops int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE runs SET finished_at = now(), loops = $2 WHERE id = $1`,
		runID, loops)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finishing run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// GetRun loads a run by id.
func (r *RunRepository) GetRun(ctx context.Context, runID uuid.UUID) (Run, error) {
	var run Run
	err := r.pool.QueryRow(ctx,
		`SELECT id, started_at, finished_at, loops FROM runs WHERE id = $1`, runID,
	).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Loops)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, fmt.Errorf("loading run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return run, nil
}

// ListEncounters returns a run's encounters in completion order.
func (r *RunRepository) ListEncounters(ctx context.Context, runID uuid.UUID) ([]EncounterRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT scene, loop_index, enemies, hits, damage_dealt, damage_taken, duration_ms, completed_at
		 FROM encounters WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query encounters for run %s: %w", runID, err)
	}
	defer rows.Close()

	var result []EncounterRecord
	for rows.Next() {
		var rec EncounterRecord
		var durationMS int64
		if err := rows.Scan(&rec.Scene, &rec.Loop, &rec.Enemies, &rec.Hits,
			&rec.DamageDealt, &rec.DamageTaken, &durationMS, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		result = append(result, rec)
	}
	return result, rows.Err()
}
