package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/customsim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS simulation_runs (
        run_id               TEXT PRIMARY KEY,
        finished_at          TIMESTAMPTZ NOT NULL,
        num_agents           BIGINT NOT NULL,
        groups_processed     BIGINT NOT NULL,
        total_worked_minutes BIGINT NOT NULL,
        total_payroll        BIGINT NOT NULL,
        average_wait         BIGINT NOT NULL,
        max_wait             BIGINT NOT NULL,
        total_wait           BIGINT NOT NULL,
        mean_wait            DOUBLE PRECISION NOT NULL,
        p50_wait             DOUBLE PRECISION NOT NULL,
        p90_wait             DOUBLE PRECISION NOT NULL,
        p99_wait             DOUBLE PRECISION NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS agent_shifts (
        run_id         TEXT NOT NULL,
        agent_id       BIGINT NOT NULL,
        shift_end      TIMESTAMPTZ NOT NULL,
        groups_served  BIGINT NOT NULL,
        worked_minutes BIGINT NOT NULL,
        hours          BIGINT NOT NULL,
        payroll        BIGINT NOT NULL,
        PRIMARY KEY (run_id, agent_id)
    )`,
	`CREATE TABLE IF NOT EXISTS service_records (
        run_id             TEXT NOT NULL,
        agent_id           BIGINT NOT NULL,
        sequence           BIGINT NOT NULL,
        group_id           TEXT NOT NULL,
        started_at         TIMESTAMPTZ NOT NULL,
        adults             BIGINT NOT NULL,
        children           BIGINT NOT NULL,
        domestic           BOOLEAN NOT NULL,
        wait_minutes       BIGINT NOT NULL,
        processing_minutes BIGINT NOT NULL,
        start_minute       BIGINT NOT NULL,
        end_minute         BIGINT NOT NULL,
        PRIMARY KEY (run_id, agent_id, sequence)
    )`,
}

var serviceRecordColumns = []string{
	"run_id", "agent_id", "sequence", "group_id", "started_at",
	"adults", "children", "domestic", "wait_minutes",
	"processing_minutes", "start_minute", "end_minute",
}

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Connect opens a pool for dsn and verifies it is reachable
func Connect(ctx context.Context, dsn string) (*RunRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return NewRunRepository(pool), nil
}

func (r *RunRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (r *RunRepository) BulkCreateRecords(ctx context.Context, records []*models.ServiceRecordEvent) error {
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"service_records"},
		serviceRecordColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return serviceRecordRow(records[i]), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy %d service records: %w", len(records), err)
	}
	return nil
}

func serviceRecordRow(record *models.ServiceRecordEvent) []any {
	return []any{
		record.RunID,
		record.AgentID,
		record.Sequence,
		record.GroupID,
		time.Unix(record.Timestamp, 0).UTC(),
		record.Adults,
		record.Children,
		record.Domestic,
		record.WaitMinutes,
		record.ProcessingMinutes,
		record.StartMinute,
		record.EndMinute,
	}
}

func (r *RunRepository) CreateShift(ctx context.Context, shift *models.AgentShiftEvent) error {
	query := `
        INSERT INTO agent_shifts (
            run_id, agent_id, shift_end, groups_served, worked_minutes, hours, payroll
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		shift.RunID,
		shift.AgentID,
		time.Unix(shift.Timestamp, 0).UTC(),
		shift.GroupsServed,
		shift.WorkedMinutes,
		shift.Hours,
		shift.Payroll,
	)
	return err
}

func (r *RunRepository) CreateReport(ctx context.Context, report *models.SimulationReportEvent) error {
	query := `
        INSERT INTO simulation_runs (
            run_id, finished_at, num_agents, groups_processed, total_worked_minutes,
            total_payroll, average_wait, max_wait, total_wait,
            mean_wait, p50_wait, p90_wait, p99_wait
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		report.RunID,
		time.Unix(report.Timestamp, 0).UTC(),
		report.NumAgents,
		report.GroupsProcessed,
		report.TotalWorkedMinutes,
		report.TotalPayroll,
		report.AverageWait,
		report.MaxWait,
		report.TotalWait,
		report.MeanWait,
		report.P50Wait,
		report.P90Wait,
		report.P99Wait,
	)
	return err
}

func (r *RunRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM simulation_runs").Scan(&count)
	return count, err
}

func (r *RunRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE service_records, agent_shifts, simulation_runs")
	return err
}

func (r *RunRepository) Close() {
	r.pool.Close()
}
