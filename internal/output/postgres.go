package output

import (
	"context"
	"fmt"

	"github.com/chrisdamba/customsim/internal/models"
	"github.com/chrisdamba/customsim/internal/repositories"
	"github.com/chrisdamba/customsim/internal/repositories/postgres"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PostgresOutput stores simulation events through a RunRepository. Service
// records are buffered and copied in bulk; shifts and reports are inserted as
// they arrive.
type PostgresOutput struct {
	repo      repositories.RunRepository
	batchSize int
	pending   []*models.ServiceRecordEvent
}

func NewPostgresOutput(ctx context.Context, config *models.Config) (*PostgresOutput, error) {
	repo, err := postgres.Connect(ctx, config.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, err
	}

	logrus.Info("postgres output ready")
	return NewPostgresOutputWithRepository(repo, config.BatchSize), nil
}

func NewPostgresOutputWithRepository(repo repositories.RunRepository, batchSize int) *PostgresOutput {
	if batchSize < 1 {
		batchSize = 1
	}
	return &PostgresOutput{
		repo:      repo,
		batchSize: batchSize,
		pending:   make([]*models.ServiceRecordEvent, 0, batchSize),
	}
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	ctx := context.Background()

	switch topic {
	case models.TopicServiceRecords:
		var record models.ServiceRecordEvent
		if err := json.Unmarshal(msg, &record); err != nil {
			return fmt.Errorf("failed to decode service record: %w", err)
		}
		p.pending = append(p.pending, &record)
		if len(p.pending) >= p.batchSize {
			return p.flush(ctx)
		}
		return nil

	case models.TopicAgentShifts:
		var shift models.AgentShiftEvent
		if err := json.Unmarshal(msg, &shift); err != nil {
			return fmt.Errorf("failed to decode agent shift: %w", err)
		}
		if err := p.repo.CreateShift(ctx, &shift); err != nil {
			return fmt.Errorf("failed to insert into agent_shifts: %w", err)
		}
		return nil

	case models.TopicSimulationReports:
		var report models.SimulationReportEvent
		if err := json.Unmarshal(msg, &report); err != nil {
			return fmt.Errorf("failed to decode simulation report: %w", err)
		}
		if err := p.repo.CreateReport(ctx, &report); err != nil {
			return fmt.Errorf("failed to insert into simulation_runs: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("no table for topic %s", topic)
	}
}

func (p *PostgresOutput) flush(ctx context.Context) error {
	if len(p.pending) == 0 {
		return nil
	}
	if err := p.repo.BulkCreateRecords(ctx, p.pending); err != nil {
		return err
	}
	p.pending = p.pending[:0]
	return nil
}

func (p *PostgresOutput) Close() error {
	defer p.repo.Close()
	return p.flush(context.Background())
}
