package repositories

import (
	"context"

	"github.com/chrisdamba/customsim/internal/models"
)

// RunRepository persists the events of simulation runs.
type RunRepository interface {
	Migrate(ctx context.Context) error
	BulkCreateRecords(ctx context.Context, records []*models.ServiceRecordEvent) error
	CreateShift(ctx context.Context, shift *models.AgentShiftEvent) error
	CreateReport(ctx context.Context, report *models.SimulationReportEvent) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
	Close()
}
