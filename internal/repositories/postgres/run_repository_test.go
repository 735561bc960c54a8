package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/customsim/internal/models"
)

func Test_serviceRecordRow_MatchesColumns(t *testing.T) {
	record := &models.ServiceRecordEvent{
		Timestamp:         1704096000,
		RunID:             "run",
		AgentID:           2,
		GroupID:           "g",
		Sequence:          5,
		Adults:            1,
		Children:          3,
		Domestic:          false,
		WaitMinutes:       12,
		ProcessingMinutes: 4,
		StartMinute:       12,
		EndMinute:         16,
	}

	row := serviceRecordRow(record)
	require.Len(t, row, len(serviceRecordColumns))
	assert.Equal(t, "run", row[0])
	assert.Equal(t, int64(5), row[2])
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), row[4])
	assert.Equal(t, int64(16), row[11])
}

// Runs against a live database when CUSTOMSIM_TEST_POSTGRES_DSN is set.
func Test_RunRepository_Integration(t *testing.T) {
	dsn := os.Getenv("CUSTOMSIM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CUSTOMSIM_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := Connect(ctx, dsn)
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.DeleteAll(ctx))

	records := []*models.ServiceRecordEvent{
		{Timestamp: 1704096000, RunID: "run", AgentID: 0, Sequence: 0, GroupID: "a", Adults: 2, Domestic: true, ProcessingMinutes: 2, EndMinute: 2},
		{Timestamp: 1704096120, RunID: "run", AgentID: 0, Sequence: 1, GroupID: "b", Adults: 1, Children: 3, WaitMinutes: 2, ProcessingMinutes: 4, StartMinute: 2, EndMinute: 6},
	}
	require.NoError(t, repo.BulkCreateRecords(ctx, records))
	require.NoError(t, repo.CreateShift(ctx, &models.AgentShiftEvent{
		Timestamp: 1704096360, RunID: "run", AgentID: 0, GroupsServed: 2, WorkedMinutes: 6,
	}))
	require.NoError(t, repo.CreateReport(ctx, &models.SimulationReportEvent{
		Timestamp: 1704096360, RunID: "run", NumAgents: 1, GroupsProcessed: 2,
		TotalWorkedMinutes: 6, AverageWait: 1, MaxWait: 2, TotalWait: 2, MeanWait: 1,
	}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteAll(ctx))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
