package output_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/customsim/internal/models"
	"github.com/chrisdamba/customsim/internal/output"
)

type fakeRepository struct {
	batches [][]string // group ids per bulk copy
	shifts  []*models.AgentShiftEvent
	reports []*models.SimulationReportEvent
	closed  bool
	bulkErr error
}

func (f *fakeRepository) Migrate(ctx context.Context) error { return nil }

func (f *fakeRepository) BulkCreateRecords(ctx context.Context, records []*models.ServiceRecordEvent) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.GroupID
	}
	f.batches = append(f.batches, ids)
	return nil
}

func (f *fakeRepository) CreateShift(ctx context.Context, shift *models.AgentShiftEvent) error {
	f.shifts = append(f.shifts, shift)
	return nil
}

func (f *fakeRepository) CreateReport(ctx context.Context, report *models.SimulationReportEvent) error {
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeRepository) Count(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeRepository) DeleteAll(ctx context.Context) error    { return nil }
func (f *fakeRepository) Close()                                 { f.closed = true }

func Test_PostgresOutput_BatchesServiceRecords(t *testing.T) {
	repo := &fakeRepository{}
	out := output.NewPostgresOutputWithRepository(repo, 2)

	for _, id := range []string{"a", "b", "c"} {
		msg := []byte(`{"timestamp":1704096000,"runId":"run","agentId":0,"groupId":"` + id + `"}`)
		require.NoError(t, out.WriteMessage(models.TopicServiceRecords, msg))
	}
	assert.Equal(t, [][]string{{"a", "b"}}, repo.batches)
	assert.False(t, repo.closed)

	require.NoError(t, out.Close())
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, repo.batches)
	assert.True(t, repo.closed)
}

func Test_PostgresOutput_RoutesShiftsAndReports(t *testing.T) {
	repo := &fakeRepository{}
	out := output.NewPostgresOutputWithRepository(repo, 10)

	require.NoError(t, out.WriteMessage(models.TopicAgentShifts,
		[]byte(`{"timestamp":1704124800,"runId":"run","agentId":4,"workedMinutes":540,"hours":9,"payroll":190}`)))
	require.NoError(t, out.WriteMessage(models.TopicSimulationReports,
		[]byte(`{"timestamp":1704124800,"runId":"run","numAgents":10,"totalPayroll":1900,"p90Wait":12.5}`)))

	require.Len(t, repo.shifts, 1)
	assert.Equal(t, int64(4), repo.shifts[0].AgentID)
	assert.Equal(t, int64(190), repo.shifts[0].Payroll)

	require.Len(t, repo.reports, 1)
	assert.Equal(t, int64(1900), repo.reports[0].TotalPayroll)
	assert.Equal(t, 12.5, repo.reports[0].P90Wait)

	require.NoError(t, out.Close())
	assert.Empty(t, repo.batches)
}

func Test_PostgresOutput_Errors(t *testing.T) {
	failure := errors.New("copy failed")
	repo := &fakeRepository{bulkErr: failure}
	out := output.NewPostgresOutputWithRepository(repo, 1)

	assert.Error(t, out.WriteMessage("passengers", []byte(`{}`)))
	assert.Error(t, out.WriteMessage(models.TopicAgentShifts, []byte(`not json`)))
	assert.ErrorIs(t, out.WriteMessage(models.TopicServiceRecords, []byte(`{"groupId":"a"}`)), failure)

	assert.ErrorIs(t, out.Close(), failure)
	assert.True(t, repo.closed)
}
