package simulator_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/customsim/internal/models"
	"github.com/chrisdamba/customsim/internal/simulator"
)

func Test_WriteReport(t *testing.T) {
	var buf bytes.Buffer
	report := &models.Report{TotalPayroll: 1520, AverageWait: 97, MaxWait: 205}

	require.NoError(t, simulator.WriteReport(&buf, report))

	expected := "Total payroll costs for all agents: 1520 dollars\n" +
		"Average wait time: 97 minutes\n" +
		"Max wait time: 205 minutes\n"
	assert.Equal(t, expected, buf.String())
}
