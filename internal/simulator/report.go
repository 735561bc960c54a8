package simulator

import (
	"fmt"
	"io"

	"github.com/chrisdamba/customsim/internal/models"
)

// WriteReport prints the three summary lines of a run.
func WriteReport(w io.Writer, report *models.Report) error {
	if _, err := fmt.Fprintf(w, "Total payroll costs for all agents: %d dollars\n", report.TotalPayroll); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Average wait time: %d minutes\n", report.AverageWait); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Max wait time: %d minutes\n", report.MaxWait)
	return err
}
