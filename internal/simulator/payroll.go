package simulator

import "github.com/chrisdamba/customsim/internal/models"

// Payroll returns the pay in dollars for a shift of workedMinutes. Only whole
// hours are paid; hours past the regular shift are paid at the overtime rate.
func Payroll(workedMinutes int) int {
	hours := workedMinutes / 60
	if hours > models.RegularShiftHours {
		return models.RegularShiftHours*models.BaseHourlyRate +
			(hours-models.RegularShiftHours)*models.OvertimeRate
	}
	return hours * models.BaseHourlyRate
}
