package models

// AgentShift summarizes one agent's working day.
type AgentShift struct {
	AgentID       int `json:"agentId"`
	GroupsServed  int `json:"groupsServed"`
	WorkedMinutes int `json:"workedMinutes"`
	Hours         int `json:"hours"`
	Payroll       int `json:"payroll"` // dollars
}

// WaitDistribution describes the wait times of every group in a run, in minutes.
type WaitDistribution struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	P99  float64 `json:"p99"`
}

// Report aggregates a finished simulation run.
type Report struct {
	RunID              string           `json:"runId"`
	TotalWorkedMinutes int              `json:"totalWorkedMinutes"`
	TotalPayroll       int              `json:"totalPayroll"`
	AverageWait        int              `json:"averageWait"` // 0 when no group was processed
	MaxWait            int              `json:"maxWait"`
	GroupsProcessed    int              `json:"groupsProcessed"`
	TotalWait          int              `json:"totalWait"`
	Shifts             []AgentShift     `json:"shifts"`
	Waits              WaitDistribution `json:"waits"`
}

// HasData reports whether any group was served during the run
func (r *Report) HasData() bool {
	return r.GroupsProcessed > 0
}
