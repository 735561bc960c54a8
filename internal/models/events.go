package models

// Wire forms of the simulation output. Every event carries a unix timestamp used
// to partition file outputs.

// ServiceRecordEvent is published once per served group
type ServiceRecordEvent struct {
	Timestamp         int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	RunID             string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	AgentID           int64  `json:"agentId" parquet:"name=agentId,type=INT64"`
	GroupID           string `json:"groupId" parquet:"name=groupId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Sequence          int64  `json:"sequence" parquet:"name=sequence,type=INT64"`
	Adults            int64  `json:"adults" parquet:"name=adults,type=INT64"`
	Children          int64  `json:"children" parquet:"name=children,type=INT64"`
	Domestic          bool   `json:"domestic" parquet:"name=domestic,type=BOOLEAN"`
	WaitMinutes       int64  `json:"waitMinutes" parquet:"name=waitMinutes,type=INT64"`
	ProcessingMinutes int64  `json:"processingMinutes" parquet:"name=processingMinutes,type=INT64"`
	StartMinute       int64  `json:"startMinute" parquet:"name=startMinute,type=INT64"`
	EndMinute         int64  `json:"endMinute" parquet:"name=endMinute,type=INT64"`
}

// AgentShiftEvent is published once per agent after its line has drained
type AgentShiftEvent struct {
	Timestamp     int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	RunID         string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	AgentID       int64  `json:"agentId" parquet:"name=agentId,type=INT64"`
	GroupsServed  int64  `json:"groupsServed" parquet:"name=groupsServed,type=INT64"`
	WorkedMinutes int64  `json:"workedMinutes" parquet:"name=workedMinutes,type=INT64"`
	Hours         int64  `json:"hours" parquet:"name=hours,type=INT64"`
	Payroll       int64  `json:"payroll" parquet:"name=payroll,type=INT64"`
}

// SimulationReportEvent is published once per run
type SimulationReportEvent struct {
	Timestamp          int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	RunID              string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	NumAgents          int64   `json:"numAgents" parquet:"name=numAgents,type=INT64"`
	GroupsProcessed    int64   `json:"groupsProcessed" parquet:"name=groupsProcessed,type=INT64"`
	TotalWorkedMinutes int64   `json:"totalWorkedMinutes" parquet:"name=totalWorkedMinutes,type=INT64"`
	TotalPayroll       int64   `json:"totalPayroll" parquet:"name=totalPayroll,type=INT64"`
	AverageWait        int64   `json:"averageWait" parquet:"name=averageWait,type=INT64"`
	MaxWait            int64   `json:"maxWait" parquet:"name=maxWait,type=INT64"`
	TotalWait          int64   `json:"totalWait" parquet:"name=totalWait,type=INT64"`
	MeanWait           float64 `json:"meanWait" parquet:"name=meanWait,type=DOUBLE"`
	P50Wait            float64 `json:"p50Wait" parquet:"name=p50Wait,type=DOUBLE"`
	P90Wait            float64 `json:"p90Wait" parquet:"name=p90Wait,type=DOUBLE"`
	P99Wait            float64 `json:"p99Wait" parquet:"name=p99Wait,type=DOUBLE"`
}
