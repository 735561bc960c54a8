package models

const (
	DefaultNumAgents = 10
	DefaultNumGroups = 1000

	RegularShiftHours = 8
	BaseHourlyRate    = 20 // dollars
	OvertimeRate      = 30 // dollars, 1.5x the base rate

	TopicServiceRecords    = "service_records"
	TopicAgentShifts       = "agent_shifts"
	TopicSimulationReports = "simulation_reports"

	OutputFormatNone    = "none"
	OutputFormatConsole = "console"
	OutputFormatJSON    = "json"
	OutputFormatCSV     = "csv"
	OutputFormatParquet = "parquet"

	OutputDestinationLocal = "local"
	OutputDestinationS3    = "s3"
)
