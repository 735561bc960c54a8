package simulator

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/customsim/internal/models"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrUnknownTopic = errors.New("unknown topic")

func serializeRecord(record *models.ServiceRecord) (models.EventMessage, error) {
	event := models.ServiceRecordEvent{
		Timestamp:         record.Timestamp.Unix(),
		RunID:             record.RunID,
		AgentID:           int64(record.AgentID),
		GroupID:           record.GroupID,
		Sequence:          int64(record.Sequence),
		Adults:            int64(record.Adults),
		Children:          int64(record.Children),
		Domestic:          record.Domestic,
		WaitMinutes:       int64(record.WaitMinutes),
		ProcessingMinutes: int64(record.ProcessingMinutes),
		StartMinute:       int64(record.StartMinute),
		EndMinute:         int64(record.EndMinute),
	}
	return marshalEvent(models.TopicServiceRecords, event)
}

func serializeShift(runID string, at time.Time, shift models.AgentShift) (models.EventMessage, error) {
	event := models.AgentShiftEvent{
		Timestamp:     at.Unix(),
		RunID:         runID,
		AgentID:       int64(shift.AgentID),
		GroupsServed:  int64(shift.GroupsServed),
		WorkedMinutes: int64(shift.WorkedMinutes),
		Hours:         int64(shift.Hours),
		Payroll:       int64(shift.Payroll),
	}
	return marshalEvent(models.TopicAgentShifts, event)
}

func serializeReport(at time.Time, numAgents int, report *models.Report) (models.EventMessage, error) {
	event := models.SimulationReportEvent{
		Timestamp:          at.Unix(),
		RunID:              report.RunID,
		NumAgents:          int64(numAgents),
		GroupsProcessed:    int64(report.GroupsProcessed),
		TotalWorkedMinutes: int64(report.TotalWorkedMinutes),
		TotalPayroll:       int64(report.TotalPayroll),
		AverageWait:        int64(report.AverageWait),
		MaxWait:            int64(report.MaxWait),
		TotalWait:          int64(report.TotalWait),
		MeanWait:           report.Waits.Mean,
		P50Wait:            report.Waits.P50,
		P90Wait:            report.Waits.P90,
		P99Wait:            report.Waits.P99,
	}
	return marshalEvent(models.TopicSimulationReports, event)
}

func marshalEvent(topic string, event interface{}) (models.EventMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return models.EventMessage{}, fmt.Errorf("error serializing %s event: %w", topic, err)
	}
	return models.EventMessage{Topic: topic, Message: data}, nil
}

// decodeEventRow decodes msg into the wire type published on topic
func decodeEventRow(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case models.TopicServiceRecords:
		var event models.ServiceRecordEvent
		err := json.Unmarshal(msg, &event)
		return event, err
	case models.TopicAgentShifts:
		var event models.AgentShiftEvent
		err := json.Unmarshal(msg, &event)
		return event, err
	case models.TopicSimulationReports:
		var event models.SimulationReportEvent
		err := json.Unmarshal(msg, &event)
		return event, err
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
}

// schemaObject returns a pointer to an empty value of the wire type published
// on topic, as expected by the parquet writer
func schemaObject(topic string) (interface{}, error) {
	switch topic {
	case models.TopicServiceRecords:
		return new(models.ServiceRecordEvent), nil
	case models.TopicAgentShifts:
		return new(models.AgentShiftEvent), nil
	case models.TopicSimulationReports:
		return new(models.SimulationReportEvent), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
}
