package models

import "time"

// ServiceRecord describes how one group was served by its agent.
type ServiceRecord struct {
	RunID             string
	AgentID           int
	GroupID           string
	Sequence          int // position in the agent's line
	Adults            int
	Children          int
	Domestic          bool
	WaitMinutes       int
	ProcessingMinutes int
	StartMinute       int
	EndMinute         int
	Timestamp         time.Time // simulated wall clock at StartMinute
}

// EventMessage is a serialized event bound for an output topic
type EventMessage struct {
	Topic   string
	Message []byte
}
