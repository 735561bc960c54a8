package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/chrisdamba/customsim/internal/factories"
	"github.com/chrisdamba/customsim/internal/models"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

type Simulator struct {
	Config  *models.Config
	RunID   string
	Agents  []*models.Agent
	Records *models.RecordQueue
	Logger  logrus.FieldLogger

	// Output receives the run's events. When nil, Run opens the destination
	// described by Config. Run closes it either way.
	Output OutputDestination

	groupFactory *factories.GroupFactory
	shifts       []models.AgentShift
	waits        []int
}

func NewSimulator(config *models.Config) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := &Simulator{
		Config:       config,
		RunID:        uuid.NewString(),
		Agents:       make([]*models.Agent, config.NumAgents),
		Records:      models.NewRecordQueue(),
		Logger:       logrus.StandardLogger(),
		groupFactory: factories.NewGroupFactory(rand.NewSource(seed)),
	}
	for i := range sim.Agents {
		sim.Agents[i] = models.NewAgent(i)
	}
	return sim, nil
}

// Setup creates the groups and lines them up, group i going to agent i mod the
// number of agents.
func (s *Simulator) Setup() {
	for i := 0; i < s.Config.NumGroups; i++ {
		s.Agents[i%len(s.Agents)].Enqueue(s.groupFactory.CreateGroup())
	}
	s.Logger.WithFields(logrus.Fields{
		"run_id": s.RunID,
		"agents": len(s.Agents),
		"groups": s.Config.NumGroups,
	}).Info("groups assigned")
}

// Replay serves every agent's line to completion, one agent after another, and
// aggregates the results.
func (s *Simulator) Replay() *models.Report {
	report := &models.Report{RunID: s.RunID}
	s.shifts = make([]models.AgentShift, 0, len(s.Agents))
	s.waits = make([]int, 0, s.Config.NumGroups)

	for _, agent := range s.Agents {
		shift := s.replayAgent(agent, report)

		report.TotalWorkedMinutes += shift.WorkedMinutes
		report.TotalPayroll += shift.Payroll
		s.shifts = append(s.shifts, shift)

		s.Logger.WithFields(logrus.Fields{
			"agent_id": agent.ID,
			"groups":   shift.GroupsServed,
			"minutes":  shift.WorkedMinutes,
			"payroll":  shift.Payroll,
		}).Debug("agent shift finished")
	}
	report.Shifts = s.shifts

	if report.GroupsProcessed == 0 {
		s.Logger.WithField("run_id", s.RunID).Warn("no groups processed, average wait reported as 0")
	} else {
		report.AverageWait = report.TotalWait / report.GroupsProcessed
	}

	waits, err := waitDistribution(s.waits)
	if err != nil {
		s.Logger.WithError(err).Warn("unable to compute wait distribution")
	}
	report.Waits = waits

	s.Logger.WithFields(logrus.Fields{
		"run_id":        s.RunID,
		"worked":        report.TotalWorkedMinutes,
		"groups":        report.GroupsProcessed,
		"mean_wait":     report.Waits.Mean,
		"p50_wait":      report.Waits.P50,
		"p90_wait":      report.Waits.P90,
		"p99_wait":      report.Waits.P99,
		"total_payroll": report.TotalPayroll,
	}).Info("simulation finished")

	return report
}

func (s *Simulator) replayAgent(agent *models.Agent, report *models.Report) models.AgentShift {
	elapsed := 0 // minutes this agent has been busy
	served := 0

	for !agent.IsEmpty() {
		group := agent.Dequeue()
		wait := elapsed

		if wait > report.MaxWait {
			report.MaxWait = wait
		}
		report.TotalWait += wait
		report.GroupsProcessed++
		s.waits = append(s.waits, wait)

		processing := group.ProcessingTime()
		s.Records.Enqueue(&models.ServiceRecord{
			RunID:             s.RunID,
			AgentID:           agent.ID,
			GroupID:           group.ID,
			Sequence:          served,
			Adults:            group.Adults,
			Children:          group.Children,
			Domestic:          group.Domestic,
			WaitMinutes:       wait,
			ProcessingMinutes: processing,
			StartMinute:       elapsed,
			EndMinute:         elapsed + processing,
			Timestamp:         s.Config.StartTime.Add(time.Duration(elapsed) * time.Minute),
		})

		elapsed += processing
		served++
	}

	agent.Timecard = elapsed
	return models.AgentShift{
		AgentID:       agent.ID,
		GroupsServed:  served,
		WorkedMinutes: elapsed,
		Hours:         elapsed / 60,
		Payroll:       Payroll(elapsed),
	}
}

// Run sets up and replays the simulation, then publishes its events.
func (s *Simulator) Run(ctx context.Context) (*models.Report, error) {
	if s.Output == nil {
		output, err := s.determineOutputDestination(ctx)
		if err != nil {
			return nil, err
		}
		s.Output = output
	}

	s.Setup()
	report := s.Replay()

	publishErr := s.Publish(ctx, report)
	closeErr := s.Output.Close()
	if err := errors.Join(publishErr, closeErr); err != nil {
		return report, fmt.Errorf("failed to publish simulation events: %w", err)
	}

	return report, nil
}

// Publish writes the service records in simulated clock order, then every agent
// shift, then the report itself.
func (s *Simulator) Publish(ctx context.Context, report *models.Report) error {
	if _, ok := s.Output.(*NoopOutput); ok {
		return nil
	}

	bar := s.newProgressBar(s.Records.Len() + len(report.Shifts) + 1)
	defer bar.Close()

	for !s.Records.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, record := range s.Records.DequeueBatch(s.Config.BatchSize) {
			msg, err := serializeRecord(record)
			if err != nil {
				return err
			}
			if err := s.Output.WriteMessage(msg.Topic, msg.Message); err != nil {
				return fmt.Errorf("failed to write %s: %w", msg.Topic, err)
			}
			_ = bar.Add(1)
		}
	}

	endOfDay := s.Config.StartTime
	for _, shift := range report.Shifts {
		shiftEnd := s.Config.StartTime.Add(time.Duration(shift.WorkedMinutes) * time.Minute)
		if shiftEnd.After(endOfDay) {
			endOfDay = shiftEnd
		}
		msg, err := serializeShift(s.RunID, shiftEnd, shift)
		if err != nil {
			return err
		}
		if err := s.Output.WriteMessage(msg.Topic, msg.Message); err != nil {
			return fmt.Errorf("failed to write %s: %w", msg.Topic, err)
		}
		_ = bar.Add(1)
	}

	msg, err := serializeReport(endOfDay, len(s.Agents), report)
	if err != nil {
		return err
	}
	if err := s.Output.WriteMessage(msg.Topic, msg.Message); err != nil {
		return fmt.Errorf("failed to write %s: %w", msg.Topic, err)
	}
	_ = bar.Add(1)

	return nil
}

func (s *Simulator) newProgressBar(total int) *progressbar.ProgressBar {
	if !s.Config.Progress {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("publishing events"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
