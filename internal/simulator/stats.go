package simulator

import (
	"github.com/chrisdamba/customsim/internal/models"
	"github.com/montanaflynn/stats"
)

// waitDistribution summarizes the wait times of every served group.
// An empty input yields the zero distribution.
func waitDistribution(waits []int) (models.WaitDistribution, error) {
	if len(waits) == 0 {
		return models.WaitDistribution{}, nil
	}

	data := stats.LoadRawData(waits)

	mean, err := stats.Mean(data)
	if err != nil {
		return models.WaitDistribution{}, err
	}
	p50, err := stats.Percentile(data, 50)
	if err != nil {
		return models.WaitDistribution{}, err
	}
	p90, err := stats.Percentile(data, 90)
	if err != nil {
		return models.WaitDistribution{}, err
	}
	p99, err := stats.Percentile(data, 99)
	if err != nil {
		return models.WaitDistribution{}, err
	}

	return models.WaitDistribution{Mean: mean, P50: p50, P90: p90, P99: p99}, nil
}
