// Package profile measures how much work proof of work takes at different
// difficulties by mining sample blocks.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoRuns is returned when a profile is requested without any runs.
var ErrNoRuns = errors.New("at least one run is required")

// baseTime anchors every sample block so a profile is reproducible.
var baseTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// EventHandler defines a function that is called when events
// occur while profiling.
type EventHandler func(v string, args ...any)

// Config represents the set of difficulties to profile.
type Config struct {
	Difficulties []uint
	Runs         int
	MaxAttempts  uint64 // Zero means every sample is mined to completion.
	EvHandler    EventHandler
}

// Sample represents the statistics for mining at a single difficulty.
type Sample struct {
	Difficulty   uint          `json:"difficulty"`
	Runs         int           `json:"runs"`
	MeanAttempts float64       `json:"mean_attempts"`
	StdDev       float64       `json:"std_dev"`
	MinAttempts  float64       `json:"min_attempts"`
	MaxAttempts  float64       `json:"max_attempts"`
	MeanDuration time.Duration `json:"mean_duration"`
}

// Expected returns the number of hashes a difficulty needs on average.
func (s Sample) Expected() float64 {
	e := 1.0
	for range s.Difficulty {
		e *= 16
	}
	return e
}

// Run mines cfg.Runs blocks at each difficulty and reports the number of
// hashes each difficulty took. Blocks are built with fixed timestamps so
// the same configuration always produces the same attempts.
func Run(ctx context.Context, cfg Config) ([]Sample, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Runs < 1 {
		return nil, ErrNoRuns
	}

	genesis := database.NewBlockAt(0, "Genesis Block", database.GenesisPrevHash, baseTime)

	samples := make([]Sample, 0, len(cfg.Difficulties))
	for _, difficulty := range cfg.Difficulties {
		attempts := make([]float64, cfg.Runs)
		var elapsed time.Duration

		for run := range cfg.Runs {
			t := time.Now()
			_, n, err := database.POW(ctx, database.POWArgs{
				Difficulty:  difficulty,
				PrevBlock:   genesis,
				Payload:     fmt.Sprintf("sample %d", run),
				MaxAttempts: cfg.MaxAttempts,
				TimeStamp:   baseTime.Add(time.Duration(run) * time.Second),
			})
			elapsed += time.Since(t)

			if err != nil && !errors.Is(err, database.ErrMaxAttempts) {
				return nil, fmt.Errorf("difficulty[%d]: run[%d]: %w", difficulty, run, err)
			}

			attempts[run] = float64(n)
		}

		mean, std := stat.MeanStdDev(attempts, nil)
		s := Sample{
			Difficulty:   difficulty,
			Runs:         cfg.Runs,
			MeanAttempts: mean,
			StdDev:       std,
			MinAttempts:  floats.Min(attempts),
			MaxAttempts:  floats.Max(attempts),
			MeanDuration: elapsed / time.Duration(cfg.Runs),
		}
		samples = append(samples, s)

		ev("profile: Run: difficulty[%d]: mean[%.1f]: expected[%.0f]: stddev[%.1f]", difficulty, mean, s.Expected(), std)
	}

	return samples, nil
}
