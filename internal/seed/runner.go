package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/roster/pkg/logger"
)

// ErrVerification marks a report that broke one of its ordering rules.
var ErrVerification = errors.New("verification failed")

// Run seeds the service and verifies its reports.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Neighbors < 1 {
		cfg.Neighbors = 1
	}

	log.Info(ctx, "starting roster seed",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate and submit
	servers := generateServers(ctx, cfg.Count, stats)
	accepted := submitServers(ctx, cfg, client, servers, stats)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("submission interrupted: %w", err)
	}

	// Step 3: Fetch and verify the reports
	names, err := client.Alphabetical(ctx)
	if err != nil {
		return stats, fmt.Errorf("alphabetical report: %w", err)
	}
	if err := verifyAlphabetical(names, accepted); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	stats.ReportRows += len(names)

	times, err := client.ServiceTime(ctx)
	if err != nil {
		return stats, fmt.Errorf("service-time report: %w", err)
	}
	if err := verifyServiceTime(times, len(names)); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	stats.ReportRows += len(times)

	pay, err := client.Compensation(ctx)
	if err != nil {
		return stats, fmt.Errorf("compensation report: %w", err)
	}
	if err := verifyCompensation(pay, accepted); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	stats.ReportRows += len(pay)

	// Step 4: Probe similarity for the first few accepted servers
	for i := 0; i < len(accepted) && i < cfg.Probes; i++ {
		resp, err := client.Similar(ctx, accepted[i].Name, cfg.Neighbors)
		if err != nil {
			return stats, fmt.Errorf("similar report: %w", err)
		}
		if err := verifySimilar(resp, cfg.Neighbors); err != nil {
			return stats, fmt.Errorf("%w: %w", ErrVerification, err)
		}
		stats.ProbesRun++
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("reportRows", stats.ReportRows),
		logger.Int("similarityProbes", stats.ProbesRun),
		logger.Duration("duration", stats.Duration),
		logger.Float64("serversPerSecond", perSecond),
	)
}
