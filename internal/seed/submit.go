package seed

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/roster/internal/domain/types"
	"github.com/okian/roster/pkg/logger"
)

// workerChannelMultiplier sizes the job channel relative to the pool.
const workerChannelMultiplier = 2

// submitServers posts servers with a pool of workers and returns the
// requests the API accepted, in submission order.
func submitServers(ctx context.Context, cfg *Config, client *Client, servers []types.CreateRequest, stats *Stats) []types.CreateRequest {
	log := logger.Get()
	log.Info(ctx, "submitting servers", logger.Int("count", len(servers)), logger.Int("workers", cfg.Workers))

	var (
		submitted  int64
		successful int64
		failed     int64
	)
	accepted := make([]bool, len(servers))

	jobs := make(chan int, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				atomic.AddInt64(&submitted, 1)
				if _, err := client.CreateServer(ctx, servers[index]); err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "submit failed", logger.String("name", servers[index].Name), logger.Error(err))
					}
					continue
				}
				accepted[index] = true
				atomic.AddInt64(&successful, 1)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range servers {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))

	out := make([]types.CreateRequest, 0, stats.Successful)
	for i, ok := range accepted {
		if ok {
			out = append(out, servers[i])
		}
	}

	log.Info(ctx, "submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
	)
	return out
}
