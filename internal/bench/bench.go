package bench

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"widgetdb/pkg/widget"
)

type iWidgetAPI interface {
	Create(p widget.CreateParams) (uuid.UUID, error)
	Get(id uuid.UUID) error
	Update(id uuid.UUID, p widget.UpdateParams) error
}

type Result struct {
	TotalOps      int
	SuccessfulOps int
	FailedOps     int
	Duration      time.Duration
	OpsPerSec     float64
	AvgLatency    time.Duration
	MinLatency    time.Duration
	MaxLatency    time.Duration
}

// Scenario names a workload and how to run one operation of it.
type Scenario struct {
	Name string
	Op   func(rng *rand.Rand) error
}

// Scenarios builds the standard workloads. Moves pick random targets from
// ids created by the earlier scenarios.
func Scenarios(api iWidgetAPI, zSpread int32) []Scenario {
	var (
		mu  sync.Mutex
		ids []uuid.UUID
	)
	remember := func(id uuid.UUID) {
		mu.Lock()
		ids = append(ids, id)
		mu.Unlock()
	}
	pick := func(rng *rand.Rand) (uuid.UUID, bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(ids) == 0 {
			return uuid.UUID{}, false
		}
		return ids[rng.Intn(len(ids))], true
	}

	return []Scenario{
		{Name: "insert on top", Op: func(rng *rand.Rand) error {
			id, err := api.Create(widget.CreateParams{CenterX: rng.Int31n(1000), CenterY: rng.Int31n(1000), Width: 10, Height: 10})
			if err == nil {
				remember(id)
			}
			return err
		}},
		{Name: "insert with cascade", Op: func(rng *rand.Rand) error {
			id, err := api.Create(widget.CreateParams{Z: widget.Int32(rng.Int31n(zSpread)), Width: 10, Height: 10})
			if err == nil {
				remember(id)
			}
			return err
		}},
		{Name: "read by id", Op: func(rng *rand.Rand) error {
			id, ok := pick(rng)
			if !ok {
				return fmt.Errorf("no widgets to read")
			}
			return api.Get(id)
		}},
		{Name: "move", Op: func(rng *rand.Rand) error {
			id, ok := pick(rng)
			if !ok {
				return fmt.Errorf("no widgets to move")
			}
			return api.Update(id, widget.UpdateParams{Z: widget.Int32(rng.Int31n(zSpread))})
		}},
	}
}

// Run executes totalOps operations spread over concurrency goroutines.
func Run(op func(rng *rand.Rand) error, totalOps, concurrency int) Result {
	start := time.Now()
	var wg sync.WaitGroup
	var mu sync.Mutex

	successful := 0
	failed := 0
	latencies := make([]time.Duration, 0, totalOps)

	opsPerGoroutine := totalOps / concurrency
	remainder := totalOps % concurrency

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(int64(goroutineID)))
			ops := opsPerGoroutine
			if goroutineID < remainder {
				ops++
			}

			for j := 0; j < ops; j++ {
				opStart := time.Now()
				err := op(rng)
				latency := time.Since(opStart)

				mu.Lock()
				if err == nil {
					successful++
				} else {
					failed++
				}
				latencies = append(latencies, latency)
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	return summarize(totalOps, successful, failed, time.Since(start), latencies)
}

func summarize(total, successful, failed int, duration time.Duration, latencies []time.Duration) Result {
	res := Result{
		TotalOps:      total,
		SuccessfulOps: successful,
		FailedOps:     failed,
		Duration:      duration,
	}
	if duration > 0 {
		res.OpsPerSec = float64(total) / duration.Seconds()
	}
	if len(latencies) == 0 {
		return res
	}

	var sum time.Duration
	res.MinLatency = latencies[0]
	for _, l := range latencies {
		sum += l
		res.MinLatency = min(res.MinLatency, l)
		res.MaxLatency = max(res.MaxLatency, l)
	}
	res.AvgLatency = sum / time.Duration(len(latencies))
	return res
}

func Print(w io.Writer, name string, r Result) {
	fmt.Fprintf(w, "  %s:\n", name)
	fmt.Fprintf(w, "    Total: %d, Success: %d, Failed: %d\n", r.TotalOps, r.SuccessfulOps, r.FailedOps)
	fmt.Fprintf(w, "    Duration: %v, Throughput: %.2f ops/sec\n", r.Duration, r.OpsPerSec)
	fmt.Fprintf(w, "    Latency: avg=%v min=%v max=%v\n", r.AvgLatency, r.MinLatency, r.MaxLatency)
}
