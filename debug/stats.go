// Package debug logs runtime stats while the scanner runs with debug
// enabled. The numbers separate Go heap growth from native growth in the
// camera and Tk libraries.
package debug

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// Snapshot is one sample of process stats.
type Snapshot struct {
	Goroutines uint64
	StackInuse uint64
	HeapAlloc  uint64
	HeapInuse  uint64
	HeapSys    uint64
	NextGC     uint64
	NumGC      uint32
	RSS        uint64 // 0 when the platform query fails
}

// Read samples the current process.
func Read() Snapshot {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := Snapshot{
		StackInuse: ms.StackInuse,
		HeapAlloc:  ms.HeapAlloc,
		HeapInuse:  ms.HeapInuse,
		HeapSys:    ms.HeapSys,
		NextGC:     ms.NextGC,
		NumGC:      ms.NumGC,
	}
	if samples[0].Value.Kind() == metrics.KindUint64 {
		s.Goroutines = samples[0].Value.Uint64()
	}
	if rss, err := residentSetSize(); err == nil {
		s.RSS = rss
	}
	return s
}

// LogValue renders the snapshot as a log group.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("goroutines", s.Goroutines),
		slog.Uint64("stack_inuse", s.StackInuse),
		slog.Uint64("heap_alloc", s.HeapAlloc),
		slog.Uint64("heap_inuse", s.HeapInuse),
		slog.Uint64("heap_sys", s.HeapSys),
		slog.Uint64("next_gc", s.NextGC),
		slog.Uint64("num_gc", uint64(s.NumGC)),
		slog.Uint64("rss", s.RSS),
	)
}

// Start logs a Snapshot every interval until ctx is done.
func Start(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := residentSetSize(); err != nil {
		logger.Warn("rss unavailable", "error", err)
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logger.Info("runtime stats", "stats", Read())
			}
		}
	}()
}
