package rslimiter

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/metrics"
	"github.com/rs/zerolog"
)

// ErrResourceExhausted is returned by Admit when a render must not start.
var ErrResourceExhausted = fmt.Errorf("resource limits exceeded: %w", errorwrapper.ErrServiceUnavailable)

const warningRatio = 0.8

// ResourceLimiter gates new renders on memory and goroutine headroom.
type ResourceLimiter struct {
	config           config.ResourceLimiterConfig
	logger           zerolog.Logger
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	memoryWarning    int64
	goroutineWarning int
	isRunning        bool
	mu               sync.RWMutex
	lastHost         HostUsage
	usageFn          func() RuntimeUsage
	hostFn           func() (HostUsage, error)
}

// NewResourceLimiter creates a new resource limiter
func NewResourceLimiter(cfg config.ResourceLimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	ctx, cancel := context.WithCancel(context.Background())

	defaults := config.NewDefaultResourceLimiterConfig()
	if cfg.MaxMemoryMB == 0 {
		cfg.MaxMemoryMB = defaults.MaxMemoryMB
	}
	if cfg.MaxGoroutines == 0 {
		cfg.MaxGoroutines = defaults.MaxGoroutines
	}
	if cfg.CheckIntervalSecs == 0 {
		cfg.CheckIntervalSecs = defaults.CheckIntervalSecs
	}
	if cfg.SystemMemThreshold == 0 {
		cfg.SystemMemThreshold = defaults.SystemMemThreshold
	}

	return &ResourceLimiter{
		config:           cfg,
		logger:           logger.With().Str("component", "ResourceLimiter").Logger(),
		ctx:              ctx,
		cancel:           cancel,
		memoryWarning:    int64(float64(cfg.MaxMemoryMB) * warningRatio),
		goroutineWarning: int(float64(cfg.MaxGoroutines) * warningRatio),
		usageFn:          ReadRuntimeUsage,
		hostFn:           ReadHostUsage,
	}
}

func (rl *ResourceLimiter) checkInterval() time.Duration {
	return time.Duration(rl.config.CheckIntervalSecs) * time.Second
}

// Start begins sampling system memory in the background
func (rl *ResourceLimiter) Start() {
	rl.mu.Lock()
	if rl.isRunning {
		rl.mu.Unlock()
		return
	}
	rl.isRunning = true
	rl.mu.Unlock()

	rl.sampleHost()

	rl.wg.Add(1)
	go rl.monitorResources()

	rl.logger.Info().
		Int64("max_memory_mb", rl.config.MaxMemoryMB).
		Int("max_goroutines", rl.config.MaxGoroutines).
		Dur("check_interval", rl.checkInterval()).
		Float64("system_mem_threshold", rl.config.SystemMemThreshold).
		Msg("Resource limiter started")
}

// Stop stops the resource monitor
func (rl *ResourceLimiter) Stop() {
	rl.mu.Lock()
	if !rl.isRunning {
		rl.mu.Unlock()
		return
	}
	rl.isRunning = false
	rl.mu.Unlock()

	rl.cancel()
	rl.wg.Wait()
	rl.logger.Info().Msg("Resource limiter stopped")
}

// IsRunning reports whether the monitor loop is active.
func (rl *ResourceLimiter) IsRunning() bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.isRunning
}

// Admit returns ErrResourceExhausted when the process or host is over its limits.
// System memory is read from the last background sample.
func (rl *ResourceLimiter) Admit() error {
	if err := rl.CheckMemoryLimit(); err != nil {
		return errors.Join(ErrResourceExhausted, err)
	}
	if err := rl.CheckGoroutineLimit(); err != nil {
		return errors.Join(ErrResourceExhausted, err)
	}

	rl.mu.RLock()
	systemPct := rl.lastHost.MemUsedRatio
	rl.mu.RUnlock()
	if systemPct > rl.config.SystemMemThreshold {
		return errors.Join(ErrResourceExhausted,
			fmt.Errorf("system memory usage %.0f%% above threshold %.0f%%", systemPct*100, rl.config.SystemMemThreshold*100))
	}
	return nil
}

// CheckMemoryLimit checks if current heap allocation exceeds the limit
func (rl *ResourceLimiter) CheckMemoryLimit() error {
	currentMB := rl.usageFn().AllocMB
	if currentMB > rl.config.MaxMemoryMB {
		return fmt.Errorf("memory limit exceeded: current %dMB > limit %dMB", currentMB, rl.config.MaxMemoryMB)
	}
	return nil
}

// CheckGoroutineLimit checks if current goroutine count exceeds limit
func (rl *ResourceLimiter) CheckGoroutineLimit() error {
	current := rl.usageFn().Goroutines
	if current > rl.config.MaxGoroutines {
		return fmt.Errorf("goroutine limit exceeded: current %d > limit %d", current, rl.config.MaxGoroutines)
	}
	return nil
}

// ForceGC forces garbage collection and logs the results
func (rl *ResourceLimiter) ForceGC() {
	before := ReadRuntimeUsage().AllocMB
	runtime.GC()
	after := ReadRuntimeUsage().AllocMB

	rl.logger.Info().
		Int64("before_mb", before).
		Int64("after_mb", after).
		Msg("Forced garbage collection completed")
}

func (rl *ResourceLimiter) monitorResources() {
	defer rl.wg.Done()

	ticker := time.NewTicker(rl.checkInterval())
	defer ticker.Stop()

	for {
		select {
		case <-rl.ctx.Done():
			return
		case <-ticker.C:
			rl.sampleHost()
			rl.checkAndLogResourceUsage()
		}
	}
}

// sampleHost refreshes the cached host sample. On error the previous sample is kept.
func (rl *ResourceLimiter) sampleHost() {
	host, err := rl.hostFn()
	if err != nil {
		rl.logger.Error().Err(err).Msg("Failed to read host resource stats")
		return
	}
	rl.mu.Lock()
	rl.lastHost = host
	rl.mu.Unlock()
	metrics.RecordHostUsage(host.MemUsedRatio, host.CPUPercent)
}

func (rl *ResourceLimiter) checkAndLogResourceUsage() {
	usage := rl.usageFn()
	metrics.RecordRuntimeUsage(usage.AllocMB*bytesPerMB, usage.Goroutines)

	rl.mu.RLock()
	host := rl.lastHost
	rl.mu.RUnlock()

	if usage.AllocMB > rl.memoryWarning {
		rl.logger.Warn().
			Int64("current_mb", usage.AllocMB).
			Int64("threshold_mb", rl.memoryWarning).
			Int64("limit_mb", rl.config.MaxMemoryMB).
			Msg("Memory usage approaching limit")
		if usage.AllocMB > rl.config.MaxMemoryMB {
			rl.ForceGC()
		}
	}

	if usage.Goroutines > rl.goroutineWarning {
		rl.logger.Warn().
			Int("current", usage.Goroutines).
			Int("warning_threshold", rl.goroutineWarning).
			Int("limit", rl.config.MaxGoroutines).
			Msg("Goroutine count approaching limit")
	}

	rl.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int64("sys_mb", usage.SysMB).
		Int("goroutines", usage.Goroutines).
		Uint32("gc_count", usage.GCCount).
		Float64("system_mem_ratio", host.MemUsedRatio).
		Float64("cpu_percent", host.CPUPercent).
		Msg("Current resource usage")
}
