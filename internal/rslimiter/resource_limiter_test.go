package rslimiter

import (
	"errors"
	"testing"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedUsage(allocMB int64, goroutines int) func() RuntimeUsage {
	return func() RuntimeUsage {
		return RuntimeUsage{AllocMB: allocMB, Goroutines: goroutines}
	}
}

func fixedHost(ratio float64) func() (HostUsage, error) {
	return func() (HostUsage, error) {
		return HostUsage{MemUsedRatio: ratio}, nil
	}
}

func TestResourceLimiter_New(t *testing.T) {
	rl := NewResourceLimiter(config.ResourceLimiterConfig{}, zerolog.Nop())

	require.NotNil(t, rl)
	defaults := config.NewDefaultResourceLimiterConfig()
	assert.Equal(t, defaults.MaxMemoryMB, rl.config.MaxMemoryMB)
	assert.Equal(t, defaults.MaxGoroutines, rl.config.MaxGoroutines)
	assert.Equal(t, defaults.CheckIntervalSecs, rl.config.CheckIntervalSecs)
	assert.Equal(t, defaults.SystemMemThreshold, rl.config.SystemMemThreshold)
}

func TestResourceLimiter_StartAndStop(t *testing.T) {
	rl := NewResourceLimiter(config.NewDefaultResourceLimiterConfig(), zerolog.Nop())
	rl.hostFn = fixedHost(0.1)

	rl.Start()
	assert.True(t, rl.IsRunning())
	rl.Start()

	rl.Stop()
	assert.False(t, rl.IsRunning())
	rl.Stop()
}

func TestResourceLimiter_Admit(t *testing.T) {
	cfg := config.ResourceLimiterConfig{MaxMemoryMB: 100, MaxGoroutines: 50, CheckIntervalSecs: 1, SystemMemThreshold: 0.9}

	tests := []struct {
		name      string
		allocMB   int64
		routines  int
		systemPct float64
		admitted  bool
	}{
		{name: "within limits", allocMB: 10, routines: 5, systemPct: 0.5, admitted: true},
		{name: "heap over limit", allocMB: 101, routines: 5, systemPct: 0.5},
		{name: "too many goroutines", allocMB: 10, routines: 51, systemPct: 0.5},
		{name: "host memory pressure", allocMB: 10, routines: 5, systemPct: 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewResourceLimiter(cfg, zerolog.Nop())
			rl.usageFn = fixedUsage(tt.allocMB, tt.routines)
			rl.hostFn = fixedHost(tt.systemPct)
			rl.sampleHost()

			err := rl.Admit()
			if tt.admitted {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrResourceExhausted)
			assert.ErrorIs(t, err, errorwrapper.ErrServiceUnavailable)
		})
	}
}

func TestResourceLimiter_SampleErrorKeepsLastValue(t *testing.T) {
	rl := NewResourceLimiter(config.NewDefaultResourceLimiterConfig(), zerolog.Nop())
	rl.usageFn = fixedUsage(1, 1)
	rl.hostFn = fixedHost(0.99)
	rl.sampleHost()

	rl.hostFn = func() (HostUsage, error) { return HostUsage{}, errors.New("unavailable") }
	rl.sampleHost()

	assert.ErrorIs(t, rl.Admit(), ErrResourceExhausted)
}

func TestReadRuntimeUsage(t *testing.T) {
	usage := ReadRuntimeUsage()

	assert.NotZero(t, usage.SysMB)
	assert.NotZero(t, usage.Goroutines)
}

func TestCheckAndLogResourceUsage_PublishesGauges(t *testing.T) {
	rl := NewResourceLimiter(config.NewDefaultResourceLimiterConfig(), zerolog.Nop())
	rl.usageFn = fixedUsage(3, 42)
	rl.hostFn = fixedHost(0.25)

	rl.sampleHost()
	rl.checkAndLogResourceUsage()

	assert.Equal(t, float64(42), testutil.ToFloat64(metrics.Goroutines))
	assert.Equal(t, float64(3*bytesPerMB), testutil.ToFloat64(metrics.HeapAllocBytes))
	assert.Equal(t, 0.25, testutil.ToFloat64(metrics.HostMemoryUsedRatio))
}
