package rslimiter

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const bytesPerMB = 1024 * 1024

// RuntimeUsage is read from the Go runtime on every admission check.
type RuntimeUsage struct {
	AllocMB    int64
	SysMB      int64
	NextGCMB   int64
	GCCount    uint32
	Goroutines int
}

// ReadRuntimeUsage snapshots heap and goroutine counters.
func ReadRuntimeUsage() RuntimeUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeUsage{
		AllocMB:    int64(m.Alloc / bytesPerMB),
		SysMB:      int64(m.Sys / bytesPerMB),
		NextGCMB:   int64(m.NextGC / bytesPerMB),
		GCCount:    m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}

// HostUsage is sampled from the operating system by the monitor loop only.
type HostUsage struct {
	MemUsedMB  int64
	MemTotalMB int64
	// MemUsedRatio is in [0, 1].
	MemUsedRatio float64
	CPUPercent   float64
}

// ReadHostUsage samples host memory and CPU. A CPU read failure leaves
// CPUPercent at zero; a memory read failure is returned.
func ReadHostUsage() (HostUsage, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return HostUsage{}, fmt.Errorf("failed to get system memory stats: %w", err)
	}
	usage := HostUsage{
		MemUsedMB:    int64(vm.Used / bytesPerMB),
		MemTotalMB:   int64(vm.Total / bytesPerMB),
		MemUsedRatio: vm.UsedPercent / 100.0,
	}
	// interval 0 compares against the previous call and does not block
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		usage.CPUPercent = percents[0]
	}
	return usage, nil
}
