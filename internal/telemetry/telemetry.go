// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry reports host resource usage for the status display.
package telemetry

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/singleflight"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a point-in-time view of host resource usage.
type Snapshot struct {
	CPUPercent    float64
	MemoryPercent float64
	MemoryUsed    uint64
	MemoryTotal   uint64
	Timestamp     time.Time
}

// Monitor collects snapshots. Concurrent callers share a single collection
// in flight; CPU sampling takes a moment, so duplicating it would only
// slow everyone down.
type Monitor struct {
	group       singleflight.Group
	cpuInterval time.Duration
	collectFn   func(context.Context) (Snapshot, error)
}

// NewMonitor creates a monitor with a short CPU sampling window.
func NewMonitor() *Monitor {
	m := &Monitor{cpuInterval: 200 * time.Millisecond}
	m.collectFn = m.collect
	return m
}

// Collect gathers a snapshot of CPU and memory usage.
func (m *Monitor) Collect(ctx context.Context) (Snapshot, error) {
	v, err, _ := m.group.Do("snapshot", func() (any, error) {
		return m.collectFn(ctx)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

func (m *Monitor) collect(ctx context.Context) (Snapshot, error) {
	percents, err := cpu.PercentWithContext(ctx, m.cpuInterval, false)
	if err != nil {
		return Snapshot{}, err
	}
	var cpuPct float64
	if len(percents) > 0 {
		cpuPct = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		CPUPercent:    cpuPct,
		MemoryPercent: vm.UsedPercent,
		MemoryUsed:    vm.Used,
		MemoryTotal:   vm.Total,
		Timestamp:     time.Now(),
	}, nil
}
