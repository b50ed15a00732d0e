package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// sampleStatsCmd kicks off the periodic CPU/memory sampler.
func sampleStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return sampleStats()
	}
}

// sampleStats takes one CPU and memory reading. Failures report zero
// rather than breaking the status bar.
func sampleStats() StatsMsg {
	var s StatsMsg
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPU = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.Mem = vm.UsedPercent
	}
	return s
}
