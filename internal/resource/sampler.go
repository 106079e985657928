// Package resource periodically samples the simulation process's own
// CPU and memory usage, the way the teacher's internal/budget.CPUWatcher
// polls process CPU on a ticker — simplified here to a single
// self-process sample logged at an interval, with no session-matching
// state machine since there is only one process to watch.
package resource

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/vthunder/emberworld/internal/logging"
)

// Sampler periodically logs CPU% and resident memory for the current
// process.
type Sampler struct {
	proc     *process.Process
	interval time.Duration
	stop     chan struct{}
}

// NewSampler builds a Sampler for the current process, polling at
// interval.
func NewSampler(interval time.Duration) (*Sampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Sampler{proc: proc, interval: interval, stop: make(chan struct{})}, nil
}

// Start begins sampling in the background until Stop is called.
func (s *Sampler) Start() {
	go s.loop()
}

// Stop halts sampling.
func (s *Sampler) Stop() {
	close(s.stop)
}

func (s *Sampler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Sampler) sample() {
	cpuPercent, err := s.proc.CPUPercent()
	if err != nil {
		logging.Warn("resource", "cpu sample failed: %v", err)
		return
	}
	memInfo, err := s.proc.MemoryInfo()
	if err != nil {
		logging.Warn("resource", "memory sample failed: %v", err)
		return
	}
	logging.Debug("resource", "cpu=%.1f%% rss=%dMB", cpuPercent, memInfo.RSS/(1024*1024))
}
