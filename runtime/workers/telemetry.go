package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"collab-lab/domain/event"
	"collab-lab/observability"
)

// TelemetryWorker consumes the fanout's telemetry stream to keep the
// monitoring counters current, and periodically reports the counters
// together with the process's own CPU and memory footprint.
type TelemetryWorker struct {
	log        *slog.Logger
	telemetry  <-chan event.DomainEvent
	monitoring *observability.Monitoring
	interval   time.Duration
}

func NewTelemetryWorker(log *slog.Logger, telemetry <-chan event.DomainEvent,
	monitoring *observability.Monitoring, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, telemetry: telemetry, monitoring: monitoring, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-w.telemetry:
			if !ok {
				return nil
			}
			w.count(evt)
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *TelemetryWorker) count(evt event.DomainEvent) {
	switch evt.(type) {
	case event.SessionCreated:
		w.monitoring.SessionCreated()
	case event.MessageBroadcast:
		w.monitoring.MessageBroadcast()
	case event.SessionEnded:
		w.monitoring.SessionEnded()
	}
}

func (w *TelemetryWorker) report(p *process.Process) {
	stats := w.monitoring.GetLatest()

	fields := []any{
		"sessions_created", stats.SessionsCreated,
		"sessions_ended", stats.SessionsEnded,
		"messages", stats.MessagesBroadcast,
		"turns_failed", stats.TurnsFailed,
		"stalls", stats.StallsDetected,
	}

	// Self stats are best-effort; the counters matter more than the footprint.
	if memInfo, err := p.MemoryInfo(); err == nil {
		fields = append(fields, "ram_bytes", memInfo.RSS)
	}
	if cpuPercent, err := p.CPUPercent(); err == nil {
		fields = append(fields, "cpu_percent", cpuPercent)
	}

	w.log.Info("Orchestrator telemetry", fields...)
}
