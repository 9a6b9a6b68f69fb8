package workers

import (
	"context"
	"log/slog"
	"time"

	"collab-lab/contract"
	"collab-lab/domain/event"
)

// EventFanout delivers bus events to in-process consumers: the permanent
// sinks (facilitator, archival, projections) and whatever the registry
// holds for the event's session.
//
// Being the single consumer of the bus channel, it preserves per-session
// event order. Delivery is best-effort with a per-sink timeout; EventFanout
// is not a message broker and offers no durability or retries.
type EventFanout struct {
	log            *slog.Logger
	events         <-chan event.DomainEvent
	telemetry      chan<- event.DomainEvent
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent,
	telemetry chan<- event.DomainEvent, registry contract.IRegistry,
	permanentSinks []contract.EventSink, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		events:         events,
		telemetry:      telemetry,
		registry:       registry,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)

			if w.telemetry == nil {
				continue
			}
			select {
			case w.telemetry <- evt:
			default:
				w.log.Debug("Telemetry event lost")
			}
		}
	}
}

// Fanout delivers one event to every permanent and session-scoped sink.
// A failing or slow sink is logged and skipped; it never blocks the others
// beyond its own timeout.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := append([]contract.EventSink(nil), w.permanentSinks...)
	sinks = append(sinks, w.registry.SinksForSession(evt.SessionID())...)

	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink rejected event", "session", evt.SessionID(), "error", err)
		}
		cancel()
	}
}
