package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"collab-lab/consensus"
	"collab-lab/contract"
	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/facilitator"
	"collab-lab/internal"
	"collab-lab/observability"
	"collab-lab/repositories"
	"collab-lab/responder"
	"collab-lab/roster"
	"collab-lab/runtime"
	"collab-lab/runtime/workers"
	"collab-lab/search"
	"collab-lab/services"
	"collab-lab/sink"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Meeting terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, drives one demo meeting, and centralizes
// error reporting so every defer (database cleanup included) executes
// before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB transcript archive + Bluge search index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Core wiring: catalog, bus, estimator, facilitator
	catalog := roster.Default()
	bus := runtime.NewBus(logger, catalog, config.ModeratorName, config.BufferSize)
	registry := runtime.NewRegistry()

	estimator, err := consensus.NewKeywordEstimator(logger)
	if err != nil {
		return exitRuntime, err
	}

	monitoring := observability.NewMonitoring()
	fac := facilitator.NewFacilitator(logger, bus, estimator, monitoring, facilitator.Options{
		TurnDelay:    config.TurnDelay,
		TurnTimeout:  config.TurnTimeout,
		TurnAttempts: config.TurnAttempts,
		RetryBackoff: config.RetryBackoff,
	})

	// 4. Boundary subscribers and supervised workers
	transcripts := repositories.NewTranscriptRepository(db, logger, config.LimitTranscript)
	timeline := sink.NewTimeline(config.TimelineCapacity)
	index := search.NewIndex(blugeWriter, logger)

	permanentSinks := []contract.EventSink{
		fac,
		sink.NewTranscriptSink(transcripts, logger),
		timeline,
		index,
	}

	telemetryChan := make(chan event.DomainEvent, config.BufferSize)
	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(
		workers.NewEventFanout(logger, bus.Events(), telemetryChan, registry, permanentSinks, config.SinkTimeout),
		workers.NewTelemetryWorker(logger, telemetryChan, monitoring, config.TelemetryInterval),
		facilitator.NewStallWatchdog(logger, fac, monitoring, config.WatchdogInterval, config.StallThreshold),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go supervisor.Run(ctx)
	defer supervisor.Stop()

	// 5. Scripted seats: stand-ins for the remote response capability
	fac.RegisterResponder("community-lead", responder.NewScripted(300*time.Millisecond,
		"Thanks everyone for joining. The wellness program matters most to the families we serve.",
		"I agree, and the cultural events calendar should anchor the schedule. @data-analyst what do the surveys say?",
		"Excellent, that is confirmed by what I hear at the community center.",
	))
	fac.RegisterResponder("data-analyst", responder.NewScripted(300*time.Millisecond,
		"The survey data shows attendance grows when sessions run in the evening.",
		"Correct, the research backs the evening slot. However, weekend cost is a concern for the venue.",
	))
	fac.RegisterResponder("ops-strategist", responder.NewScripted(300*time.Millisecond,
		"From a cost angle the community hall is the sensible venue, the budget is confirmed.",
	))
	fac.RegisterResponder("tech-coordinator", responder.NewScripted(300*time.Millisecond,
		"I can wire the registration page this week, that part sounds good.",
	))

	service := services.NewMeetingService(fac, bus)

	// 6. One demo meeting end to end
	sessionID, err := service.StartMeeting(
		"Community wellness planning",
		[]domain.ParticipantID{"community-lead", "data-analyst", "ops-strategist", "tech-coordinator"},
		domain.MeetingBrainstorm,
		domain.CollaborationContext{
			Objectives:     []string{"Agree on a schedule", "Pick a venue"},
			Considerations: []string{"Family-friendly hours", "Accessible location"},
		},
	)
	if err != nil {
		return exitRuntime, err
	}

	color.Green.Printf("Meeting %s started, watching the discussion...\n", sessionID)

	select {
	case <-ctx.Done():
	case <-time.After(15 * time.Second):
	}

	if err := service.EndMeeting(sessionID); err != nil {
		logger.Warn("Meeting already over", "error", err)
	}

	printProgress(service, sessionID)
	printHistory(service, sessionID)

	return exitOK, nil
}

func printProgress(service services.IMeetingService, sessionID domain.SessionID) {
	progress, err := service.Progress(sessionID)
	if err != nil {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Session", "Messages", "Consensus", "Status", "Active"})
	table.Append([]string{
		string(progress.SessionID),
		fmt.Sprintf("%d", progress.MessageCount),
		fmt.Sprintf("%.2f", progress.Consensus.Level),
		string(progress.Consensus.Status),
		fmt.Sprintf("%t", progress.IsActive),
	})
	table.Render()
}

func printHistory(service services.IMeetingService, sessionID domain.SessionID) {
	history, err := service.History(sessionID)
	if err != nil {
		return
	}
	for _, msg := range history {
		color.Cyan.Printf("[%s] ", msg.From)
		fmt.Println(msg.Content)
	}
}
