package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"collab-lab/domain"
	"collab-lab/repositories"
)

// Config is the viewer's own surface, independent from the orchestrator's.
type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Session        string `envconfig:"TRANSCRIPT_SESSION" required:"true"`
	Limit          int    `envconfig:"TRANSCRIPT_LIMIT" default:"50"`
	Colours        bool   `envconfig:"TRANSCRIPT_COLOURS" default:"true"`
}

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger := logs.GetLoggerFromLevel(slog.LevelWarn)

	// 2. Open Badger in Read-Only mode
	// Note: BypassLockGuard allows opening if another process (the orchestrator) holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repository := repositories.NewTranscriptRepository(db, logger, &config.Limit)

	entries, _, err := repository.Entries(domain.SessionID(config.Session), nil)
	if err != nil {
		log.Fatalf("Failed to read transcript: %v", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No transcript entries for session %s\n", config.Session)
		return
	}

	if config.Colours {
		color.Green.Printf("Transcript of session %s (%d entries, newest first)\n",
			config.Session, len(entries))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "From", "Type", "Content"})
	table.SetColWidth(80)
	for _, entry := range entries {
		table.Append([]string{
			entry.At.Format("15:04:05"),
			entry.From,
			entry.Type,
			entry.Content,
		})
	}
	table.Render()
}
