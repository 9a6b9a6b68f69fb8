package internal

import "time"

type Config struct {
	LogLevel   string `env:"LOG_LEVEL,required=true"`
	BufferSize int    `env:"BUFFER_SIZE,required=true"`

	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,required=true"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,required=true"`
	WatchdogInterval  time.Duration `env:"WATCHDOG_INTERVAL,required=true"`
	StallThreshold    time.Duration `env:"STALL_THRESHOLD,required=true"`

	TurnDelay    time.Duration `env:"TURN_DELAY,required=true"`
	TurnTimeout  time.Duration `env:"TURN_TIMEOUT,required=true"`
	TurnAttempts int           `env:"TURN_ATTEMPTS,required=true"`
	RetryBackoff time.Duration `env:"RETRY_BACKOFF,required=true"`

	BadgerFilepath   string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath    string `env:"BLUGE_FILEPATH,required=true"`
	TimelineCapacity int    `env:"TIMELINE_CAPACITY,required=true"`
	LimitTranscript  *int   `env:"LIMIT_TRANSCRIPT"`

	ModeratorName string `env:"MODERATOR_NAME,required=true"`
}
