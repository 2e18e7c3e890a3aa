package config

import "time"

type EventsBackend string

const (
	EventsBackendRedis EventsBackend = "redis"
	EventsBackendKafka EventsBackend = "kafka"
)

type EventsConfig struct {
	Backend        EventsBackend
	QueueName      string
	KafkaBrokers   []string
	KafkaTopic     string
	Workers        int
	PollTimeout    time.Duration
	MaxAttempts    int
	RetryDelay     time.Duration
	WorkerDisabled bool
}

type IntakeConfig struct {
	LockTTL  time.Duration
	LockWait time.Duration
}

func loadEventsConfig() EventsConfig {
	return EventsConfig{
		Backend:        EventsBackend(getEnv("EVENTS_BACKEND", string(EventsBackendRedis))),
		QueueName:      getEnv("EVENTS_QUEUE", "intake:applicant-events"),
		KafkaBrokers:   getEnvStringSlice("KAFKA_BROKERS", nil),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "intake.applicant-events"),
		Workers:        getEnvInt("EVENTS_WORKERS", 2),
		PollTimeout:    getEnvDuration("EVENTS_POLL_TIMEOUT", 5*time.Second),
		MaxAttempts:    getEnvInt("EVENTS_MAX_ATTEMPTS", 3),
		RetryDelay:     getEnvDuration("EVENTS_RETRY_DELAY", 30*time.Second),
		WorkerDisabled: getEnvBool("EVENTS_WORKER_DISABLED", false),
	}
}

func loadIntakeConfig() IntakeConfig {
	return IntakeConfig{
		LockTTL:  getEnvDuration("INTAKE_LOCK_TTL", 10*time.Second),
		LockWait: getEnvDuration("INTAKE_LOCK_WAIT", 3*time.Second),
	}
}
