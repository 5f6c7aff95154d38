package datasource

import (
	"log/slog"
	"time"
)

// Notifier is the sink for outage alerts. Implementations deliver by
// whatever channel fits (log line, email, webhook); the registry
// guarantees at most one down and one recovery call per outage
// episode, so implementations need no deduplication of their own.
type Notifier interface {
	SendDownNotification(endpoint string, connectionName string, err error)
	SendRecoveryNotification(endpoint string, connectionName string, downtime time.Duration)
}

// LogNotifier writes alerts to the structured log. It is the default
// sink when no external channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendDownNotification(endpoint string, connectionName string, err error) {
	n.logger.Error("Database connection is down",
		"endpoint", endpoint,
		"connection", connectionName,
		"error", err)
}

func (n *LogNotifier) SendRecoveryNotification(
	endpoint string,
	connectionName string,
	downtime time.Duration,
) {
	n.logger.Info("Database connection recovered",
		"endpoint", endpoint,
		"connection", connectionName,
		"downtimeSeconds", int(downtime.Seconds()))
}
