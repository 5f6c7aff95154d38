package datasource

import (
	"fmt"
	"time"
)

// errorTracker records failure state per operation identifier, created
// lazily on first failure. It exists to guarantee at most one "down"
// and one "recovered" notification per outage episode.
type errorTracker struct {
	firstFailure     time.Time
	lastFailure      time.Time
	recoveredSince   *time.Time
	notificationSent bool
}

// RecoveryStatus is what the repository layer surfaces to callers
// after a storage failure: whether the connection could be restored
// for future calls (the failed call itself stays failed).
type RecoveryStatus struct {
	Recovered bool
	Message   string
}

// TryRecoverConnection retries initialization up to the configured
// maximum, doubling the delay after each failed attempt. Returns true
// on the first success. Connections that are already healthy return
// immediately. This is a bounded, blocking retry, not a background
// loop.
func (r *Registry) TryRecoverConnection(name string) bool {
	name = r.resolveName(name)

	r.mu.Lock()
	entry, ok := r.connections[name]
	if !ok {
		r.mu.Unlock()
		return false
	}
	if entry.isInitialized {
		r.mu.Unlock()
		return true
	}
	r.mu.Unlock()

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if err := r.Initialize(name); err == nil {
			r.logger.Info("Datasource connection recovered",
				"name", name, "attempt", attempt)
			return true
		} else {
			r.logger.Warn("Datasource recovery attempt failed",
				"name", name, "attempt", attempt, "error", err)
		}

		if attempt < r.maxRetries {
			r.sleep(r.baseDelay * (1 << (attempt - 1)))
		}
	}

	return false
}

// HandleDatabaseError is called by the repository layer when an
// operation fails with a connectivity-class error. It marks the
// connection failed, attempts bounded recovery, and fires at most one
// "down" notification per outage episode for this operation.
func (r *Registry) HandleDatabaseError(operationErr error, operationID, connectionName string) RecoveryStatus {
	connectionName = r.resolveName(connectionName)
	now := time.Now().UTC()

	r.markConnectionFailed(connectionName, now)

	r.mu.Lock()
	tracker, ok := r.trackers[operationID]
	if !ok {
		tracker = &errorTracker{firstFailure: now}
		r.trackers[operationID] = tracker
	}
	if tracker.firstFailure.IsZero() {
		tracker.firstFailure = now
	}
	tracker.lastFailure = now
	r.mu.Unlock()

	recovered := r.TryRecoverConnection(connectionName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if recovered {
		if tracker.recoveredSince == nil {
			recoveredAt := time.Now().UTC()
			tracker.recoveredSince = &recoveredAt
			if entry, ok := r.connections[connectionName]; ok {
				entry.recoveredSince = &recoveredAt
			}
		}

		return RecoveryStatus{
			Recovered: true,
			Message: fmt.Sprintf(
				"database connection %q restored; the failed operation was not retried", connectionName),
		}
	}

	tracker.recoveredSince = nil
	if entry, ok := r.connections[connectionName]; ok {
		entry.recoveredSince = nil
	}

	if !tracker.notificationSent {
		r.notifier.SendDownNotification(operationID, connectionName, operationErr)
		tracker.notificationSent = true
		if entry, ok := r.connections[connectionName]; ok {
			entry.notificationSent = true
		}
	}

	return RecoveryStatus{
		Recovered: false,
		Message: fmt.Sprintf(
			"database connection %q is unavailable and could not be recovered", connectionName),
	}
}

// RegisterSuccessfulOperation closes an outage episode: when a down
// notification is outstanding, exactly one recovery notification is
// sent with the computed downtime, and the tracker resets so a later
// outage starts a fresh episode.
func (r *Registry) RegisterSuccessfulOperation(operationID, connectionName string) {
	connectionName = r.resolveName(connectionName)

	r.mu.Lock()
	tracker, ok := r.trackers[operationID]
	if !ok {
		r.mu.Unlock()
		return
	}

	if !tracker.notificationSent {
		tracker.recoveredSince = nil
		tracker.firstFailure = time.Time{}
		r.mu.Unlock()
		return
	}

	recoveredAt := time.Now().UTC()
	if tracker.recoveredSince != nil {
		recoveredAt = *tracker.recoveredSince
	}
	downtime := recoveredAt.Sub(tracker.firstFailure)
	if downtime < 0 {
		downtime = 0
	}

	tracker.notificationSent = false
	tracker.recoveredSince = nil
	tracker.firstFailure = time.Time{}

	if entry, entryOk := r.connections[connectionName]; entryOk {
		entry.notificationSent = false
		entry.recoveredSince = nil
	}
	r.mu.Unlock()

	r.notifier.SendRecoveryNotification(operationID, connectionName, downtime)
}

func (r *Registry) markConnectionFailed(name string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.connections[name]
	if !ok {
		return
	}

	entry.isInitialized = false
	entry.lastError = &at
}
