// Package notify is the storefront's toast surface: human-readable status
// notifications emitted by the core (added-to-cart, payment error,
// restored-cart) toward whatever frontend is listening.
package notify

import "log"

type Severity string

const (
	SeverityInfo        Severity = "info"
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
)

// Notifier is implemented by the display layer. Implementations must not
// block; the core fires notifications from request paths.
type Notifier interface {
	Notify(title, description string, severity Severity)
}

// LogNotifier writes notifications to the process log. Used as the default
// sink when no frontend channel is attached.
type LogNotifier struct{}

func (LogNotifier) Notify(title, description string, severity Severity) {
	log.Printf("[%s] %s: %s", severity, title, description)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string, Severity) {}
