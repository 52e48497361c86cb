// Package notify surfaces user-facing notifications. The workbench shows
// these as toasts; the CLI renders them on the terminal with an optional
// interactive action prompt.
package notify

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the display label for a severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Action is a button attached to a notification.
type Action struct {
	Label string
	Run   func() error
}

// Notification is a single user-facing message with optional actions.
type Notification struct {
	Severity Severity
	Message  string
	Actions  []Action
}

// Service delivers notifications to the user.
type Service interface {
	// Notify shows a notification; in interactive settings the user may
	// invoke one of its actions.
	Notify(n Notification) error

	// Info shows a plain informational message with no actions.
	Info(message string)
}
