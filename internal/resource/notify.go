// internal/resource/notify.go
package resource

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultNoticeTTL is how long a notice stays visible.
const DefaultNoticeTTL = 6 * time.Second

// Action names a mutation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionPatch  Action = "patch"
	ActionRemove Action = "remove"
)

// Outcome is the result of one mutation.
type Outcome struct {
	Resource string
	Action   Action
	ID       int64
	Err      error
}

// Succeeded reports whether the mutation went through.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Message renders the outcome for a user.
func (o Outcome) Message() string {
	if o.Err != nil {
		return fmt.Sprintf("Error: could not %s %s", o.Action, singular(o.Resource))
	}
	return fmt.Sprintf("%s %s", capitalize(singular(o.Resource)), pastTense(o.Action))
}

// Notifier receives every mutation outcome.
type Notifier interface {
	Notify(Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Outcome)

func (f NotifierFunc) Notify(o Outcome) { f(o) }

type nopNotifier struct{}

func (nopNotifier) Notify(Outcome) {}

// Severity of a notice.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is a transient message shown to the user.
type Notice struct {
	Message  string
	Severity Severity
	Expires  time.Time
}

// Notices keeps the latest outcome visible until its TTL runs out.
type Notices struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *Notice
}

// NewNotices creates a notice board. A non-positive ttl uses DefaultNoticeTTL.
func NewNotices(ttl time.Duration, now func() time.Time) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Notices{ttl: ttl, now: now}
}

// Notify replaces the visible notice with one describing o.
func (n *Notices) Notify(o Outcome) {
	sev := SeveritySuccess
	if o.Err != nil {
		sev = SeverityError
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = &Notice{Message: o.Message(), Severity: sev, Expires: n.now().Add(n.ttl)}
}

// Active returns the visible notice, dismissing it once expired.
func (n *Notices) Active() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	if !n.now().Before(n.current.Expires) {
		n.current = nil
		return Notice{}, false
	}
	return *n.current, true
}

// Dismiss hides the visible notice.
func (n *Notices) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
}

// LogNotifier writes outcomes to the diagnostic log.
func LogNotifier(l *zap.Logger) Notifier {
	return NotifierFunc(func(o Outcome) {
		if o.Err != nil {
			l.Warn(o.Message(), zap.String("resource", o.Resource), zap.Error(o.Err))
			return
		}
		l.Info(o.Message(), zap.String("resource", o.Resource), zap.Int64("id", o.ID))
	})
}

// Fanout delivers every outcome to each notifier in order.
func Fanout(ns ...Notifier) Notifier {
	return NotifierFunc(func(o Outcome) {
		for _, n := range ns {
			n.Notify(o)
		}
	})
}

func singular(resource string) string {
	if len(resource) > 1 && resource[len(resource)-1] == 's' {
		return resource[:len(resource)-1]
	}
	return resource
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

func pastTense(a Action) string {
	switch a {
	case ActionCreate:
		return "created successfully!"
	case ActionUpdate:
		return "updated successfully!"
	case ActionPatch:
		return "changed successfully!"
	case ActionRemove:
		return "removed successfully!"
	default:
		return string(a) + " done"
	}
}
