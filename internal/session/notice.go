package session

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a toast-style message for the operator. Err carries the
// sentinel behind it, when there is one.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

// Notifier receives notices. Notify is called with the session lock held and
// must not call back into the session.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

func (s *Session) notify(level Level, msg string, err error) {
	s.notifier.Notify(Notice{Level: level, Message: msg, Err: err})
}

// reject notifies err as an error notice and returns it.
func (s *Session) reject(msg string, err error) error {
	s.notify(LevelError, msg, err)
	return err
}
