package tasks

// Level is the severity of a [Notice].
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return ""
	}
}

// Notice is a short user-facing message (a toast in the TUI, a line on stderr in the CLI).
type Notice struct {
	Level   Level
	Message string
}

// send delivers n without blocking; a full or nil channel drops it.
func send[T any](ch chan<- T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}
