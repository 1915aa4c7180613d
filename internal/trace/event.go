package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeRun covers a whole command invocation.
	ScopeRun Scope = iota + 1
	// ScopeEntry covers the analysis of one entry file.
	ScopeEntry
	// ScopeFile covers one file or module parsed on behalf of an entry.
	ScopeFile
	// ScopeDetail is everything finer, such as autoload lookups.
	ScopeDetail
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeEntry:
		return "entry"
	case ScopeFile:
		return "file"
	case ScopeDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64 // goroutine that opened the span
	Name     string
	Detail   string
	Extra    map[string]string
}
