package transaction

import (
	"fmt"
	"sync/atomic"
	"time"
)

type State int

const (
	Idle State = iota
	Validating
	Sending
	AwaitingReply
	Failed
	Replied
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Sending:
		return "sending"
	case AwaitingReply:
		return "awaiting_reply"
	case Failed:
		return "failed"
	case Replied:
		return "replied"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == Failed || s == Replied || s == TimedOut
}

// Allowed forward edges. Terminal states have none.
var transitions = map[State][]State{
	Idle:          {Validating},
	Validating:    {Failed, Sending},
	Sending:       {Failed, AwaitingReply},
	AwaitingReply: {Replied, TimedOut},
}

func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeReplied
	OutcomeTimedOut
	OutcomeSendFailed
	OutcomeValidationFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeReplied:
		return "replied"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeSendFailed:
		return "send_failed"
	case OutcomeValidationFailed:
		return "validation_failed"
	default:
		return "none"
	}
}

// Outcome is what the caller sees: a kind plus the single text line.
type Outcome struct {
	Kind      OutcomeKind
	Text      string
	Truncated bool
}

var nextID atomic.Uint64

// Transaction is one send-then-receive-once attempt. It is created per
// request and discarded after its outcome is delivered.
type Transaction struct {
	ID        uint64
	Message   string
	IP        string
	Port      string
	State     State
	Outcome   Outcome
	BytesSent int
	StartedAt time.Time
	EndedAt   time.Time
}

func New(message, ip, port string) *Transaction {
	return &Transaction{
		ID:        nextID.Add(1),
		Message:   message,
		IP:        ip,
		Port:      port,
		State:     Idle,
		StartedAt: time.Now(),
	}
}

// Advance moves to the next state; an illegal edge is a programming error.
func (t *Transaction) Advance(to State) {
	if !CanTransition(t.State, to) {
		panic(fmt.Sprintf("transaction %d: illegal transition %s -> %s", t.ID, t.State, to))
	}
	t.State = to
	if to.Terminal() {
		t.EndedAt = time.Now()
	}
}

func (t *Transaction) Fail(kind OutcomeKind, text string) {
	t.Advance(Failed)
	t.Outcome = Outcome{Kind: kind, Text: text}
}

func (t *Transaction) Reply(text string, truncated bool) {
	t.Advance(Replied)
	t.Outcome = Outcome{Kind: OutcomeReplied, Text: text, Truncated: truncated}
}

func (t *Transaction) Timeout(text string) {
	t.Advance(TimedOut)
	t.Outcome = Outcome{Kind: OutcomeTimedOut, Text: text}
}

func (t *Transaction) Duration() time.Duration {
	if t.EndedAt.IsZero() {
		return time.Since(t.StartedAt)
	}
	return t.EndedAt.Sub(t.StartedAt)
}
