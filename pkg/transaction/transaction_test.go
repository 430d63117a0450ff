package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappyPathTransitions(t *testing.T) {
	tx := New("hello", "192.168.1.5", "9000")
	require.Equal(t, Idle, tx.State)

	tx.Advance(Validating)
	tx.Advance(Sending)
	tx.Advance(AwaitingReply)
	tx.Reply("pong", false)

	assert.Equal(t, Replied, tx.State)
	assert.True(t, tx.State.Terminal())
	assert.Equal(t, OutcomeReplied, tx.Outcome.Kind)
	assert.Equal(t, "pong", tx.Outcome.Text)
	assert.False(t, tx.EndedAt.IsZero())
}

func TestValidationFailureIsTerminal(t *testing.T) {
	tx := New("hello", "", "9000")
	tx.Advance(Validating)
	tx.Fail(OutcomeValidationFailed, "IP is invalid")

	assert.Equal(t, Failed, tx.State)
	assert.Panics(t, func() { tx.Advance(Sending) })
}

func TestNoSkippingSend(t *testing.T) {
	tx := New("hello", "10.0.0.1", "80")
	tx.Advance(Validating)
	assert.Panics(t, func() { tx.Advance(AwaitingReply) })
}

func TestTerminalStatesHaveNoEdges(t *testing.T) {
	all := []State{Idle, Validating, Sending, AwaitingReply, Failed, Replied, TimedOut}
	for _, from := range []State{Failed, Replied, TimedOut} {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIDsAreUnique(t *testing.T) {
	a := New("a", "", "")
	b := New("b", "", "")
	assert.NotEqual(t, a.ID, b.ID)
}
