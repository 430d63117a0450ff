package metrics

import (
	"sync/atomic"
	"time"

	"github.com/MdSadiqMd/udp-sender/pkg/transaction"
)

// TransactionMetrics counts outcomes for one session.
type TransactionMetrics struct {
	started          atomic.Int64
	replied          atomic.Int64
	timedOut         atomic.Int64
	sendFailed       atomic.Int64
	validationFailed atomic.Int64
	truncated        atomic.Int64
	bytesSent        atomic.Int64
	bytesReceived    atomic.Int64
	// Microseconds spent in completed transactions
	durationMicros   atomic.Int64
	startTime        time.Time
}

func NewTransactionMetrics() *TransactionMetrics {
	return &TransactionMetrics{startTime: time.Now()}
}

func (m *TransactionMetrics) RecordStart() {
	m.started.Add(1)
}

func (m *TransactionMetrics) RecordSent(n int) {
	m.bytesSent.Add(int64(n))
}

func (m *TransactionMetrics) RecordOutcome(tx *transaction.Transaction) {
	switch tx.Outcome.Kind {
	case transaction.OutcomeReplied:
		m.replied.Add(1)
		m.bytesReceived.Add(int64(len(tx.Outcome.Text)))
		if tx.Outcome.Truncated {
			m.truncated.Add(1)
		}
	case transaction.OutcomeTimedOut:
		m.timedOut.Add(1)
	case transaction.OutcomeSendFailed:
		m.sendFailed.Add(1)
	case transaction.OutcomeValidationFailed:
		m.validationFailed.Add(1)
	}
	m.durationMicros.Add(tx.Duration().Microseconds())
}

func (m *TransactionMetrics) Started() int64 { return m.started.Load() }
func (m *TransactionMetrics) Replied() int64 { return m.replied.Load() }
func (m *TransactionMetrics) TimedOut() int64 { return m.timedOut.Load() }
func (m *TransactionMetrics) SendFailed() int64 { return m.sendFailed.Load() }
func (m *TransactionMetrics) ValidationFailed() int64 { return m.validationFailed.Load() }
func (m *TransactionMetrics) Truncated() int64 { return m.truncated.Load() }
func (m *TransactionMetrics) BytesSent() int64 { return m.bytesSent.Load() }
func (m *TransactionMetrics) BytesReceived() int64 { return m.bytesReceived.Load() }

func (m *TransactionMetrics) Completed() int64 {
	return m.Replied() + m.TimedOut() + m.SendFailed() + m.ValidationFailed()
}

// Reply rate over transactions that actually reached the network
func (m *TransactionMetrics) ReplyRate() float64 {
	sent := m.Replied() + m.TimedOut()
	if sent == 0 {
		return 0
	}
	return float64(m.Replied()) * 100 / float64(sent)
}

func (m *TransactionMetrics) AvgDurationMs() float64 {
	done := m.Completed()
	if done == 0 {
		return 0
	}
	return float64(m.durationMicros.Load()) / float64(done) / 1000
}

func (m *TransactionMetrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
