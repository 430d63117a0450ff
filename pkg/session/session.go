// Package session owns the UDP socket for the lifetime of a caller session and
// runs transactions one at a time on a background worker.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
	"github.com/MdSadiqMd/udp-sender/pkg/endpoint"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
	"github.com/MdSadiqMd/udp-sender/pkg/metrics"
	"github.com/MdSadiqMd/udp-sender/pkg/transaction"
	"github.com/MdSadiqMd/udp-sender/pkg/udp"
)

var ErrSessionClosed = errors.New("session: closed")

type Options struct {
	UDP        *udp.Config
	Endpoint   endpoint.Options
	Dispatcher Dispatcher
	Metrics    *metrics.TransactionMetrics
}

// Result is delivered once per transaction.
type Result struct {
	ID        uint64
	Text      string
	Kind      transaction.OutcomeKind
	State     transaction.State
	Truncated bool
	Hints     []string
	Target    string
	Duration  time.Duration
}

type job struct {
	tx         *transaction.Transaction
	target     endpoint.Endpoint
	onComplete func(Result)
}

type Session struct {
	ID         string
	transactor *udp.Transactor
	opts       Options
	metrics    *metrics.TransactionMetrics

	mu      sync.Mutex
	cond    *sync.Cond
	pending []*job
	closed  bool

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// Open creates the socket and starts the worker. A *udp.SocketInitError means
// the session is unusable.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Dispatcher == nil {
		opts.Dispatcher = Inline
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewTransactionMetrics()
	}

	tr := udp.NewTransactor(opts.UDP)
	if err := tr.Open(ctx); err != nil {
		return nil, err
	}

	s := &Session{
		ID:         fmt.Sprintf("session_%d", time.Now().UnixNano()),
		transactor: tr,
		opts:       opts,
		metrics:    opts.Metrics,
		done:       make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	go s.worker()
	return s, nil
}

func (s *Session) Metrics() *metrics.TransactionMetrics {
	return s.metrics
}

func (s *Session) Transactor() *udp.Transactor {
	return s.transactor
}

func (s *Session) EndpointOptions() endpoint.Options {
	return s.opts.Endpoint
}

// RunTransaction validates on the calling goroutine and queues the network
// work. onComplete receives exactly one line of text through the dispatcher.
func (s *Session) RunTransaction(message, ipText, portText string, onComplete func(string)) error {
	return s.Submit(message, ipText, portText, func(r Result) {
		if onComplete != nil {
			onComplete(r.Text)
		}
	})
}

// Submit is RunTransaction with the full result.
func (s *Session) Submit(message, ipText, portText string, onComplete func(Result)) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}

	tx := transaction.New(message, ipText, portText)
	s.metrics.RecordStart()
	tx.Advance(transaction.Validating)

	target, err := endpoint.Validate(ipText, portText, s.opts.Endpoint)
	if err != nil {
		var hints []string
		var ve *endpoint.ValidationError
		if errors.As(err, &ve) {
			hints = ve.Hints
		}
		tx.Fail(transaction.OutcomeValidationFailed, err.Error())
		logging.LogWarning("Transaction %d rejected: %s", tx.ID, err)
		s.finish(&job{tx: tx, onComplete: onComplete}, hints)
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.pending = append(s.pending, &job{tx: tx, target: target, onComplete: onComplete})
	s.cond.Signal()
	s.mu.Unlock()
	return nil
}

// Do submits a transaction and waits for its result. The dispatcher must be
// running for Do to return before ctx is done.
func (s *Session) Do(ctx context.Context, message, ipText, portText string) (Result, error) {
	results := make(chan Result, 1)
	if err := s.Submit(message, ipText, portText, func(r Result) { results <- r }); err != nil {
		return Result{}, err
	}
	select {
	case r := <-results:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (s *Session) worker() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		j := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.execute(j)
	}
}

func (s *Session) execute(j *job) {
	tx := j.tx
	tx.Advance(transaction.Sending)

	n, err := s.transactor.Send(context.Background(), tx.Message, j.target)
	if err != nil {
		kind := transaction.OutcomeSendFailed
		if endpoint.KindOf(err) == endpoint.EmptyMessage {
			kind = transaction.OutcomeValidationFailed
		}
		tx.Fail(kind, sendFailureText(err))
		logging.LogError("Transaction %d to %s failed: %v", tx.ID, j.target, err)
		s.finish(j, nil)
		return
	}
	tx.BytesSent = n
	s.metrics.RecordSent(n)
	tx.Advance(transaction.AwaitingReply)

	reply, ok := s.transactor.ReceiveOnce()
	if ok {
		tx.Reply(reply.Text, reply.Truncated)
		if reply.Truncated {
			logging.LogWarning("Transaction %d reply filled the %d-byte buffer and may be truncated", tx.ID, len(reply.Text))
		}
		logging.LogSuccess("Transaction %d replied from %s in %v", tx.ID, reply.From, tx.Duration().Round(time.Millisecond))
	} else {
		tx.Timeout(constants.MsgTimeout)
	}
	s.finish(j, nil)
}

func sendFailureText(err error) string {
	if errors.Is(err, udp.ErrHostNotFound) {
		return constants.MsgHostNotFound
	}
	return err.Error()
}

func (s *Session) finish(j *job, hints []string) {
	tx := j.tx
	s.metrics.RecordOutcome(tx)

	target := ""
	if j.target.IP != "" {
		target = j.target.String()
	}
	result := Result{
		ID:        tx.ID,
		Text:      tx.Outcome.Text,
		Kind:      tx.Outcome.Kind,
		State:     tx.State,
		Truncated: tx.Outcome.Truncated,
		Hints:     hints,
		Target:    target,
		Duration:  tx.Duration(),
	}
	if j.onComplete != nil {
		s.opts.Dispatcher.Dispatch(func() { j.onComplete(result) })
	}
}

// Close stops accepting transactions, closes the socket and waits for the
// worker. An in-flight receive ends as a timeout outcome; queued transactions
// fail with the closed-socket error. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.cond.Broadcast()
		s.mu.Unlock()

		s.closeErr = s.transactor.Close()
		<-s.done
		logging.LogInfo("Session %s closed after %d transactions", s.ID, s.metrics.Completed())
	})
	return s.closeErr
}
