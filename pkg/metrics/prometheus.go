package metrics

import "fmt"

func (m *TransactionMetrics) ToPrometheus(sessionID string) string {
	return fmt.Sprintf(`# HELP udp_transactions_started_total Transactions submitted
# TYPE udp_transactions_started_total counter
udp_transactions_started_total{session_id="%s"} %d

# HELP udp_transactions_replied_total Transactions that received a reply
# TYPE udp_transactions_replied_total counter
udp_transactions_replied_total{session_id="%s"} %d

# HELP udp_transactions_timed_out_total Transactions with no reply inside the receive window
# TYPE udp_transactions_timed_out_total counter
udp_transactions_timed_out_total{session_id="%s"} %d

# HELP udp_transactions_send_failed_total Transactions whose datagram could not be sent
# TYPE udp_transactions_send_failed_total counter
udp_transactions_send_failed_total{session_id="%s"} %d

# HELP udp_transactions_validation_failed_total Transactions rejected before any network I/O
# TYPE udp_transactions_validation_failed_total counter
udp_transactions_validation_failed_total{session_id="%s"} %d

# HELP udp_replies_truncated_total Replies that filled the receive buffer
# TYPE udp_replies_truncated_total counter
udp_replies_truncated_total{session_id="%s"} %d

# HELP udp_bytes_sent_total Payload bytes sent
# TYPE udp_bytes_sent_total counter
udp_bytes_sent_total{session_id="%s"} %d

# HELP udp_bytes_received_total Reply bytes received
# TYPE udp_bytes_received_total counter
udp_bytes_received_total{session_id="%s"} %d

# HELP udp_reply_rate_percent Replies over sent transactions
# TYPE udp_reply_rate_percent gauge
udp_reply_rate_percent{session_id="%s"} %.3f

# HELP udp_transaction_duration_avg_ms Mean transaction duration in milliseconds
# TYPE udp_transaction_duration_avg_ms gauge
udp_transaction_duration_avg_ms{session_id="%s"} %.3f
`,
		sessionID, m.Started(),
		sessionID, m.Replied(),
		sessionID, m.TimedOut(),
		sessionID, m.SendFailed(),
		sessionID, m.ValidationFailed(),
		sessionID, m.Truncated(),
		sessionID, m.BytesSent(),
		sessionID, m.BytesReceived(),
		sessionID, m.ReplyRate(),
		sessionID, m.AvgDurationMs(),
	)
}

func (m *TransactionMetrics) Snapshot() map[string]any {
	return map[string]any{
		"started":            m.Started(),
		"completed":          m.Completed(),
		"replied":            m.Replied(),
		"timed_out":          m.TimedOut(),
		"send_failed":        m.SendFailed(),
		"validation_failed":  m.ValidationFailed(),
		"truncated":          m.Truncated(),
		"bytes_sent":         m.BytesSent(),
		"bytes_received":     m.BytesReceived(),
		"reply_rate_percent": m.ReplyRate(),
		"avg_duration_ms":    m.AvgDurationMs(),
		"uptime_seconds":     m.Uptime().Seconds(),
	}
}
