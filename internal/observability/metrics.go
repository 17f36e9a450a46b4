package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyoverflow_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studyoverflow_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesTotal counts applied vote toggles by subject kind and outcome.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyoverflow_votes_total",
		Help: "Total vote toggles by subject kind and outcome (inserted, removed, flipped)",
	}, []string{"kind", "outcome"})

	// VoteRetries counts vote transactions retried after a serialization failure or deadlock.
	VoteRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyoverflow_vote_retries_total",
		Help: "Vote transactions retried after a transient database conflict",
	}, []string{"kind"})

	// AcceptRetries counts accept-answer transactions retried after a deadlock.
	AcceptRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyoverflow_accept_retries_total",
		Help: "Accept-answer transactions retried after a transient database conflict",
	})

	// AnswersAccepted counts accepted-answer transitions.
	AnswersAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyoverflow_answers_accepted_total",
		Help: "Total number of answers marked as accepted",
	})

	// CommentsCreated counts created comments by level.
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyoverflow_comments_created_total",
		Help: "Total comments created, split into top-level answers and replies",
	}, []string{"level"})

	// NotificationsCreated counts notifications written by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyoverflow_notifications_created_total",
		Help: "Total notifications created by type",
	}, []string{"type"})

	ChatMessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyoverflow_chat_messages_sent_total",
		Help: "Total chat messages sent, split by direct and group chats",
	}, []string{"kind"})

	// ConsistencyWarnings counts dangling references replaced by placeholders.
	ConsistencyWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyoverflow_consistency_warnings_total",
		Help: "Dangling author or course references served with placeholders",
	})
)

// DatabaseMetrics records query latency for a repository.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordVote counts one applied vote toggle.
func RecordVote(kind, outcome string) {
	VotesTotal.WithLabelValues(kind, outcome).Inc()
}
