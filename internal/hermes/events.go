package hermes

import "time"

// AssessmentEvent is published after initialization and after every mutation.
type AssessmentEvent struct {
	SessionID         string    `json:"session_id"`
	Operation         string    `json:"operation"`
	Origin            string    `json:"origin,omitempty"`
	MetricID          string    `json:"metric_id,omitempty"`
	CER               float64   `json:"cer"`
	RecoveryReduction int       `json:"recovery_reduction"`
	StressIndex       int       `json:"stress_index"`
	PivotTier         string    `json:"pivot_tier"`
	Timestamp         time.Time `json:"timestamp"`
}
