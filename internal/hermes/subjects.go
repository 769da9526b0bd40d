package hermes

import "time"

const (
	StreamName     = "RESILIENCE_EVENTS"
	StreamSubjects = "resilience.assessment.>"
	StreamMaxAge   = 30 * 24 * time.Hour
)

func SubjectAssessmentInitialized(sessionID string) string {
	return "resilience.assessment." + sessionID + ".initialized"
}
func SubjectAssessmentUpdated(sessionID string) string {
	return "resilience.assessment." + sessionID + ".updated"
}
func SubjectAssessmentReset(sessionID string) string {
	return "resilience.assessment." + sessionID + ".reset"
}
