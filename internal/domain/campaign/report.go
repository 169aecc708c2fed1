package campaign

import (
	"time"

	"github.com/google/uuid"
)

// Status is the recorded outcome of one notification attempt.
type Status string

const (
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Attempt is the immutable record of one patient's delivery outcome within a
// dispatch run.
type Attempt struct {
	ID            uuid.UUID `json:"id"`
	PatientID     uuid.UUID `json:"patientId"`
	PatientName   string    `json:"patientName"`
	Channel       Channel   `json:"notificationType"`
	Message       string    `json:"message"`
	Criteria      string    `json:"criteria,omitempty"`
	Status        Status    `json:"status"`
	FailureReason string    `json:"failureReason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Report aggregates the attempts of one dispatch run for the caller. Attempt
// order matches dispatch input order; building the report never filters or
// re-sorts.
type Report struct {
	Attempts  []Attempt       `json:"attempts"`
	Total     int             `json:"total"`
	Sent      int             `json:"sent"`
	Failed    int             `json:"failed"`
	Skipped   int             `json:"skipped"`
	ByChannel map[Channel]int `json:"byChannel"`
}

// BuildReport assembles the caller-facing report from a run's attempts. It is
// separate from the orchestrator so custom aggregation never alters dispatch
// behavior.
func BuildReport(attempts []Attempt) *Report {
	r := &Report{
		Attempts:  attempts,
		Total:     len(attempts),
		ByChannel: make(map[Channel]int),
	}
	for _, a := range attempts {
		switch a.Status {
		case StatusSent:
			r.Sent++
		case StatusFailed:
			r.Failed++
		case StatusSkipped:
			r.Skipped++
		}
		r.ByChannel[a.Channel]++
	}
	return r
}
