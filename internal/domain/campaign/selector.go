package campaign

import (
	"time"

	"github.com/medreach/medreach/internal/domain/patient"
)

// Criteria is one campaign rule: a human-readable label, the message to send,
// and an AND-combined predicate set. Multi-rule campaigns are composed by the
// caller, one Select per rule.
type Criteria struct {
	Label   string      `json:"label"`
	Message string      `json:"message"`
	Query   SearchQuery `json:"query"`
	Text    string      `json:"text,omitempty"`
}

// Selection is one selected patient together with the rule that matched and
// the message to deliver.
type Selection struct {
	Patient      *patient.Patient
	MatchedLabel string
	Message      string
}

// Select applies a campaign rule to a registry snapshot and returns the
// matching patients in snapshot order. The structured query and the free-text
// predicate are AND-combined. An empty result is a valid outcome.
func Select(patients []*patient.Patient, c Criteria, asOf time.Time) []Selection {
	selected := []Selection{}
	for _, p := range patients {
		if !c.Query.Matches(p, asOf) {
			continue
		}
		if !matchesText(p, c.Text, c.Label, c.Message) {
			continue
		}
		selected = append(selected, Selection{
			Patient:      p,
			MatchedLabel: c.Label,
			Message:      c.Message,
		})
	}
	return selected
}
