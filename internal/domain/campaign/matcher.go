// Package campaign implements targeted notification runs: selecting a patient
// segment from a registry snapshot and dispatching a message to each selected
// patient over their preferred channel, with every outcome recorded.
package campaign

import (
	"fmt"
	"strings"
	"time"

	"github.com/medreach/medreach/internal/domain/patient"
)

// SearchQuery filters patients on structured fields. Empty fields and nil
// bounds act as wildcards; set bounds are inclusive.
type SearchQuery struct {
	Name   string         `json:"name,omitempty"`
	Gender patient.Gender `json:"gender,omitempty"`
	MinAge *int           `json:"minAge,omitempty"`
	MaxAge *int           `json:"maxAge,omitempty"`
}

func (q SearchQuery) Validate() error {
	if q.MinAge != nil && *q.MinAge < 0 {
		return fmt.Errorf("minAge must not be negative")
	}
	if q.MaxAge != nil && *q.MaxAge < 0 {
		return fmt.Errorf("maxAge must not be negative")
	}
	if q.MinAge != nil && q.MaxAge != nil && *q.MinAge > *q.MaxAge {
		return fmt.Errorf("minAge %d exceeds maxAge %d", *q.MinAge, *q.MaxAge)
	}
	return nil
}

// Matches reports whether the patient satisfies every non-empty field of the
// query. Name matching is a case-insensitive substring test, gender is exact.
// A patient whose birth date lies after asOf never matches an age-bounded
// query; the defect is scoped to that patient, not the whole query.
func (q SearchQuery) Matches(p *patient.Patient, asOf time.Time) bool {
	if q.Name != "" && !containsFold(p.Name, q.Name) {
		return false
	}
	if q.Gender != "" && p.Gender != q.Gender {
		return false
	}
	if q.MinAge != nil || q.MaxAge != nil {
		age, err := p.AgeAt(asOf)
		if err != nil {
			return false
		}
		if q.MinAge != nil && age < *q.MinAge {
			return false
		}
		if q.MaxAge != nil && age > *q.MaxAge {
			return false
		}
	}
	return true
}

// matchesText is the free-text criteria predicate: a case-insensitive
// substring test against the union of the patient's fields plus the campaign
// label and message. Any one hit is a match; absent optional fields behave as
// empty strings. An empty needle matches everything.
func matchesText(p *patient.Patient, text, label, message string) bool {
	if text == "" {
		return true
	}
	fields := []string{
		p.Name,
		p.BirthDate.String(),
		string(p.Gender),
		patient.StrVal(p.NationalID),
		patient.StrVal(p.PassportNumber),
		patient.StrVal(p.Email),
		patient.StrVal(p.PhoneNumber),
		string(p.NotificationPreference),
		message,
		label,
	}
	for _, f := range fields {
		if containsFold(f, text) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
