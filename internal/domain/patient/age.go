package patient

import (
	"errors"
	"time"
)

// ErrFutureBirthDate is returned when a birth date falls after the reference
// date. Callers filtering on age treat the patient as non-matching instead of
// failing the whole query.
var ErrFutureBirthDate = errors.New("birth date is after the reference date")

// Age computes whole completed years between birthDate and asOf. A birthday
// falling on asOf itself counts as completed; one not yet reached this year
// counts one year less. Time-of-day components are ignored.
func Age(birthDate, asOf time.Time) (int, error) {
	b := time.Date(birthDate.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	if b.After(a) {
		return 0, ErrFutureBirthDate
	}

	years := a.Year() - b.Year()
	if a.Month() < b.Month() || (a.Month() == b.Month() && a.Day() < b.Day()) {
		years--
	}
	return years, nil
}

// AgeAt derives the patient's age at the given reference date.
func (p *Patient) AgeAt(asOf time.Time) (int, error) {
	return Age(p.BirthDate.Time, asOf)
}
