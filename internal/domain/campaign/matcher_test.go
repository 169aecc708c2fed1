package campaign

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medreach/medreach/internal/domain/patient"
)

var asOf = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

type patientOpt func(*patient.Patient)

func withPreference(pref patient.Preference) patientOpt {
	return func(p *patient.Patient) { p.NotificationPreference = pref }
}

func withPhone(phone string) patientOpt {
	return func(p *patient.Patient) { p.PhoneNumber = strPtr(phone) }
}

func withEmail(email string) patientOpt {
	return func(p *patient.Patient) { p.Email = strPtr(email) }
}

func withNoContacts() patientOpt {
	return func(p *patient.Patient) {
		p.PhoneNumber = nil
		p.Email = nil
	}
}

func withGender(g patient.Gender) patientOpt {
	return func(p *patient.Patient) { p.Gender = g }
}

// testPatient builds a female patient born 1958-04-02 (age 66 at the fixed
// reference date) with both contacts present and an SMS preference.
func testPatient(name string, opts ...patientOpt) *patient.Patient {
	p := &patient.Patient{
		ID:                     uuid.New(),
		Name:                   name,
		BirthDate:              patient.NewDate(1958, time.April, 2),
		Gender:                 patient.GenderFemale,
		NationalID:             strPtr("12345678"),
		PhoneNumber:            strPtr("+5511999990000"),
		Email:                  strPtr(name + "@example.com"),
		NotificationPreference: patient.PreferenceSMS,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func bornIn(year int) patientOpt {
	return func(p *patient.Patient) { p.BirthDate = patient.NewDate(year, time.January, 15) }
}

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       SearchQuery
		wantErr bool
	}{
		{"empty query", SearchQuery{}, false},
		{"valid bounds", SearchQuery{MinAge: intPtr(40), MaxAge: intPtr(59)}, false},
		{"equal bounds", SearchQuery{MinAge: intPtr(50), MaxAge: intPtr(50)}, false},
		{"negative min", SearchQuery{MinAge: intPtr(-1)}, true},
		{"negative max", SearchQuery{MaxAge: intPtr(-5)}, true},
		{"inverted bounds", SearchQuery{MinAge: intPtr(60), MaxAge: intPtr(40)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchQueryMatches(t *testing.T) {
	ana := testPatient("Ana Silva")

	tests := []struct {
		name string
		q    SearchQuery
		p    *patient.Patient
		want bool
	}{
		{"empty query matches all", SearchQuery{}, ana, true},
		{"name substring", SearchQuery{Name: "silva"}, ana, true},
		{"name case-insensitive", SearchQuery{Name: "ANA"}, ana, true},
		{"name miss", SearchQuery{Name: "Bo"}, ana, false},
		{"gender exact", SearchQuery{Gender: patient.GenderFemale}, ana, true},
		{"gender miss", SearchQuery{Gender: patient.GenderMale}, ana, false},
		{"min age inclusive", SearchQuery{MinAge: intPtr(66)}, ana, true},
		{"min age too high", SearchQuery{MinAge: intPtr(67)}, ana, false},
		{"max age inclusive", SearchQuery{MaxAge: intPtr(66)}, ana, true},
		{"max age too low", SearchQuery{MaxAge: intPtr(65)}, ana, false},
		{"all fields and-combined", SearchQuery{Name: "Ana", Gender: patient.GenderFemale, MinAge: intPtr(60), MaxAge: intPtr(70)}, ana, true},
		{"one failing predicate rejects", SearchQuery{Name: "Ana", Gender: patient.GenderMale}, ana, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Matches(tt.p, asOf); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchQueryMatches_AgeBoundary(t *testing.T) {
	// Birthday exactly on the reference date: the year counts as completed.
	p := testPatient("Boundary")
	p.BirthDate = patient.NewDate(1964, time.June, 1)

	if !(SearchQuery{MinAge: intPtr(60)}).Matches(p, asOf) {
		t.Error("patient turning 60 on the reference date should match minAge 60")
	}

	// One day later: still 59.
	p.BirthDate = patient.NewDate(1964, time.June, 2)
	if (SearchQuery{MinAge: intPtr(60)}).Matches(p, asOf) {
		t.Error("patient one day short of 60 should not match minAge 60")
	}
}

func TestSearchQueryMatches_FutureBirthDate(t *testing.T) {
	p := testPatient("Future")
	p.BirthDate = patient.NewDate(2030, time.January, 1)

	if (SearchQuery{MinAge: intPtr(0)}).Matches(p, asOf) {
		t.Error("future birth date must not match an age-bounded query")
	}
	// Without age bounds the record still matches on other fields.
	if !(SearchQuery{Name: "Future"}).Matches(p, asOf) {
		t.Error("future birth date should not block non-age predicates")
	}
}

func TestMatchesText(t *testing.T) {
	ana := testPatient("Ana Silva", withPhone("+5511988887777"))

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty text matches", "", true},
		{"name hit", "silva", true},
		{"phone hit", "8888", true},
		{"email hit", "example.com", true},
		{"birth date hit", "1958-04", true},
		{"gender hit", "female", true},
		{"preference hit", "sms", true},
		{"no hit", "zzz-nothing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesText(ana, tt.text, "label", "message"); got != tt.want {
				t.Errorf("matchesText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}

	t.Run("label and message are searched", func(t *testing.T) {
		if !matchesText(ana, "checkup", "annual checkup", "msg") {
			t.Error("expected hit on label")
		}
		if !matchesText(ana, "screening", "label", "routine screening due") {
			t.Error("expected hit on message")
		}
	})

	t.Run("nil optional fields behave as empty", func(t *testing.T) {
		p := testPatient("Bare", withNoContacts())
		p.NationalID = nil
		p.PassportNumber = nil
		if matchesText(p, "+55", "label", "message") {
			t.Error("nil fields must not match")
		}
		if !matchesText(p, "bare", "label", "message") {
			t.Error("name should still match")
		}
	})
}
