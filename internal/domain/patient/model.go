// Package patient holds the patient registry: the contact-and-identity record
// every outreach run reads, plus its storage and HTTP surface.
package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender is the administrative gender recorded for a patient.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Preference is the patient's stated notification channel preference.
type Preference string

const (
	PreferenceSMS   Preference = "SMS"
	PreferenceEmail Preference = "Email"
	PreferenceNone  Preference = "None"
)

// Date is a calendar date without a time-of-day component. It marshals to and
// from the "2006-01-02" form used throughout the API.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Tolerate full timestamps from clients that send RFC 3339.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
		}
	}
	d.Time = t.UTC()
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Patient maps to the patient table. Optional contact and identity fields are
// pointers so that absence survives the round trip through storage and JSON.
type Patient struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	Name                   string     `db:"name" json:"name"`
	BirthDate              Date       `db:"birth_date" json:"birthDate"`
	Gender                 Gender     `db:"gender" json:"gender"`
	NationalID             *string    `db:"national_id" json:"nationalId,omitempty"`
	PassportNumber         *string    `db:"passport_number" json:"passportNumber,omitempty"`
	Email                  *string    `db:"email" json:"email,omitempty"`
	PhoneNumber            *string    `db:"phone_number" json:"phoneNumber,omitempty"`
	NotificationPreference Preference `db:"notification_preference" json:"notificationPreference"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// StrVal dereferences an optional string field, treating nil as empty.
func StrVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func hasValue(s *string) bool { return s != nil && *s != "" }

var validGenders = map[Gender]bool{
	GenderMale:   true,
	GenderFemale: true,
}

var validPreferences = map[Preference]bool{
	PreferenceSMS:   true,
	PreferenceEmail: true,
	PreferenceNone:  true,
}

// Validate checks the registry-level invariants for a patient record. The
// outreach engine itself tolerates missing optional fields; this guards what
// gets written into the registry.
func (p *Patient) Validate(now time.Time) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birthDate is required")
	}
	if p.BirthDate.After(now) {
		return fmt.Errorf("birthDate %s is in the future", p.BirthDate)
	}
	if !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %q", p.Gender)
	}
	if p.NotificationPreference != "" && !validPreferences[p.NotificationPreference] {
		return fmt.Errorf("invalid notificationPreference: %q", p.NotificationPreference)
	}
	if !hasValue(p.NationalID) && !hasValue(p.PassportNumber) {
		return fmt.Errorf("at least one of nationalId or passportNumber is required")
	}
	if !hasValue(p.Email) && !hasValue(p.PhoneNumber) {
		return fmt.Errorf("at least one of email or phoneNumber is required")
	}
	return nil
}

// Clone returns an independent copy of the patient record.
func (p *Patient) Clone() *Patient {
	cp := *p
	cp.NationalID = cloneStr(p.NationalID)
	cp.PassportNumber = cloneStr(p.PassportNumber)
	cp.Email = cloneStr(p.Email)
	cp.PhoneNumber = cloneStr(p.PhoneNumber)
	return &cp
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
