package campaign

import (
	"github.com/medreach/medreach/internal/domain/patient"
)

// Channel is the delivery medium chosen for one notification attempt.
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "Email"
	ChannelNone  Channel = "None"
)

// Route decides the delivery channel from the patient's stated preference. A
// preference whose contact field is missing, or no preference at all, routes
// to ChannelNone: the patient is skipped, not errored. The message passes
// through unchanged; any templating happens before routing.
func Route(p *patient.Patient, message string) (Channel, string) {
	switch p.NotificationPreference {
	case patient.PreferenceSMS:
		if patient.StrVal(p.PhoneNumber) != "" {
			return ChannelSMS, message
		}
	case patient.PreferenceEmail:
		if patient.StrVal(p.Email) != "" {
			return ChannelEmail, message
		}
	}
	return ChannelNone, message
}
