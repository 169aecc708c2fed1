package campaign

import (
	"strings"

	"github.com/medreach/medreach/internal/domain/patient"
)

// Render performs {{key}} replacement on a campaign message. Keys present in
// the message but absent from data are left as-is. The dispatch engine sends
// the message verbatim; rendering happens here, before routing.
func Render(message string, data map[string]string) string {
	for k, v := range data {
		message = strings.ReplaceAll(message, "{{"+k+"}}", v)
	}
	return message
}

// templateData exposes the patient fields a campaign message may reference.
func templateData(p *patient.Patient) map[string]string {
	return map[string]string{
		"name":      p.Name,
		"gender":    string(p.Gender),
		"birthDate": p.BirthDate.String(),
	}
}
