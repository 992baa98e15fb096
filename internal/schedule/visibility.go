package schedule

import (
	"strings"

	"github.com/clinigo/agenda-api/internal/model"
)

// VisibleAppointments restricts the snapshot to what the caller may see.
// Administrative roles get everything. Clinical roles get only their own
// appointments: by practitioner id when both sides carry one, otherwise by
// name match against the stored free-text practitioner name. Legacy rows
// predate stable practitioner ids, so the name fallback stays.
func VisibleAppointments(appointments []*model.Appointment, caller model.Caller) []*model.Appointment {
	if caller.Role.IsAdministrative() {
		return appointments
	}

	visible := make([]*model.Appointment, 0, len(appointments))
	for _, apt := range appointments {
		if isAssignedTo(apt, caller) {
			visible = append(visible, apt)
		}
	}
	return visible
}

// PendingAppointments keeps only appointments still awaiting resolution,
// for agenda views that hide attended, no-show and cancelled entries.
func PendingAppointments(appointments []*model.Appointment) []*model.Appointment {
	pending := make([]*model.Appointment, 0, len(appointments))
	for _, apt := range appointments {
		switch model.NormalizeStatus(string(apt.Status)) {
		case model.AppointmentStatusScheduled, model.AppointmentStatusInRoom:
			pending = append(pending, apt)
		}
	}
	return pending
}

func isAssignedTo(apt *model.Appointment, caller model.Caller) bool {
	if apt == nil {
		return false
	}
	if caller.PractitionerID != nil && apt.PractitionerID != nil {
		return *caller.PractitionerID == *apt.PractitionerID
	}
	return nameMatches(apt.PractitionerName, caller.Name)
}

// nameMatches is a best-effort substring comparison: the stored name must
// contain the caller's first name, last name or full name, ignoring case.
// Two practitioners with overlapping names can leak visibility here; that is
// a known limitation of the historical free-text data, not a feature.
func nameMatches(practitionerName, callerName string) bool {
	stored := strings.ToLower(strings.TrimSpace(practitionerName))
	full := strings.ToLower(strings.TrimSpace(callerName))
	if stored == "" || full == "" {
		return false
	}

	if strings.Contains(stored, full) {
		return true
	}

	parts := strings.Fields(full)
	if len(parts) == 0 {
		return false
	}
	first := parts[0]
	last := parts[len(parts)-1]

	return strings.Contains(stored, first) || strings.Contains(stored, last)
}
