package schedule

import (
	"time"

	"github.com/clinigo/agenda-api/internal/model"
	apperrors "github.com/clinigo/agenda-api/pkg/errors"
)

// transitions defines every legal status change. Terminal statuses map to
// nothing: an attended, no-show or cancelled appointment never moves again.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusInRoom,
		model.AppointmentStatusNoShow,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusInRoom: {
		model.AppointmentStatusAttended,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusAttended:  {},
	model.AppointmentStatusNoShow:    {},
	model.AppointmentStatusCancelled: {},
}

// AllowedTransitions returns the statuses reachable from the given one.
func AllowedTransitions(from model.AppointmentStatus) []model.AppointmentStatus {
	allowed := transitions[model.NormalizeStatus(string(from))]
	out := make([]model.AppointmentStatus, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether from may legally become to.
func CanTransition(from, to model.AppointmentStatus) bool {
	for _, s := range transitions[model.NormalizeStatus(string(from))] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition validates the requested status change against the machine and
// the caller's capabilities and returns an updated copy of the appointment.
// The input is never mutated; committing the change is the coordinator's
// job, after cascades have succeeded.
func Transition(apt *model.Appointment, target model.AppointmentStatus, caller model.Caller) (*model.Appointment, error) {
	if !target.IsValid() {
		return nil, apperrors.BadRequest("unknown status "+string(target), nil)
	}

	if target == model.AppointmentStatusAttended && !caller.Role.CanMarkAttended() {
		return nil, apperrors.Unauthorized("role " + string(caller.Role) + " cannot mark appointments attended")
	}

	current := model.NormalizeStatus(string(apt.Status))
	if !CanTransition(current, target) {
		return nil, apperrors.InvalidTransition(string(current), string(target))
	}

	updated := *apt
	updated.Status = target
	updated.UpdatedAt = time.Now()
	return &updated, nil
}
