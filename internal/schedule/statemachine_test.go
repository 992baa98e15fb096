package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinigo/agenda-api/internal/model"
	apperrors "github.com/clinigo/agenda-api/pkg/errors"
)

var (
	receptionist = model.Caller{Role: model.RoleReceptionist, Name: "Laura Pineda"}
	doctor       = model.Caller{Role: model.RoleDoctor, Name: "Carlos Mejia"}
)

func appointmentWith(status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		Status:    status,
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.AppointmentStatus
		want     bool
	}{
		{model.AppointmentStatusScheduled, model.AppointmentStatusInRoom, true},
		{model.AppointmentStatusScheduled, model.AppointmentStatusNoShow, true},
		{model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, true},
		{model.AppointmentStatusScheduled, model.AppointmentStatusAttended, false},
		{model.AppointmentStatusInRoom, model.AppointmentStatusAttended, true},
		{model.AppointmentStatusInRoom, model.AppointmentStatusCancelled, true},
		{model.AppointmentStatusInRoom, model.AppointmentStatusNoShow, false},
		{model.AppointmentStatusInRoom, model.AppointmentStatusScheduled, false},
		{model.AppointmentStatusAttended, model.AppointmentStatusCancelled, false},
		{model.AppointmentStatusNoShow, model.AppointmentStatusScheduled, false},
		{model.AppointmentStatusCancelled, model.AppointmentStatusScheduled, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionTerminalStatusesAreFinal(t *testing.T) {
	terminals := []model.AppointmentStatus{
		model.AppointmentStatusAttended,
		model.AppointmentStatusNoShow,
		model.AppointmentStatusCancelled,
	}
	targets := []model.AppointmentStatus{
		model.AppointmentStatusScheduled,
		model.AppointmentStatusInRoom,
		model.AppointmentStatusNoShow,
		model.AppointmentStatusCancelled,
	}

	for _, from := range terminals {
		for _, to := range targets {
			if from == to {
				continue
			}
			_, err := Transition(appointmentWith(from), to, doctor)
			require.Errorf(t, err, "%s -> %s", from, to)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidTransition))
		}
	}
}

func TestTransitionAttendedRequiresClinicalRole(t *testing.T) {
	// administrative callers are refused regardless of the current status
	for _, from := range []model.AppointmentStatus{
		model.AppointmentStatusScheduled,
		model.AppointmentStatusInRoom,
		model.AppointmentStatusCancelled,
	} {
		_, err := Transition(appointmentWith(from), model.AppointmentStatusAttended, receptionist)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized), "from %s", from)
	}

	// a doctor may attend, but only from EN_SALA
	updated, err := Transition(appointmentWith(model.AppointmentStatusInRoom), model.AppointmentStatusAttended, doctor)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusAttended, updated.Status)

	_, err = Transition(appointmentWith(model.AppointmentStatusScheduled), model.AppointmentStatusAttended, doctor)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidTransition))
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	apt := appointmentWith(model.AppointmentStatusScheduled)

	updated, err := Transition(apt, model.AppointmentStatusInRoom, receptionist)
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, model.AppointmentStatusInRoom, updated.Status)
	assert.Equal(t, apt.ID, updated.ID)
}

func TestTransitionNormalizesUnknownStoredStatus(t *testing.T) {
	apt := appointmentWith(model.AppointmentStatus("pendiente"))

	updated, err := Transition(apt, model.AppointmentStatusInRoom, receptionist)
	require.NoError(t, err, "unknown stored status behaves as PROGRAMADO")
	assert.Equal(t, model.AppointmentStatusInRoom, updated.Status)
}

func TestTransitionRejectsUnknownTarget(t *testing.T) {
	_, err := Transition(appointmentWith(model.AppointmentStatusScheduled), model.AppointmentStatus("ARCHIVADA"), receptionist)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}
