package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/clinigo/agenda-api/internal/email"
	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/repository"
	"github.com/clinigo/agenda-api/internal/schedule"
	"github.com/clinigo/agenda-api/internal/service/audit"
	apperrors "github.com/clinigo/agenda-api/pkg/errors"
	"github.com/clinigo/agenda-api/pkg/locker"
	"github.com/clinigo/agenda-api/pkg/logger"
	"github.com/clinigo/agenda-api/pkg/metrics"
)

const defaultGridCacheTTL = 30 * time.Second

// Service coordinates the day agenda: slot grids, bookings and status
// transitions. Status mutations are serialized per appointment id through
// the locker; the appointment store is re-read inside the lock so a second
// request always sees the first one's outcome.
type Service struct {
	appointments  repository.AppointmentRepository
	records       repository.ClinicalRecordRepository
	patients      repository.PatientRepository
	practitioners repository.PractitionerRepository
	generator     *schedule.Generator
	locks         locker.Locker
	auditor       *audit.Service
	mailer        email.Service
	m             *metrics.Metrics
	log           *logger.Logger
	gridCache     *cache.Cache
}

type Options struct {
	GridCacheTTL time.Duration
}

func NewService(
	appointments repository.AppointmentRepository,
	records repository.ClinicalRecordRepository,
	patients repository.PatientRepository,
	practitioners repository.PractitionerRepository,
	generator *schedule.Generator,
	locks locker.Locker,
	auditor *audit.Service,
	mailer email.Service,
	m *metrics.Metrics,
	log *logger.Logger,
	opts *Options,
) *Service {
	ttl := defaultGridCacheTTL
	if opts != nil && opts.GridCacheTTL > 0 {
		ttl = opts.GridCacheTTL
	}
	return &Service{
		appointments:  appointments,
		records:       records,
		patients:      patients,
		practitioners: practitioners,
		generator:     generator,
		locks:         locks,
		auditor:       auditor,
		mailer:        mailer,
		m:             m,
		log:           log,
		gridCache:     cache.New(ttl, 2*ttl),
	}
}

// PractitionerAgenda is one practitioner's column of the day view.
type PractitionerAgenda struct {
	Practitioner *model.Practitioner  `json:"practitioner"`
	Slots        []model.TimeSlot     `json:"slots"`
	Appointments []*model.Appointment `json:"appointments"`
}

// DayAgenda is the full day view for a caller.
type DayAgenda struct {
	Date    string                `json:"date"`
	Entries []*PractitionerAgenda `json:"entries"`
}

// StatusChangeResult carries the updated appointment and, after a
// cancellation, the regenerated slot grid so the freed slot is immediately
// visible to the caller.
type StatusChangeResult struct {
	Appointment *model.Appointment `json:"appointment"`
	Slots       []model.TimeSlot   `json:"slots,omitempty"`
}

// DayView returns per-practitioner slot grids for the date with the
// appointments the caller is allowed to see. Availability is computed from
// the full snapshot: a clinical caller sees a colleague's slot as taken
// without seeing whose appointment occupies it.
func (s *Service) DayView(ctx context.Context, date time.Time, caller model.Caller) (*DayAgenda, error) {
	practitioners, err := s.practitioners.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}

	agenda := &DayAgenda{Date: date.Format("2006-01-02")}
	for _, p := range practitioners {
		appointments, err := s.listForDay(ctx, date, p.ID)
		if err != nil {
			return nil, err
		}

		entry := &PractitionerAgenda{
			Practitioner: p,
			Slots:        s.slotsFor(date, p.ID, appointments),
			Appointments: schedule.VisibleAppointments(appointments, caller),
		}
		agenda.Entries = append(agenda.Entries, entry)
	}
	return agenda, nil
}

// PendingAppointments lists the caller's unresolved appointments for the
// date: still PROGRAMADO or EN_SALA, filtered by visibility.
func (s *Service) PendingAppointments(ctx context.Context, date time.Time, practitionerID *uuid.UUID, caller model.Caller) ([]*model.Appointment, error) {
	appointments, err := s.listForDayFiltered(ctx, date, practitionerID)
	if err != nil {
		return nil, err
	}
	return schedule.PendingAppointments(schedule.VisibleAppointments(appointments, caller)), nil
}

// Availability returns the bookable grid for one practitioner and date.
// Today's grid is never served from cache: the lead-time cutoff moves with
// the clock, so a cached grid could offer a slot that has since slipped
// inside the one-hour window.
func (s *Service) Availability(ctx context.Context, date time.Time, practitionerID uuid.UUID) ([]model.TimeSlot, error) {
	if s.cacheable(date) {
		if cached, ok := s.gridCache.Get(gridCacheKey(date, practitionerID)); ok {
			if s.m != nil {
				s.m.SlotGridCacheHits.Inc()
			}
			return cached.([]model.TimeSlot), nil
		}
		if s.m != nil {
			s.m.SlotGridCacheMisses.Inc()
		}
	}

	appointments, err := s.listForDay(ctx, date, practitionerID)
	if err != nil {
		return nil, err
	}
	return s.slotsFor(date, practitionerID, appointments), nil
}

// BookAppointment creates a PROGRAMADO appointment on a free slot. The slot
// must exist in the current grid (inside the window, aligned, past the
// same-day lead time) and be available.
func (s *Service) BookAppointment(ctx context.Context, req *model.CreateAppointmentRequest, caller model.Caller) (*model.Appointment, error) {
	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, apperrors.BadRequest("unknown patient", err)
	}

	var practitionerName string
	if req.PractitionerID != nil {
		practitioner, err := s.practitioners.Get(ctx, *req.PractitionerID)
		if err != nil {
			return nil, apperrors.BadRequest("unknown practitioner", err)
		}
		practitionerName = practitioner.Name
	}

	slot, err := s.bookableSlot(ctx, req.ScheduledAt, req.PractitionerID)
	if err != nil {
		return nil, err
	}

	duration := req.DurationMins
	if duration <= 0 {
		duration = model.DefaultAppointmentDuration
	}

	now := time.Now()
	apt := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:        req.PatientID,
		PractitionerID:   req.PractitionerID,
		PractitionerName: practitionerName,
		ScheduledAt:      slot.Start,
		DurationMins:     duration,
		Reason:           req.Reason,
		Status:           model.AppointmentStatusScheduled,
	}
	if req.CUPSCode != "" {
		apt.Procedure = &model.ProcedureCode{Code: req.CUPSCode, Specialty: req.CUPSSpecialty}
	}

	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.invalidateGrid(apt.ScheduledAt, apt.PractitionerID)
	s.auditor.Log(ctx, caller, "book", "appointment", apt.ID, model.JSONMap{
		"scheduled_at": apt.ScheduledAt,
		"patient_id":   apt.PatientID,
	})
	s.notify(ctx, patient.Email, apt, false)

	return apt, nil
}

// ChangeStatus applies one status transition under the per-appointment
// lock. The appointment is re-read inside the lock, authorization and
// legality run against that fresh snapshot, and for ATENDIDO the clinical
// record cascade completes before the status is committed. A cancellation
// returns the regenerated grid so the freed slot is bookable at once.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, req *model.ChangeStatusRequest, caller model.Caller) (*StatusChangeResult, error) {
	if req.Status == model.AppointmentStatusCancelled && !req.Confirmed {
		return nil, apperrors.BadRequest("cancellation requires explicit confirmation", nil)
	}

	var result *StatusChangeResult
	err := s.locks.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		result, err = s.changeStatusLocked(ctx, id, req, caller)
		return err
	})
	if errors.Is(err, locker.ErrLockNotAcquired) {
		return nil, apperrors.Conflict("another status change for this appointment is in progress")
	}
	if err != nil {
		s.countTransition(req.Status, "error")
		return nil, err
	}

	s.countTransition(req.Status, "ok")
	return result, nil
}

func (s *Service) changeStatusLocked(ctx context.Context, id uuid.UUID, req *model.ChangeStatusRequest, caller model.Caller) (*StatusChangeResult, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(schedule.VisibleAppointments([]*model.Appointment{apt}, caller)) == 0 {
		return nil, apperrors.Unauthorized("appointment is not assigned to the caller")
	}

	validated, err := schedule.Transition(apt, req.Status, caller)
	if err != nil {
		return nil, err
	}

	if validated.Status == model.AppointmentStatusAttended {
		// the record and consultation must exist before the commit;
		// any failure here leaves the status untouched
		if err := s.runClinicalCascade(ctx, apt, caller); err != nil {
			if s.m != nil {
				s.m.CascadeFailures.Inc()
			}
			return nil, err
		}
	}

	var cancelReason *string
	if validated.Status == model.AppointmentStatusCancelled && req.Reason != "" {
		cancelReason = &req.Reason
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, validated.Status, cancelReason)
	if err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	s.auditor.Log(ctx, caller, "transition", "appointment", id, model.JSONMap{
		"from": apt.Status,
		"to":   updated.Status,
	})

	result := &StatusChangeResult{Appointment: updated}

	if updated.Status == model.AppointmentStatusCancelled {
		s.invalidateGrid(updated.ScheduledAt, updated.PractitionerID)

		slots, err := s.regenerateGrid(ctx, updated)
		if err != nil {
			// the cancellation itself stands; the caller just re-queries
			if s.log != nil {
				s.log.Error(err, "failed to regenerate grid after cancellation", "appointment_id", id.String())
			}
		} else {
			result.Slots = slots
		}

		if patient, perr := s.patients.Get(ctx, updated.PatientID); perr == nil {
			s.notify(ctx, patient.Email, updated, true)
		}
	}

	return result, nil
}

// runClinicalCascade guarantees the patient has a clinical record and
// appends the consultation for this visit. Record creation happens only on
// the first attended appointment; the consultation is appended every time.
func (s *Service) runClinicalCascade(ctx context.Context, apt *model.Appointment, caller model.Caller) error {
	record, err := s.records.FindByPatient(ctx, apt.PatientID)
	if err != nil {
		return apperrors.CascadeFailure("record lookup", err)
	}

	if record == nil {
		record = &model.ClinicalRecord{
			PatientID: apt.PatientID,
			CreatedBy: caller.Name,
		}
		if err := s.records.CreateRecord(ctx, record); err != nil {
			return apperrors.CascadeFailure("record creation", err)
		}
	}

	consultation := &model.Consultation{
		RecordID:      record.ID,
		AppointmentID: apt.ID,
		Practitioner:  apt.PractitionerName,
		Reason:        apt.Reason,
		AttendedAt:    time.Now(),
	}
	if err := s.records.CreateConsultation(ctx, consultation); err != nil {
		return apperrors.CascadeFailure("consultation creation", err)
	}
	return nil
}

func (s *Service) bookableSlot(ctx context.Context, requested time.Time, practitionerID *uuid.UUID) (*model.TimeSlot, error) {
	appointments, err := s.listForDayFiltered(ctx, requested, practitionerID)
	if err != nil {
		return nil, err
	}

	slots := s.generator.GenerateSlots(requested, samePartition(appointments, practitionerID))
	for i := range slots {
		if slots[i].Start.Hour() == requested.Hour() && slots[i].Start.Minute() == requested.Minute() {
			if !slots[i].Available {
				return nil, apperrors.Conflict("slot is already taken")
			}
			return &slots[i], nil
		}
	}
	return nil, apperrors.BadRequest("requested time is not a bookable slot", nil)
}

func (s *Service) regenerateGrid(ctx context.Context, apt *model.Appointment) ([]model.TimeSlot, error) {
	appointments, err := s.listForDayFiltered(ctx, apt.ScheduledAt, apt.PractitionerID)
	if err != nil {
		return nil, err
	}
	var pid uuid.UUID
	if apt.PractitionerID != nil {
		pid = *apt.PractitionerID
	}
	return s.slotsFor(apt.ScheduledAt, pid, samePartition(appointments, apt.PractitionerID)), nil
}

// samePartition narrows an appointment list to one occupancy partition.
// Occupancy is per practitioner; appointments without a practitioner form
// their own partition, so an unassigned booking is blocked only by other
// unassigned appointments. The store already filters when an id is given.
func samePartition(appointments []*model.Appointment, practitionerID *uuid.UUID) []*model.Appointment {
	if practitionerID != nil {
		return appointments
	}
	unassigned := make([]*model.Appointment, 0, len(appointments))
	for _, apt := range appointments {
		if apt.PractitionerID == nil {
			unassigned = append(unassigned, apt)
		}
	}
	return unassigned
}

func (s *Service) listForDay(ctx context.Context, date time.Time, practitionerID uuid.UUID) ([]*model.Appointment, error) {
	return s.listForDayFiltered(ctx, date, &practitionerID)
}

func (s *Service) listForDayFiltered(ctx context.Context, date time.Time, practitionerID *uuid.UUID) ([]*model.Appointment, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	filters := &model.AppointmentFilters{
		PractitionerID: practitionerID,
		From:           from,
		To:             from.AddDate(0, 0, 1),
	}
	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) slotsFor(date time.Time, practitionerID uuid.UUID, appointments []*model.Appointment) []model.TimeSlot {
	start := time.Now()
	slots := s.generator.GenerateSlots(date, appointments)
	if s.m != nil {
		s.m.SlotGridLatency.Observe(time.Since(start).Seconds())
	}
	if s.cacheable(date) {
		s.gridCache.Set(gridCacheKey(date, practitionerID), slots, cache.DefaultExpiration)
	}
	return slots
}

func (s *Service) cacheable(date time.Time) bool {
	return !schedule.SameDate(s.generator.Now().In(date.Location()), date)
}

func (s *Service) invalidateGrid(date time.Time, practitionerID *uuid.UUID) {
	var pid uuid.UUID
	if practitionerID != nil {
		pid = *practitionerID
	}
	s.gridCache.Delete(gridCacheKey(date, pid))
}

func (s *Service) notify(ctx context.Context, to string, apt *model.Appointment, cancelled bool) {
	if s.mailer == nil || to == "" {
		return
	}
	var err error
	if cancelled {
		err = s.mailer.SendCancellation(ctx, to, apt)
	} else {
		err = s.mailer.SendBookingConfirmation(ctx, to, apt)
	}
	if err != nil && s.log != nil {
		s.log.Error(err, "failed to send appointment notification", "appointment_id", apt.ID.String())
	}
}

func (s *Service) countTransition(to model.AppointmentStatus, outcome string) {
	if s.m != nil {
		s.m.TransitionsTotal.WithLabelValues(string(to), outcome).Inc()
	}
}

func gridCacheKey(date time.Time, practitionerID uuid.UUID) string {
	return fmt.Sprintf("grid:%s:%s", date.Format("2006-01-02"), practitionerID)
}
