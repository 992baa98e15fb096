package schedule

import (
	"time"

	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/pkg/logger"
)

// Booking window and slot policy. The grid runs 06:00 through 20:00, the
// 20:00 slot included, in fixed 20 minute steps. Same-day bookings need at
// least one hour of lead time; slots inside that window are dropped from the
// grid entirely, not just flagged.
const (
	SlotWidthMinutes = 20
	DayStartHour     = 6
	DayEndHour       = 20
	MinLeadTime      = time.Hour
)

// Generator derives the day grid from an appointment snapshot. The clock is
// injectable so the lead-time cutoff is testable.
type Generator struct {
	now func() time.Time
	log *logger.Logger
}

func NewGenerator(log *logger.Logger) *Generator {
	return &Generator{
		now: time.Now,
		log: log,
	}
}

// NewGeneratorWithClock is used by tests to pin "now".
func NewGeneratorWithClock(log *logger.Logger, now func() time.Time) *Generator {
	return &Generator{now: now, log: log}
}

// Now exposes the generator's clock so callers share the same notion of
// "today" that the lead-time cutoff uses.
func (g *Generator) Now() time.Time {
	return g.now()
}

// GenerateSlots builds the ordered bookable grid for date from the given
// appointments. A slot is unavailable iff an appointment on the same date
// starts at exactly the slot's hour and minute; duration never extends
// occupancy onto following slots, which is the clinic's documented policy.
// Appointments that could not be fully parsed upstream (zero start time)
// are skipped from occupancy and logged, never fatal.
func (g *Generator) GenerateSlots(date time.Time, appointments []*model.Appointment) []model.TimeSlot {
	occupied := g.occupiedMinutes(date, appointments)

	loc := date.Location()
	year, month, day := date.Date()

	cutoff := time.Time{}
	now := g.now().In(loc)
	if SameDate(now, date) {
		cutoff = now.Add(MinLeadTime)
	}

	slots := make([]model.TimeSlot, 0, ((DayEndHour-DayStartHour)*60/SlotWidthMinutes)+1)
	start := time.Date(year, month, day, DayStartHour, 0, 0, 0, loc)
	end := time.Date(year, month, day, DayEndHour, 0, 0, 0, loc)

	for t := start; !t.After(end); t = t.Add(SlotWidthMinutes * time.Minute) {
		if !cutoff.IsZero() && !t.After(cutoff) {
			continue
		}
		minuteOfDay := t.Hour()*60 + t.Minute()
		slots = append(slots, model.TimeSlot{
			Start:     t,
			Label:     t.Format("15:04"),
			Available: !occupied[minuteOfDay],
		})
	}
	return slots
}

func (g *Generator) occupiedMinutes(date time.Time, appointments []*model.Appointment) map[int]bool {
	occupied := make(map[int]bool, len(appointments))
	for _, apt := range appointments {
		if apt == nil {
			continue
		}
		if apt.ScheduledAt.IsZero() {
			if g.log != nil {
				g.log.Warn("skipping appointment without parsable start time", "appointment_id", apt.ID.String())
			}
			continue
		}
		// a cancelled appointment frees its slot immediately
		if apt.Status == model.AppointmentStatusCancelled {
			continue
		}
		at := apt.ScheduledAt.In(date.Location())
		if !SameDate(at, date) {
			continue
		}
		occupied[at.Hour()*60+at.Minute()] = true
	}
	return occupied
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
