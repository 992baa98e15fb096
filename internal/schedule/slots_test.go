package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinigo/agenda-api/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func apptAt(t time.Time, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		Base:         model.Base{ID: uuid.New()},
		PatientID:    uuid.New(),
		ScheduledAt:  t,
		DurationMins: model.DefaultAppointmentDuration,
		Status:       status,
	}
}

func TestGenerateSlotsFullDayGrid(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	g := NewGeneratorWithClock(nil, fixedClock(now))

	slots := g.GenerateSlots(day, nil)

	// 06:00 .. 20:00 inclusive, every 20 minutes
	require.Len(t, slots, 43)
	assert.Equal(t, "06:00", slots[0].Label)
	assert.Equal(t, "20:00", slots[len(slots)-1].Label)

	for i, slot := range slots {
		assert.True(t, slot.Available, "empty day must be fully available")
		if i > 0 {
			assert.True(t, slot.Start.After(slots[i-1].Start), "slots must be strictly increasing")
			assert.Equal(t, 20*time.Minute, slot.Start.Sub(slots[i-1].Start))
		}
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	g := NewGeneratorWithClock(nil, fixedClock(now))

	appts := []*model.Appointment{
		apptAt(time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC), model.AppointmentStatusScheduled),
		apptAt(time.Date(2026, 9, 15, 14, 20, 0, 0, time.UTC), model.AppointmentStatusInRoom),
	}
	// unordered input must not change the output
	reversed := []*model.Appointment{appts[1], appts[0]}

	assert.Equal(t, g.GenerateSlots(day, appts), g.GenerateSlots(day, reversed))
}

func TestGenerateSlotsLeadTimeBoundary(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	t.Run("slot exactly 60 minutes ahead is excluded", func(t *testing.T) {
		now := time.Date(2026, 9, 15, 9, 20, 0, 0, time.UTC)
		g := NewGeneratorWithClock(nil, fixedClock(now))

		slots := g.GenerateSlots(day, nil)
		require.NotEmpty(t, slots)
		assert.Equal(t, "10:40", slots[0].Label)
	})

	t.Run("slot 61 minutes ahead is included", func(t *testing.T) {
		now := time.Date(2026, 9, 15, 9, 19, 0, 0, time.UTC)
		g := NewGeneratorWithClock(nil, fixedClock(now))

		slots := g.GenerateSlots(day, nil)
		require.NotEmpty(t, slots)
		assert.Equal(t, "10:20", slots[0].Label)
	})

	t.Run("past slots are dropped entirely, not flagged", func(t *testing.T) {
		now := time.Date(2026, 9, 15, 19, 30, 0, 0, time.UTC)
		g := NewGeneratorWithClock(nil, fixedClock(now))

		slots := g.GenerateSlots(day, nil)
		// only 20:40 onward would qualify and the window ends at 20:00
		assert.Empty(t, slots)
	})

	t.Run("other days ignore the lead time", func(t *testing.T) {
		now := time.Date(2026, 9, 14, 19, 30, 0, 0, time.UTC)
		g := NewGeneratorWithClock(nil, fixedClock(now))

		slots := g.GenerateSlots(day, nil)
		assert.Len(t, slots, 43)
	})
}

func TestGenerateSlotsOccupancyByExactStart(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	g := NewGeneratorWithClock(nil, fixedClock(now))

	long := apptAt(time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC), model.AppointmentStatusScheduled)
	long.DurationMins = 60

	slots := g.GenerateSlots(day, []*model.Appointment{long})

	byLabel := map[string]model.TimeSlot{}
	for _, s := range slots {
		byLabel[s.Label] = s
	}

	assert.False(t, byLabel["09:00"].Available, "the appointment's own slot is taken")
	assert.True(t, byLabel["09:20"].Available, "duration does not spill into the next slot")
	assert.True(t, byLabel["09:40"].Available)
}

func TestGenerateSlotsCancelledFreesSlot(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	g := NewGeneratorWithClock(nil, fixedClock(now))

	apt := apptAt(time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC), model.AppointmentStatusScheduled)

	before := g.GenerateSlots(day, []*model.Appointment{apt})
	for _, s := range before {
		if s.Label == "14:00" {
			assert.False(t, s.Available)
		}
	}

	apt.Status = model.AppointmentStatusCancelled
	after := g.GenerateSlots(day, []*model.Appointment{apt})
	for _, s := range after {
		if s.Label == "14:00" {
			assert.True(t, s.Available, "cancelling must free the slot on the next read")
		}
	}
}

func TestGenerateSlotsSkipsUnparsableRecords(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	g := NewGeneratorWithClock(nil, fixedClock(now))

	broken := &model.Appointment{Base: model.Base{ID: uuid.New()}}
	ok := apptAt(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), model.AppointmentStatusScheduled)

	slots := g.GenerateSlots(day, []*model.Appointment{broken, nil, ok})

	require.Len(t, slots, 43)
	for _, s := range slots {
		if s.Label == "10:00" {
			assert.False(t, s.Available)
		} else {
			assert.True(t, s.Available, "broken records must not occupy anything")
		}
	}
}

func TestGenerateSlotsIgnoresOtherDates(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	g := NewGeneratorWithClock(nil, fixedClock(now))

	other := apptAt(time.Date(2026, 9, 16, 10, 0, 0, 0, time.UTC), model.AppointmentStatusScheduled)

	slots := g.GenerateSlots(day, []*model.Appointment{other})
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}
