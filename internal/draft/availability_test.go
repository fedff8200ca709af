package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTimeRangeFansOutToSelectedDays(t *testing.T) {
	d := New("d1", "u1")

	err := d.AddTimeRange([]string{"Mon", "Wed", "Fri"}, "09:00", "12:00")
	require.NoError(t, err)

	require.Len(t, d.Availability, 3)
	for _, ds := range d.Availability {
		require.Len(t, ds.TimeSlots, 1)
		assert.Equal(t, "09:00:00", ds.TimeSlots[0].StartTime)
		assert.Equal(t, "12:00:00", ds.TimeSlots[0].EndTime)
	}
}

func TestAddTimeRangeAppendsToExistingDay(t *testing.T) {
	d := New("d1", "u1")

	require.NoError(t, d.AddTimeRange([]string{"Sat"}, "09:00", "11:00"))
	require.NoError(t, d.AddTimeRange([]string{"Sat", "Sun"}, "14:00", "16:00"))

	require.Len(t, d.Availability, 2)
	assert.Equal(t, "Sat", d.Availability[0].DayOfWeek)
	assert.Len(t, d.Availability[0].TimeSlots, 2)
	assert.Equal(t, "Sun", d.Availability[1].DayOfWeek)
	assert.Len(t, d.Availability[1].TimeSlots, 1)
}

func TestAddTimeRangeCollapsesRepeatedDays(t *testing.T) {
	d := New("d1", "u1")

	require.NoError(t, d.AddTimeRange([]string{"Mon", "Mon", "Wed"}, "09:00", "12:00"))

	require.Len(t, d.Availability, 2)
	assert.Len(t, d.Availability[0].TimeSlots, 1)
	assert.Len(t, d.Availability[1].TimeSlots, 1)
}

func TestAddTimeRangeKeepsWeekdayOrder(t *testing.T) {
	d := New("d1", "u1")

	require.NoError(t, d.AddTimeRange([]string{"Sun"}, "10:00", "11:00"))
	require.NoError(t, d.AddTimeRange([]string{"Tue"}, "10:00", "11:00"))
	require.NoError(t, d.AddTimeRange([]string{"Mon"}, "10:00", "11:00"))

	var days []string
	for _, ds := range d.Availability {
		days = append(days, ds.DayOfWeek)
	}
	assert.Equal(t, []string{"Mon", "Tue", "Sun"}, days)
}

func TestAddTimeRangeRejectsEndNotAfterStart(t *testing.T) {
	d := New("d1", "u1")

	err := d.AddTimeRange([]string{"Mon"}, "12:00", "09:00")
	assert.ErrorIs(t, err, ErrEndNotAfterStart)

	err = d.AddTimeRange([]string{"Mon"}, "12:00", "12:00")
	assert.ErrorIs(t, err, ErrEndNotAfterStart)

	// Nothing reached the draft.
	assert.Empty(t, d.Availability)
}

func TestAddTimeRangeValidatesInput(t *testing.T) {
	d := New("d1", "u1")

	assert.ErrorIs(t, d.AddTimeRange(nil, "09:00", "10:00"), ErrInvalidDay)
	assert.ErrorIs(t, d.AddTimeRange([]string{"Monday"}, "09:00", "10:00"), ErrInvalidDay)
	assert.ErrorIs(t, d.AddTimeRange([]string{"Mon"}, "9am", "10:00"), ErrInvalidTime)
	assert.ErrorIs(t, d.AddTimeRange([]string{"Mon"}, "09:00", "25:00"), ErrInvalidTime)
}

func TestAddTimeRangeAcceptsSeconds(t *testing.T) {
	d := New("d1", "u1")

	require.NoError(t, d.AddTimeRange([]string{"Mon"}, "09:00:30", "10:00:30"))
	assert.Equal(t, "09:00:30", d.Availability[0].TimeSlots[0].StartTime)
}

func TestRemoveTimeSlot(t *testing.T) {
	d := New("d1", "u1")
	require.NoError(t, d.AddTimeRange([]string{"Mon"}, "09:00", "10:00"))
	require.NoError(t, d.AddTimeRange([]string{"Mon"}, "11:00", "12:00"))

	require.NoError(t, d.RemoveTimeSlot("Mon", 0))
	require.Len(t, d.Availability, 1)
	assert.Equal(t, "11:00:00", d.Availability[0].TimeSlots[0].StartTime)
}

func TestRemoveLastSlotRemovesDay(t *testing.T) {
	d := New("d1", "u1")
	require.NoError(t, d.AddTimeRange([]string{"Mon", "Tue"}, "09:00", "10:00"))

	require.NoError(t, d.RemoveTimeSlot("Tue", 0))

	require.Len(t, d.Availability, 1)
	assert.Equal(t, "Mon", d.Availability[0].DayOfWeek)
}

func TestRemoveTimeSlotErrors(t *testing.T) {
	d := New("d1", "u1")
	require.NoError(t, d.AddTimeRange([]string{"Mon"}, "09:00", "10:00"))

	assert.ErrorIs(t, d.RemoveTimeSlot("Tue", 0), ErrInvalidDay)
	assert.Error(t, d.RemoveTimeSlot("Mon", 5))
	assert.Error(t, d.RemoveTimeSlot("Mon", -1))
}
