package draft

import (
	"fmt"
	"sort"
	"time"

	"github.com/itinera/console/internal/itinera"
)

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeTime(s string) (string, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// AddTimeRange fans one start/end pair out as a new slot appended to each
// selected day's slot list, creating day entries as needed and keeping the
// set ordered Mon–Sun. A pair with end not strictly after start is rejected
// so it can be surfaced as a user-facing message, never stored.
func (d *Draft) AddTimeRange(days []string, start, end string) error {
	if len(days) == 0 {
		return fmt.Errorf("%w: no days selected", ErrInvalidDay)
	}
	// The selection is a set: a day repeated in the request still gets
	// exactly one new slot.
	seen := make(map[string]bool, len(days))
	unique := make([]string, 0, len(days))
	for _, day := range days {
		if !ValidWeekday(day) {
			return fmt.Errorf("%w: %q", ErrInvalidDay, day)
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		unique = append(unique, day)
	}

	startN, err := normalizeTime(start)
	if err != nil {
		return err
	}
	endN, err := normalizeTime(end)
	if err != nil {
		return err
	}
	// HH:MM:SS compares correctly as a string.
	if endN <= startN {
		return ErrEndNotAfterStart
	}

	slot := itinera.TimeSlot{StartTime: startN, EndTime: endN}
	for _, day := range unique {
		idx := d.dayIndex(day)
		if idx < 0 {
			d.Availability = append(d.Availability, itinera.DaySchedule{
				DayOfWeek: day,
				TimeSlots: []itinera.TimeSlot{slot},
			})
			continue
		}
		d.Availability[idx].TimeSlots = append(d.Availability[idx].TimeSlots, slot)
	}

	sort.SliceStable(d.Availability, func(i, j int) bool {
		return weekdayOrder[d.Availability[i].DayOfWeek] < weekdayOrder[d.Availability[j].DayOfWeek]
	})
	return nil
}

// RemoveTimeSlot deletes one slot from a day's list. Removing the last slot
// removes the day entry itself: days with zero slots are not representable.
func (d *Draft) RemoveTimeSlot(day string, slotIndex int) error {
	idx := d.dayIndex(day)
	if idx < 0 {
		return fmt.Errorf("%w: %q has no slots", ErrInvalidDay, day)
	}
	slots := d.Availability[idx].TimeSlots
	if slotIndex < 0 || slotIndex >= len(slots) {
		return fmt.Errorf("slot index %d out of range for %s", slotIndex, day)
	}

	slots = append(slots[:slotIndex], slots[slotIndex+1:]...)
	if len(slots) == 0 {
		d.Availability = append(d.Availability[:idx], d.Availability[idx+1:]...)
		return nil
	}
	d.Availability[idx].TimeSlots = slots
	return nil
}

func (d *Draft) dayIndex(day string) int {
	for i, ds := range d.Availability {
		if ds.DayOfWeek == day {
			return i
		}
	}
	return -1
}
