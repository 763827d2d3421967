package occupancy

import "time"

// RoomSnapshot is a room as last persisted.
type RoomSnapshot struct {
	ID     uint
	Status Status
}

// ActiveBooking is a non-cancelled booking whose check-out has not passed.
type ActiveBooking struct {
	RoomID uint
	Window Window
}

// Reconcile derives the status of every room from the active bookings at now.
// Dirty is carried over from the prior status; bookings for unknown rooms are
// ignored. The result has one entry per room.
func Reconcile(rooms []RoomSnapshot, bookings []ActiveBooking, now time.Time) map[uint]Status {
	next := make(map[uint]Status, len(rooms))
	for _, r := range rooms {
		next[r.ID] = Status{}
	}

	for _, b := range bookings {
		s, ok := next[b.RoomID]
		if !ok {
			continue
		}
		switch {
		case now.Before(b.Window.CheckIn):
			s.Booked = true
		case b.Window.Contains(now):
			s.Occupied = true
		default:
			continue
		}
		next[b.RoomID] = s
	}

	for _, r := range rooms {
		if r.Status.Dirty {
			s := next[r.ID]
			s.Dirty = true
			next[r.ID] = s
		}
	}
	return next
}
