package occupancy

import "time"

// Window is a half-open stay interval [CheckIn, CheckOut).
type Window struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Valid reports whether CheckOut is strictly after CheckIn.
func (w Window) Valid() bool {
	return w.CheckOut.After(w.CheckIn)
}

// Overlaps reports whether two windows share at least one instant.
// Windows that only touch at an endpoint do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.CheckIn.Before(o.CheckOut) && w.CheckOut.After(o.CheckIn)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.CheckIn) && t.Before(w.CheckOut)
}

// Nights counts calendar nights between check-in and check-out, at least one.
func (w Window) Nights() int {
	in := time.Date(w.CheckIn.Year(), w.CheckIn.Month(), w.CheckIn.Day(), 0, 0, 0, 0, w.CheckIn.Location())
	out := time.Date(w.CheckOut.Year(), w.CheckOut.Month(), w.CheckOut.Day(), 0, 0, 0, 0, w.CheckIn.Location())
	n := int(out.Sub(in).Hours() / 24)
	if n <= 0 {
		n = 1
	}
	return n
}
