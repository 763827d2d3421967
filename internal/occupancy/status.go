package occupancy

import (
	"fmt"
	"strings"
)

// Tag is one member of a room status set as exposed by the array-shaped API.
type Tag string

const (
	TagAvailable Tag = "available"
	TagBooked    Tag = "booked"
	TagOccupied  Tag = "occupied"
	TagDirty     Tag = "dirty"
)

// Occupancy is the single-valued view of a room status used by the
// enum-plus-flag API shape.
type Occupancy string

const (
	OccupancyAvailable Occupancy = "available"
	OccupancyBooked    Occupancy = "booked"
	OccupancyOccupied  Occupancy = "occupied"
)

// Status is the canonical room status. Available is derived, never stored.
type Status struct {
	Booked   bool
	Occupied bool
	Dirty    bool
}

// Available reports whether the room has no upcoming or current stay.
func (s Status) Available() bool {
	return !s.Booked && !s.Occupied
}

// Has reports set membership for a tag.
func (s Status) Has(tag Tag) bool {
	switch tag {
	case TagAvailable:
		return s.Available()
	case TagBooked:
		return s.Booked
	case TagOccupied:
		return s.Occupied
	case TagDirty:
		return s.Dirty
	}
	return false
}

// Tags renders the status as an ordered tag set.
func (s Status) Tags() []Tag {
	tags := make([]Tag, 0, 3)
	if s.Available() {
		tags = append(tags, TagAvailable)
	}
	if s.Booked {
		tags = append(tags, TagBooked)
	}
	if s.Occupied {
		tags = append(tags, TagOccupied)
	}
	if s.Dirty {
		tags = append(tags, TagDirty)
	}
	return tags
}

// Occupancy collapses the set to one value; occupied wins over booked.
func (s Status) Occupancy() Occupancy {
	switch {
	case s.Occupied:
		return OccupancyOccupied
	case s.Booked:
		return OccupancyBooked
	default:
		return OccupancyAvailable
	}
}

// ParseTag accepts a tag name case-insensitively.
func ParseTag(raw string) (Tag, error) {
	switch Tag(strings.ToLower(strings.TrimSpace(raw))) {
	case TagAvailable:
		return TagAvailable, nil
	case TagBooked:
		return TagBooked, nil
	case TagOccupied:
		return TagOccupied, nil
	case TagDirty:
		return TagDirty, nil
	}
	return "", fmt.Errorf("unknown room status %q", raw)
}
