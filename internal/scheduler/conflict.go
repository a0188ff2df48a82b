package scheduler

import "time"

// Assignment binds a week plan to a room for a validity window. A nil End
// means the assignment never expires.
type Assignment struct {
	ID         int64
	RoomID     int64
	WeekPlanID int64
	Start      time.Time
	End        *time.Time
}

// Contains reports whether at lies inside the inclusive validity window.
func (a Assignment) Contains(at time.Time) bool {
	if at.Before(a.Start) {
		return false
	}
	return a.End == nil || !at.After(*a.End)
}

// Collides reports whether two assignments of the same room have overlapping
// validity windows. Both bounds are inclusive.
func Collides(a, b Assignment) bool {
	if a.RoomID != b.RoomID {
		return false
	}
	// start_a <= end_b AND end_a >= start_b, with a nil end as +infinity.
	if b.End != nil && a.Start.After(*b.End) {
		return false
	}
	if a.End != nil && a.End.Before(b.Start) {
		return false
	}
	return true
}

// DetectAssignmentCollisions returns the existing assignments that collide
// with candidate. An existing entry with the candidate's id is the record
// being updated and is skipped.
func DetectAssignmentCollisions(existing []Assignment, candidate Assignment) []Assignment {
	var collisions []Assignment
	for _, other := range existing {
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if Collides(candidate, other) {
			collisions = append(collisions, other)
		}
	}
	return collisions
}
