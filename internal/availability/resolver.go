package availability

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/scheduler"
)

// ErrDataIntegrity indicates stored scheduling data violates an invariant,
// such as two assignments of one room covering the same instant.
var ErrDataIntegrity = errors.New("availability: data integrity violation")

// AssignmentSource lists the week plan assignments of a room whose validity
// window contains at.
type AssignmentSource interface {
	AssignmentsAt(ctx context.Context, roomID int64, at time.Time) ([]scheduler.Assignment, error)
}

// Resolver finds the week plan assignment that applies to a room at an
// instant. It does not consider whether the room is active.
type Resolver struct {
	Assignments AssignmentSource
}

// NewResolver returns a resolver backed by source.
func NewResolver(source AssignmentSource) *Resolver {
	return &Resolver{Assignments: source}
}

// Resolve returns the assignment covering at, or nil when the room has no
// schedule at that time. More than one match is reported as ErrDataIntegrity.
func (r *Resolver) Resolve(ctx context.Context, roomID int64, at time.Time) (*scheduler.Assignment, error) {
	if r == nil || r.Assignments == nil {
		return nil, fmt.Errorf("availability: assignment source not configured")
	}

	candidates, err := r.Assignments.AssignmentsAt(ctx, roomID, at)
	if err != nil {
		return nil, fmt.Errorf("availability: load assignments for room %d: %w", roomID, err)
	}

	var matches []scheduler.Assignment
	for _, a := range candidates {
		if a.RoomID == roomID && a.Contains(at) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		match := matches[0]
		return &match, nil
	default:
		ids := make([]string, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, strconv.FormatInt(m.ID, 10))
		}
		return nil, fmt.Errorf("%w: room %d has %d assignments at %s (ids %s)",
			ErrDataIntegrity, roomID, len(matches), at.Format(time.RFC3339), strings.Join(ids, ", "))
	}
}
