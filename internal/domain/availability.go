package domain

import "time"

// States that flow through from the latest status-history row when no
// override or charter rule applies.
var passThroughStates = map[ContainerState]bool{
	StateInTransit:     true,
	StateLoaded:        true,
	StateAssignedToJob: true,
	StateArrived:       true,
	StateDeLinked:      true,
	StateUnderRepair:   true,
	StateReturned:      true,
}

// DeriveAvailability computes the availability of a container from its
// ownership contract and its latest status-history row. Precedence: manual
// override, charter contract dates, latest pass-through state, available.
// Pure function, no side effects.
func DeriveAvailability(c *Container, last *ContainerStatusEvent, now time.Time) ContainerState {
	if c.ManualState != nil {
		return *c.ManualState
	}

	if c.OwnerType == OwnerTypeChartered {
		if c.CharterEnd != nil && c.CharterEnd.Before(now) && last != nil && last.State == StateCleared {
			return StateReturned
		}
		if c.CharterStart != nil && c.CharterEnd == nil {
			return StateHired
		}
		if c.CharterEnd != nil && c.CharterEnd.After(now) {
			return StateOccupied
		}
	}

	if last != nil && passThroughStates[last.State] {
		return last.State
	}

	return StateAvailable
}

// Assignable reports whether a container in the given state may take new
// cargo assignments.
func (s ContainerState) Assignable() bool {
	return s == StateAvailable || s == StateAssignedToJob
}
