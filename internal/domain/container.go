package domain

import "time"

// ContainerOwnerType tells whether a container is company-owned or chartered.
type ContainerOwnerType string

// List of possible container owner types
const (
	OwnerTypeOwned     ContainerOwnerType = "owned"
	OwnerTypeChartered ContainerOwnerType = "chartered"
)

// ContainerState is a container availability / lifecycle state.
type ContainerState string

// List of possible container states
const (
	StateAvailable     ContainerState = "available"
	StateHired         ContainerState = "hired"
	StateOccupied      ContainerState = "occupied"
	StateReturned      ContainerState = "returned"
	StateInTransit     ContainerState = "in transit"
	StateLoaded        ContainerState = "loaded"
	StateAssignedToJob ContainerState = "assigned to job"
	StateArrived       ContainerState = "arrived"
	StateDeLinked      ContainerState = "de-linked"
	StateUnderRepair   ContainerState = "under repair"
	StateCleared       ContainerState = "cleared"
)

var allowedContainerStates = [...]ContainerState{
	StateAvailable, StateHired, StateOccupied, StateReturned,
	StateInTransit, StateLoaded, StateAssignedToJob, StateArrived,
	StateDeLinked, StateUnderRepair, StateCleared,
}

// Valid checks if the ContainerState is valid
func (s ContainerState) Valid() bool {
	for _, v := range allowedContainerStates {
		if s == v {
			return true
		}
	}
	return false
}

// Container - struct representing a physical shipping container.
type Container struct {
	ID           int64
	Number       string
	Size         string
	Type         string
	OwnerType    ContainerOwnerType
	Location     string
	ManualState  *ContainerState // manual availability override, wins over everything
	CharterStart *time.Time
	CharterEnd   *time.Time
	Availability ContainerState // derived, never written directly
}

// ContainerStatusEvent is one append-only status-history row for a container.
type ContainerStatusEvent struct {
	ID          int64
	ContainerID int64
	State       ContainerState
	Location    string
	Actor       string
	Notes       string
	CreatedAt   time.Time
}
