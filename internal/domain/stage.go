package domain

import "strings"

// Shipment stages a receiver moves through.
const (
	StagePending          = "Pending"
	StageReadyForLoading  = "Ready for Loading"
	StageLoadedOnVessel   = "Loaded on Vessel"
	StageInTransit        = "Shipment In Transit"
	StageArrivedAtPort    = "Arrived at Port"
	StageReadyForDelivery = "Ready for Delivery"
	StageOutForDelivery   = "Out for Delivery"
	StageDelivered        = "Shipment Delivered"
	StageCancelled        = "Cancelled"
)

var stages = [...]string{
	StagePending,
	StageReadyForLoading,
	StageLoadedOnVessel,
	StageInTransit,
	StageArrivedAtPort,
	StageReadyForDelivery,
	StageOutForDelivery,
	StageDelivered,
	StageCancelled,
}

// Stages returns the full shipment-stage vocabulary in pipeline order.
func Stages() []string {
	out := make([]string, len(stages))
	copy(out, stages[:])
	return out
}

// CanonicalStage resolves a case-insensitive stage label to its canonical
// casing. Returns ok=false for labels outside the vocabulary.
func CanonicalStage(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range stages {
		if strings.EqualFold(s, trimmed) {
			return s, true
		}
	}
	return "", false
}

// Receiver stage → container availability written during cascades.
var containerStateByStage = map[string]ContainerState{
	StagePending:          StateAvailable,
	StageReadyForLoading:  StateAssignedToJob,
	StageLoadedOnVessel:   StateLoaded,
	StageInTransit:        StateInTransit,
	StageArrivedAtPort:    StateArrived,
	StageReadyForDelivery: StateArrived,
	StageOutForDelivery:   StateInTransit,
	StageDelivered:        StateDeLinked,
	StageCancelled:        StateAvailable,
}

// ContainerStateForStage maps a receiver shipment stage to the container
// availability cascaded onto its containers. Unknown stages leave containers
// in transit, the least surprising moving state.
func ContainerStateForStage(stage string) ContainerState {
	if st, ok := containerStateByStage[stage]; ok {
		return st
	}
	return StateInTransit
}
