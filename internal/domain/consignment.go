package domain

import "time"

// Consignment statuses form a fixed linear pipeline; delivered is terminal.
const (
	ConsignmentDraftsCleared        = "drafts cleared"
	ConsignmentSubmittedOnVessel    = "submitted on vessel"
	ConsignmentCustomsCleared       = "customs cleared"
	ConsignmentSubmitted            = "submitted"
	ConsignmentUnderProcessing      = "under processing"
	ConsignmentInTransit            = "in transit"
	ConsignmentArrivedAtFacility    = "arrived at facility"
	ConsignmentReadyForDelivery     = "ready for delivery"
	ConsignmentArrivedAtDestination = "arrived at destination"
	ConsignmentDelivered            = "delivered"
)

var nextConsignmentStatus = map[string]string{
	ConsignmentDraftsCleared:        ConsignmentSubmittedOnVessel,
	ConsignmentSubmittedOnVessel:    ConsignmentCustomsCleared,
	ConsignmentCustomsCleared:       ConsignmentSubmitted,
	ConsignmentSubmitted:            ConsignmentUnderProcessing,
	ConsignmentUnderProcessing:      ConsignmentInTransit,
	ConsignmentInTransit:            ConsignmentArrivedAtFacility,
	ConsignmentArrivedAtFacility:    ConsignmentReadyForDelivery,
	ConsignmentReadyForDelivery:     ConsignmentArrivedAtDestination,
	ConsignmentArrivedAtDestination: ConsignmentDelivered,
}

// NextConsignmentStatus returns the pipeline successor of a consignment
// status. ok is false for the terminal status and for unknown labels.
func NextConsignmentStatus(current string) (string, bool) {
	next, ok := nextConsignmentStatus[current]
	return next, ok
}

// Consignment status → shipment stage pushed down to orders and receivers.
// Deliberately a different vocabulary than the consignment's own labels.
var syncedStageByConsignment = map[string]string{
	ConsignmentDraftsCleared:        StagePending,
	ConsignmentSubmittedOnVessel:    StageReadyForLoading,
	ConsignmentCustomsCleared:       StageLoadedOnVessel,
	ConsignmentSubmitted:            StageLoadedOnVessel,
	ConsignmentUnderProcessing:      StageLoadedOnVessel,
	ConsignmentInTransit:            StageInTransit,
	ConsignmentArrivedAtFacility:    StageArrivedAtPort,
	ConsignmentReadyForDelivery:     StageReadyForDelivery,
	ConsignmentArrivedAtDestination: StageOutForDelivery,
	ConsignmentDelivered:            StageDelivered,
}

// SyncedStage maps a consignment status to the shipment stage cascaded onto
// its linked orders and receivers.
func SyncedStage(consignmentStatus string) (string, bool) {
	s, ok := syncedStageByConsignment[consignmentStatus]
	return s, ok
}

// Consignment - a higher-level grouping of orders advancing through the
// fixed status pipeline.
type Consignment struct {
	ID       int64
	Number   string
	Status   string
	ETA      *time.Time
	OrderIDs []int64
}
