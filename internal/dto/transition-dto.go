package dto

// TransitionDTO is the generic payload for the simple transitions
// (accept payment, advance stage, mark delivered, cancel).
type TransitionDTO struct {
	Comment string `json:"comment,omitempty" validate:"omitempty,min=3"`
}

type AdvanceStageDTO struct {
	NextStage string `json:"next_stage" validate:"required"`
	Comment   string `json:"comment,omitempty" validate:"omitempty,min=3"`
}

type CancelOrderDTO struct {
	// Cancellation always requires an explanation; it ends up in the
	// status log.
	Comment string `json:"comment" validate:"required,min=3"`
}

type FinishProductionDTO struct {
	PackagesCount int                `json:"packages_count" validate:"required,gt=0"`
	Packages      []CreatePackageDTO `json:"packages,omitempty" validate:"omitempty,dive"`
	Comment       string             `json:"comment,omitempty"`
}

type ConfirmShipmentDTO struct {
	CarrierCompany string `json:"carrier_company,omitempty"`
	TrackingNumber string `json:"tracking_number" validate:"required"`
	Comment        string `json:"comment,omitempty"`
}
