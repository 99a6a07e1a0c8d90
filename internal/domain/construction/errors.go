package construction

import "errors"

var (
	// ErrInvalidBuilding is returned when catalog data cannot describe a building
	ErrInvalidBuilding = errors.New("invalid building")

	// ErrInvalidPlanEntry is returned when a plan entry has no ticker or a negative count
	ErrInvalidPlanEntry = errors.New("invalid plan entry")

	// ErrBuildingNotFound is returned when a ticker is absent from the catalog
	ErrBuildingNotFound = errors.New("building not found in catalog")

	// ErrInvalidPlanLink is returned when a plan link is not a plan-sharing URL
	ErrInvalidPlanLink = errors.New("invalid plan link")
)
