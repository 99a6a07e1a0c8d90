package construction

import (
	"context"

	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// CatalogSource fetches the full building catalog. Entries that cannot be
// read are left out and returned as warnings.
type CatalogSource interface {
	FetchBuildings(ctx context.Context) ([]*Building, []shared.Warning, error)
}

// PlanSource fetches a base plan by its sharing link
type PlanSource interface {
	FetchPlan(ctx context.Context, link *PlanLink) (*Plan, error)
}

// PlanetSource fetches planet attributes by planet id
type PlanetSource interface {
	FetchPlanet(ctx context.Context, planetID string) (Planet, error)
}
