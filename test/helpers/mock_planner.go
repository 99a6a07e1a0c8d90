package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// MockPlanner is a test double for the building catalog, plan and planet sources
type MockPlanner struct {
	mu        sync.Mutex
	buildings []*construction.Building
	skipped   []shared.Warning
	plans     map[string]*construction.Plan
	planets   map[string]construction.Planet

	catalogErr   error
	catalogCalls int
	// catalogGate, when set, blocks catalog fetches until it is closed
	catalogGate chan struct{}
	// planGates blocks FetchPlan for a path until the channel is closed
	planGates map[string]chan struct{}
}

// NewMockPlanner creates an empty planner double
func NewMockPlanner() *MockPlanner {
	return &MockPlanner{
		plans:     make(map[string]*construction.Plan),
		planets:   make(map[string]construction.Planet),
		planGates: make(map[string]chan struct{}),
	}
}

// AddBuilding adds a catalog entry
func (m *MockPlanner) AddBuilding(b *construction.Building) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buildings = append(m.buildings, b)
}

// AddCatalogWarning reports a skipped catalog entry with every fetch
func (m *MockPlanner) AddCatalogWarning(w shared.Warning) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped = append(m.skipped, w)
}

// AddPlan serves plan for the link path
func (m *MockPlanner) AddPlan(path string, plan *construction.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[path] = plan
}

// AddPlanet serves planet by its id
func (m *MockPlanner) AddPlanet(planet construction.Planet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planets[planet.ID] = planet
}

// SetCatalogError makes catalog fetches fail with err; nil clears it
func (m *MockPlanner) SetCatalogError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogErr = err
}

// GateCatalog blocks catalog fetches until the returned function is called
func (m *MockPlanner) GateCatalog() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.catalogGate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// GatePlan blocks FetchPlan for path until the returned function is called
func (m *MockPlanner) GatePlan(path string) (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.planGates[path] = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// CatalogCalls returns how many catalog fetches reached the source
func (m *MockPlanner) CatalogCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogCalls
}

// FetchBuildings implements construction.CatalogSource
func (m *MockPlanner) FetchBuildings(ctx context.Context) ([]*construction.Building, []shared.Warning, error) {
	m.mu.Lock()
	m.catalogCalls++
	gate := m.catalogGate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.catalogErr != nil {
		return nil, nil, m.catalogErr
	}
	out := make([]*construction.Building, len(m.buildings))
	copy(out, m.buildings)
	return out, append([]shared.Warning(nil), m.skipped...), nil
}

// FetchPlan implements construction.PlanSource
func (m *MockPlanner) FetchPlan(ctx context.Context, link *construction.PlanLink) (*construction.Plan, error) {
	m.mu.Lock()
	gate := m.planGates[link.Path()]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[link.Path()]
	if !ok {
		return nil, fmt.Errorf("plan %s not found", link.Path())
	}
	return plan, nil
}

// FetchPlanet implements construction.PlanetSource
func (m *MockPlanner) FetchPlanet(ctx context.Context, planetID string) (construction.Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	planet, ok := m.planets[planetID]
	if !ok {
		return construction.Planet{}, fmt.Errorf("planet %s not found", planetID)
	}
	return planet, nil
}
