package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

type buildingCostDTO struct {
	CommodityTicker string  `json:"CommodityTicker"`
	Amount          float64 `json:"Amount"`
}

type buildingDTO struct {
	Ticker        string            `json:"Ticker"`
	AreaCost      float64           `json:"AreaCost"`
	BuildingCosts []buildingCostDTO `json:"BuildingCosts"`
}

type planetDTO struct {
	Surface     bool    `json:"Surface"`
	Pressure    float64 `json:"Pressure"`
	Temperature float64 `json:"Temperature"`
	Gravity     float64 `json:"Gravity"`
}

// Plan amounts are decoded as numbers and must be whole; some exports write 2.0
type planBuildingDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type planInfrastructureDTO struct {
	Building string  `json:"building"`
	Amount   float64 `json:"amount"`
}

type planDTO struct {
	Baseplanner struct {
		PlanetID flexibleID `json:"planet_id"`
		Data     struct {
			Buildings      []planBuildingDTO       `json:"buildings"`
			Infrastructure []planInfrastructureDTO `json:"infrastructure"`
		} `json:"baseplanner_data"`
	} `json:"baseplanner"`
}

// flexibleID accepts both JSON strings and numbers
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("planet id must be a string or number: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}

// PlannerClient reads buildings, planets and plans from the planning API
type PlannerClient struct {
	client  *Client
	baseURL string
}

// NewPlannerClient creates a planning API reader rooted at baseURL
func NewPlannerClient(client *Client, baseURL string) *PlannerClient {
	return &PlannerClient{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// FetchBuildings implements construction.CatalogSource.
// Malformed cost lines and buildings are skipped and reported as warnings.
func (p *PlannerClient) FetchBuildings(ctx context.Context) ([]*construction.Building, []shared.Warning, error) {
	var rows []buildingDTO
	if err := p.client.GetJSON(ctx, "buildings", p.baseURL+"/data/buildings", &rows); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch buildings: %w", err)
	}

	var warnings []shared.Warning
	buildings := make([]*construction.Building, 0, len(rows))
	for _, row := range rows {
		subject := strings.ToUpper(strings.TrimSpace(row.Ticker))
		costs := make([]construction.MaterialAmount, 0, len(row.BuildingCosts))
		for _, c := range row.BuildingCosts {
			ticker, err := market.NewTicker(c.CommodityTicker)
			if err == nil {
				err = market.ValidateQuantity(c.Amount)
			}
			if err != nil {
				warnings = append(warnings, shared.NewWarning(shared.WarningInvalidCatalogEntry, subject,
					"cost line %q skipped: %v", c.CommodityTicker, err))
				continue
			}
			costs = append(costs, construction.MaterialAmount{Ticker: ticker, Amount: c.Amount})
		}

		b, err := construction.NewBuilding(row.Ticker, row.AreaCost, costs)
		if err != nil {
			warnings = append(warnings, shared.NewWarning(shared.WarningInvalidCatalogEntry, subject,
				"building skipped: %v", err))
			continue
		}
		buildings = append(buildings, b)
	}
	return buildings, warnings, nil
}

// FetchPlanet implements construction.PlanetSource
func (p *PlannerClient) FetchPlanet(ctx context.Context, planetID string) (construction.Planet, error) {
	var dto planetDTO
	endpoint := p.baseURL + "/data/planet/" + url.PathEscape(planetID)
	if err := p.client.GetJSON(ctx, "planet", endpoint, &dto); err != nil {
		return construction.Planet{}, fmt.Errorf("failed to fetch planet %s: %w", planetID, err)
	}
	return construction.Planet{
		ID:          planetID,
		Rocky:       dto.Surface,
		Pressure:    dto.Pressure,
		Temperature: dto.Temperature,
		Gravity:     dto.Gravity,
	}, nil
}

// FetchPlan implements construction.PlanSource.
// The sharing link's path is requested from the planning API host.
func (p *PlannerClient) FetchPlan(ctx context.Context, link *construction.PlanLink) (*construction.Plan, error) {
	var dto planDTO
	if err := p.client.GetJSON(ctx, "plan", p.baseURL+link.RequestURI(), &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch plan: %w", err)
	}

	plan := &construction.Plan{PlanetID: string(dto.Baseplanner.PlanetID)}
	if plan.PlanetID == "" {
		return nil, shared.NewDataConsistencyError(link.Path(), "plan has no planet id")
	}

	for _, b := range dto.Baseplanner.Data.Buildings {
		amount, err := wholeAmount(b.Amount)
		if err != nil {
			return nil, fmt.Errorf("plan building %s: %w", b.Name, err)
		}
		entry, err := construction.NewPlanEntry(b.Name, amount)
		if err != nil {
			return nil, fmt.Errorf("plan building: %w", err)
		}
		plan.Buildings = append(plan.Buildings, entry)
	}
	for _, b := range dto.Baseplanner.Data.Infrastructure {
		amount, err := wholeAmount(b.Amount)
		if err != nil {
			return nil, fmt.Errorf("plan infrastructure %s: %w", b.Building, err)
		}
		entry, err := construction.NewPlanEntry(b.Building, amount)
		if err != nil {
			return nil, fmt.Errorf("plan infrastructure: %w", err)
		}
		plan.Infrastructure = append(plan.Infrastructure, entry)
	}
	return plan, nil
}

// wholeAmount converts a decoded plan amount to a count
func wholeAmount(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: amount %v is not a whole number", construction.ErrInvalidPlanEntry, v)
	}
	return int(v), nil
}
