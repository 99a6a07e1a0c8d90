package api

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

func newPlannerServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/buildings", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"Ticker":"CM","AreaCost":25,"BuildingCosts":[{"CommodityTicker":"BSE","Amount":12},{"CommodityTicker":"BBH","Amount":12}]},
			{"Ticker":"hb1","AreaCost":3,"BuildingCosts":[{"CommodityTicker":"BSE","Amount":10}]}
		]`))
	})
	mux.HandleFunc("/data/planet/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/planet/OT-580 b", r.URL.Path)
		_, _ = w.Write([]byte(`{"Surface":false,"Pressure":2.5,"Temperature":-40,"Gravity":0.8}`))
	})
	mux.HandleFunc("/shared/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"baseplanner":{"planet_id":1234,"baseplanner_data":{
			"buildings":[{"name":"hb1","amount":2},{"name":"FRM","amount":0}],
			"infrastructure":[{"building":"STO","amount":1}]}}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestPlanner(t *testing.T) *PlannerClient {
	server := newPlannerServer(t)
	client := NewClient(testAPIConfig(), shared.NewMockClock(time.Now()), nil)
	return NewPlannerClient(client, server.URL+"/")
}

func TestPlannerClient_FetchBuildings(t *testing.T) {
	// Arrange
	planner := newTestPlanner(t)

	// Act
	buildings, warnings, err := planner.FetchBuildings(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, buildings, 2)
	assert.Equal(t, "CM", buildings[0].Ticker())
	assert.Equal(t, 25.0, buildings[0].AreaCost())
	assert.Equal(t, "HB1", buildings[1].Ticker())
	assert.Equal(t, []construction.MaterialAmount{{Ticker: market.Ticker("BSE"), Amount: 10}}, buildings[1].BaseCosts())
}

func TestPlannerClient_FetchBuildingsSkipsMalformedEntries(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"Ticker":"XYZ","AreaCost":5,"BuildingCosts":[{"CommodityTicker":"SUPERLONG","Amount":1},{"CommodityTicker":"MCG","Amount":4}]},
			{"Ticker":"CM","AreaCost":25,"BuildingCosts":[{"CommodityTicker":"BSE","Amount":12}]},
			{"Ticker":"bad","AreaCost":-1,"BuildingCosts":[]},
			{"Ticker":"NEG","AreaCost":2,"BuildingCosts":[{"CommodityTicker":"BSE","Amount":-3}]}
		]`))
	}))
	defer server.Close()
	planner := NewPlannerClient(NewClient(testAPIConfig(), shared.NewMockClock(time.Now()), nil), server.URL)

	// Act
	buildings, warnings, err := planner.FetchBuildings(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, buildings, 3)
	assert.Equal(t, "XYZ", buildings[0].Ticker())
	assert.Equal(t, []construction.MaterialAmount{{Ticker: "MCG", Amount: 4}}, buildings[0].BaseCosts())
	assert.Equal(t, "CM", buildings[1].Ticker())
	assert.Equal(t, "NEG", buildings[2].Ticker())
	assert.Empty(t, buildings[2].BaseCosts())

	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.Equal(t, shared.WarningInvalidCatalogEntry, w.Kind)
	}
	assert.Equal(t, "XYZ", warnings[0].Subject)
	assert.Contains(t, warnings[0].Message, "SUPERLONG")
	assert.Equal(t, "BAD", warnings[1].Subject)
	assert.Equal(t, "NEG", warnings[2].Subject)
}

func TestPlannerClient_FetchPlanet(t *testing.T) {
	planner := newTestPlanner(t)

	planet, err := planner.FetchPlanet(context.Background(), "OT-580 b")

	require.NoError(t, err)
	assert.Equal(t, construction.Planet{ID: "OT-580 b", Rocky: false, Pressure: 2.5, Temperature: -40, Gravity: 0.8}, planet)
	assert.True(t, planet.HighPressure())
	assert.True(t, planet.LowTemperature())
}

func TestPlannerClient_FetchPlanUsesLinkPathOnAPIHost(t *testing.T) {
	// Arrange
	planner := newTestPlanner(t)
	link, err := construction.ParsePlanLink("https://prunplanner.org/shared/abc#top", "prunplanner.org")
	require.NoError(t, err)

	// Act
	plan, err := planner.FetchPlan(context.Background(), link)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "1234", plan.PlanetID)
	assert.Equal(t, []construction.PlanEntry{{Ticker: "HB1", Count: 2}, {Ticker: "FRM", Count: 0}}, plan.Buildings)
	assert.Equal(t, []construction.PlanEntry{{Ticker: "STO", Count: 1}}, plan.Infrastructure)
}

func TestPlannerClient_FetchPlanNotFound(t *testing.T) {
	planner := newTestPlanner(t)
	link, err := construction.ParsePlanLink("https://prunplanner.org/shared/missing", "prunplanner.org")
	require.NoError(t, err)

	_, err = planner.FetchPlan(context.Background(), link)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPriceFeedClient_FetchPriceRecords(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"MaterialTicker":"MCG","ExchangeCode":"AI1","PriceAverage":10,"TradedYesterday":2},
			{"MaterialTicker":"MCG","ExchangeCode":"CI2","PriceAverage":null,"TradedYesterday":5}
		]`))
	}))
	defer server.Close()

	feed := NewPriceFeedClient(NewClient(testAPIConfig(), shared.NewMockClock(time.Now()), nil), server.URL)

	// Act
	records, err := feed.FetchPriceRecords(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, market.PriceRecord{MaterialTicker: "MCG", ExchangeCode: "AI1", PriceAverage: 10, TradedYesterday: 2}, records[0])
	assert.True(t, math.IsNaN(records[1].PriceAverage))
	assert.False(t, records[1].Valid())
}

func TestPlannerClient_FetchPlanWithoutPlanetIsInconsistent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"baseplanner":{"planet_id":null,"baseplanner_data":{"buildings":[]}}}`))
	}))
	defer server.Close()

	planner := NewPlannerClient(NewClient(testAPIConfig(), shared.NewMockClock(time.Now()), nil), server.URL)
	link, err := construction.ParsePlanLink("https://prunplanner.org/shared/x", "prunplanner.org")
	require.NoError(t, err)

	_, err = planner.FetchPlan(context.Background(), link)

	var inconsistent *shared.DataConsistencyError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "/shared/x", inconsistent.Subject)
}

func TestPlannerClient_FetchPlanAmounts(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []construction.PlanEntry
		wantErr bool
	}{
		{
			name: "whole number written as float",
			body: `{"baseplanner":{"planet_id":"KW-688c","baseplanner_data":{"buildings":[{"name":"HB1","amount":2.0}]}}}`,
			want: []construction.PlanEntry{{Ticker: "HB1", Count: 2}},
		},
		{
			name:    "fractional amount",
			body:    `{"baseplanner":{"planet_id":"KW-688c","baseplanner_data":{"buildings":[{"name":"HB1","amount":2.5}]}}}`,
			wantErr: true,
		},
		{
			name:    "fractional infrastructure amount",
			body:    `{"baseplanner":{"planet_id":"KW-688c","baseplanner_data":{"infrastructure":[{"building":"STO","amount":0.5}]}}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()
			planner := NewPlannerClient(NewClient(testAPIConfig(), shared.NewMockClock(time.Now()), nil), server.URL)
			link, err := construction.ParsePlanLink("https://prunplanner.org/shared/abc", "prunplanner.org")
			require.NoError(t, err)

			plan, err := planner.FetchPlan(context.Background(), link)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, construction.ErrInvalidPlanEntry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Buildings)
		})
	}
}
