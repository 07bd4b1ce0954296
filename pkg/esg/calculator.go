// Package esg implements the environmental, social, and governance scoring
// battery: weighted category scores, resource-consumption aggregations,
// and the pillar and composite ESG totals. Scores are weighted sums over
// named categories; every category in the data must carry a weight.
package esg

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/Laranguyen811/diagnostic-tool/pkg/logger"
)

// WasteEntry is one waste stream: the quantity handled and the management
// score of its disposal route.
type WasteEntry struct {
	Quantity float64
	Score    float64
}

// UsageReport aggregates a resource-consumption table: the total per
// period across all sources, and the grand total over the reporting
// window.
type UsageReport struct {
	PerPeriod []float64
	Total     float64
}

// CategoryInput couples one scoring category's data with its weights.
type CategoryInput struct {
	Data    map[string]float64
	Weights map[string]float64
}

// PillarData maps category names to their inputs for one ESG pillar.
type PillarData map[string]CategoryInput

// Calculator computes ESG scores. The logger carries per-pillar debug
// diagnostics for score breakdowns.
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a Calculator emitting diagnostics through the
// given logger.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{log: logger.Component(log, "esg")}
}

// CategoryScore calculates the weighted sum Σ score×weight over the data
// categories. Every data category must have a weight, and both sides must
// be finite.
func (c *Calculator) CategoryScore(data, weights map[string]float64) (float64, error) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0.0
	for _, name := range names {
		score := data[name]
		weight, ok := weights[name]
		if !ok {
			return 0, fmt.Errorf("esg: missing weight for category %q", name)
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return 0, fmt.Errorf("esg: category %q: non-finite score %v", name, score)
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return 0, fmt.Errorf("esg: category %q: non-finite weight %v", name, weight)
		}
		total += score * weight
	}
	return total, nil
}

// CarbonFootprint calculates greenhouse gas emissions from an activity
// level and its emission factor.
func (c *Calculator) CarbonFootprint(activityData, emissionFactor float64) float64 {
	return activityData * emissionFactor
}

// EnergyConsumption aggregates per-source energy series (kWh) into
// per-period totals and an overall total. Every source must report the
// same number of periods.
func (c *Calculator) EnergyConsumption(bySource map[string][]float64) (*UsageReport, error) {
	return aggregateUsage(bySource)
}

// WaterUsage aggregates per-source water series (cubic meters) into
// per-period totals and an overall total. Every source must report the
// same number of periods.
func (c *Calculator) WaterUsage(bySource map[string][]float64) (*UsageReport, error) {
	return aggregateUsage(bySource)
}

// WasteManagement calculates the quantity-weighted mean management score
// over all waste streams: Σ quantity×score ÷ Σ quantity, or 0 when
// nothing was handled.
func (c *Calculator) WasteManagement(entries map[string]WasteEntry) float64 {
	totalQuantity, weighted := 0.0, 0.0
	for _, e := range entries {
		totalQuantity += e.Quantity
		weighted += e.Quantity * e.Score
	}
	if totalQuantity == 0 {
		return 0
	}
	return weighted / totalQuantity
}

// EnvironmentalScore combines the environmental pillar components: carbon
// footprint, renewable energy, and waste management scores.
func (c *Calculator) EnvironmentalScore(carbon, renewable, waste float64) float64 {
	return carbon + renewable + waste
}

// SocialScore combines the social pillar components: labor practices,
// diversity and inclusion, and community engagement scores.
func (c *Calculator) SocialScore(labor, diversityInclusion, community float64) float64 {
	return labor + diversityInclusion + community
}

// GovernanceScore combines the governance pillar components:
// anti-corruption, board diversity, and executive pay scores.
func (c *Calculator) GovernanceScore(antiCorruption, boardDiversity, executivePay float64) float64 {
	return antiCorruption + boardDiversity + executivePay
}

// ESGScore calculates the composite ESG score: the sum of the three pillar
// scores, where each pillar is the sum of its weighted category scores.
func (c *Calculator) ESGScore(environmental, social, governance PillarData) (float64, error) {
	e, err := c.pillarScore(environmental)
	if err != nil {
		return 0, err
	}
	s, err := c.pillarScore(social)
	if err != nil {
		return 0, err
	}
	g, err := c.pillarScore(governance)
	if err != nil {
		return 0, err
	}

	total := e + s + g
	c.log.Debug().
		Float64("environmental", e).
		Float64("social", s).
		Float64("governance", g).
		Float64("total", total).
		Msg("esg score computed")
	return total, nil
}

func (c *Calculator) pillarScore(categories PillarData) (float64, error) {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0.0
	for _, name := range names {
		in := categories[name]
		score, err := c.CategoryScore(in.Data, in.Weights)
		if err != nil {
			return 0, err
		}
		total += score
	}
	return total, nil
}

func aggregateUsage(bySource map[string][]float64) (*UsageReport, error) {
	names := make([]string, 0, len(bySource))
	for name := range bySource {
		names = append(names, name)
	}
	sort.Strings(names)

	periods := -1
	for _, name := range names {
		if periods == -1 {
			periods = len(bySource[name])
			continue
		}
		if len(bySource[name]) != periods {
			return nil, fmt.Errorf("esg: usage series %q has %d periods, want %d",
				name, len(bySource[name]), periods)
		}
	}
	if periods <= 0 {
		return &UsageReport{PerPeriod: []float64{}}, nil
	}

	perPeriod := make([]float64, periods)
	for _, name := range names {
		floats.Add(perPeriod, bySource[name])
	}
	return &UsageReport{
		PerPeriod: perPeriod,
		Total:     floats.Sum(perPeriod),
	}, nil
}
