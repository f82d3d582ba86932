package engine

import (
	"github.com/piwi3910/labelsheet/internal/model"
)

// ComparisonScenario defines a named sheet configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config model.PageConfig
}

// ComparisonResult holds the estimate and sheet utilisation for a single
// scenario.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Estimate    SheetEstimate
	Utilisation float64 // label area as a percentage of page area
}

// CompareScenarios estimates the same print run against every scenario,
// keeping scenario order.
func CompareScenarios(scenarios []ComparisonScenario, itemCount int, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		e := New(scenario.Config, opts...)
		est := e.Estimate(itemCount)

		var utilisation float64
		pageArea := scenario.Config.PageWidth * scenario.Config.PageHeight
		if pageArea > 0 {
			labelArea := scenario.Config.LabelWidth * scenario.Config.LabelHeight * float64(est.LabelsPerSheet)
			utilisation = labelArea / pageArea * 100
		}

		results = append(results, ComparisonResult{
			Scenario:    scenario,
			Estimate:    est,
			Utilisation: utilisation,
		})
	}

	return results
}

// BuildPresetScenarios returns the current configuration followed by every
// built-in label preset applied on top of it.
func BuildPresetScenarios(base model.PageConfig) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Config: base,
		},
	}
	for _, p := range model.LabelPresets {
		scenarios = append(scenarios, ComparisonScenario{
			Name:   p.Name,
			Config: model.ApplyPreset(base, p),
		})
	}
	return scenarios
}
