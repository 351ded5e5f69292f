package calendar

import (
	"math"

	"crop_calendar/crops"
)

// GrowthRateMultiplier scales every stage duration and the growing period
// uniformly. Temperature outside the crop's band slows growth (1.2),
// within 2C of optimal speeds it up (0.9), otherwise neutral.
func GrowthRateMultiplier(current float64, band crops.TemperatureBand) float64 {
	if current < band.Minimum || current > band.Maximum {
		return 1.2
	}
	if math.Abs(current-band.Optimal) <= 2 {
		return 0.9
	}
	return 1.0
}

// ProjectGrowthStages lays out the crop's stages as contiguous dated
// intervals anchored at the optimal planting date. Durations are scaled by
// the growth-rate multiplier and clamp at one day minimum.
func ProjectGrowthStages(stages []crops.GrowthStage, plantingStart Date, multiplier float64) []GrowthStageInstance {
	out := make([]GrowthStageInstance, 0, len(stages))
	runningTotal := 0
	for _, s := range stages {
		adjusted := int(math.Round(float64(s.DurationDays) * multiplier))
		if adjusted < 1 {
			adjusted = 1
		}
		runningTotal += adjusted
		out = append(out, GrowthStageInstance{
			Name:             s.Name,
			Description:      s.Description,
			StartDate:        plantingStart.AddDays(runningTotal - adjusted),
			EndDate:          plantingStart.AddDays(runningTotal),
			DurationDays:     adjusted,
			Activities:       s.Activities,
			CareInstructions: s.CareInstructions,
			ExpectedSigns:    s.ExpectedSigns,
		})
	}
	return out
}
