package calendar

import (
	"math"

	"crop_calendar/crops"
	"crop_calendar/environment"
)

// EstimateHarvestWindow computes earliest/optimal/latest harvest dates
// around the rate-adjusted growing period end, plus a yield estimate
// scaled by field area and current conditions.
func EstimateHarvestWindow(profile *crops.CropProfile, plantingStart Date, areaAcres float64, snap *environment.Snapshot, multiplier float64) HarvestWindow {
	adjustedPeriod := int(math.Round(float64(profile.GrowingPeriodDays) * multiplier))
	if adjustedPeriod < 1 {
		adjustedPeriod = 1
	}
	optimal := plantingStart.AddDays(adjustedPeriod)

	return HarvestWindow{
		EarliestDate:        plantingStart.AddDays(adjustedPeriod - 7),
		OptimalDate:         optimal,
		LatestDate:          plantingStart.AddDays(adjustedPeriod + 7),
		EstimatedYield:      estimateYield(profile, areaAcres, snap),
		HarvestingMethod:    profile.HarvestingMethod,
		PostHarvestCare:     profile.PostHarvestCare,
		StorageInstructions: profile.StorageInstructions,
		MarketReadinessDate: optimal.AddDays(profile.ProcessingDays),
	}
}

// estimateYield multiplies the crop's per-hectare base yield by field size
// and two independent, compounding condition multipliers (soil moisture
// and vegetation index).
func estimateYield(profile *crops.CropProfile, areaAcres float64, snap *environment.Snapshot) YieldEstimate {
	multiplier := 1.0

	moisture := snap.SoilMoisture.Percentage
	if moisture >= 40 && moisture <= 70 {
		multiplier *= 1.1
	} else if moisture < 30 || moisture > 80 {
		multiplier *= 0.8
	}

	ndvi := snap.VegetationIndex.NDVI
	if ndvi > 0.6 {
		multiplier *= 1.2
	} else if ndvi < 0.3 {
		multiplier *= 0.7
	}

	hectares := areaAcres * hectaresPerAcre
	return YieldEstimate{
		Amount:     round2(profile.ExpectedYield.Amount * hectares * multiplier),
		Unit:       profile.ExpectedYield.Unit,
		Confidence: math.Min(0.95, 0.6+snap.Confidence*0.3),
	}
}
