package calendar

import (
	"math"

	"crop_calendar/crops"
	"crop_calendar/environment"
)

const (
	sqMetersPerAcre  = 4047.0
	hectaresPerAcre  = 0.4047
	litersPerMinute  = 50.0
	irrigationAdvice = "Irrigate in the early morning or evening to limit evaporation"
)

// Fertilizer cost per unit by type; unlisted types fall back to the default.
var fertilizerCostPerUnit = map[string]float64{
	"NPK":       2.5,
	"Urea":      1.8,
	"Phosphate": 3.2,
	"Potash":    2.0,
	"Organic":   1.5,
}

const defaultFertilizerCost = 2.0

// stageNameAt returns the growth stage active N days after planting,
// walking the crop table's nominal durations. Maintenance placement
// deliberately uses nominal durations, not the rate-adjusted ones that
// stage and harvest dates use; past the last stage it reports Maturity.
func stageNameAt(profile *crops.CropProfile, daysAfterPlanting int) string {
	cumulative := 0
	for _, s := range profile.GrowthStages {
		cumulative += s.DurationDays
		if daysAfterPlanting < cumulative {
			return s.Name
		}
	}
	return "Maturity"
}

// BuildFertilizationSchedule dates each schedule entry relative to the
// optimal planting start and scales amounts by field area.
func BuildFertilizationSchedule(profile *crops.CropProfile, plantingStart Date, areaAcres float64) []FertilizationEvent {
	out := make([]FertilizationEvent, 0, len(profile.Fertilization))
	for _, e := range profile.Fertilization {
		out = append(out, FertilizationEvent{
			Date:          plantingStart.AddDays(e.DaysAfterPlanting),
			Type:          e.Type,
			Nutrient:      e.Nutrient,
			AmountPerAcre: e.AmountPerAcre,
			TotalAmount:   round2(e.AmountPerAcre * areaAcres),
			Unit:          e.Unit,
			Method:        e.Method,
			Instructions:  e.Instructions,
			Stage:         stageNameAt(profile, e.DaysAfterPlanting),
		})
	}
	return out
}

// IrrigationFrequencyDays picks the watering interval from recent rain and
// soil moisture: wet fields stretch to every 10 days, dry ones tighten to
// every 3, everything else waters weekly.
func IrrigationFrequencyDays(snap *environment.Snapshot) int {
	rain7 := snap.Precipitation.Last7Days
	moisture := snap.SoilMoisture.Percentage
	switch {
	case rain7 > 30 || moisture > 70:
		return 10
	case rain7 < 10 && moisture < 30:
		return 3
	default:
		return 7
	}
}

// BuildIrrigationSchedule generates events from day 7 through the nominal
// growing period at the computed interval. Volume is the crop's weekly
// water need over the field, discounted by recent rainfall.
func BuildIrrigationSchedule(profile *crops.CropProfile, plantingStart Date, areaAcres float64, snap *environment.Snapshot) []IrrigationEvent {
	frequency := IrrigationFrequencyDays(snap)
	areaSqMeters := areaAcres * sqMetersPerAcre
	rainFactor := math.Max(0, 1-snap.Precipitation.Last7Days/30)
	amountLiters := math.Round(profile.WaterPerSqMeterWeek * areaSqMeters * rainFactor / 7)
	durationMinutes := int(math.Round(amountLiters / litersPerMinute))

	var out []IrrigationEvent
	for day := 7; day <= profile.GrowingPeriodDays; day += frequency {
		out = append(out, IrrigationEvent{
			Date:            plantingStart.AddDays(day),
			AmountLiters:    amountLiters,
			DurationMinutes: durationMinutes,
			TimingAdvice:    irrigationAdvice,
			Stage:           stageNameAt(profile, day),
		})
	}
	return out
}

// BuildMaintenancePlan combines both schedules with their cost and water
// totals.
func BuildMaintenancePlan(profile *crops.CropProfile, plantingStart Date, areaAcres float64, snap *environment.Snapshot) MaintenancePlan {
	plan := MaintenancePlan{
		Fertilization: BuildFertilizationSchedule(profile, plantingStart, areaAcres),
		Irrigation:    BuildIrrigationSchedule(profile, plantingStart, areaAcres, snap),
	}
	for _, f := range plan.Fertilization {
		cost, ok := fertilizerCostPerUnit[f.Type]
		if !ok {
			cost = defaultFertilizerCost
		}
		plan.TotalFertilizerCost += f.TotalAmount * cost
	}
	plan.TotalFertilizerCost = round2(plan.TotalFertilizerCost)
	for _, ev := range plan.Irrigation {
		plan.TotalWaterNeeded += ev.AmountLiters
	}
	return plan
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
