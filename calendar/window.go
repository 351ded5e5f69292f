package calendar

import (
	"fmt"
	"time"

	"crop_calendar/crops"
	"crop_calendar/environment"
)

// buildPlantingAdjustment compares the snapshot against the crop's
// requirement bands. Deltas are additive: several breached thresholds
// stack their delays.
func buildPlantingAdjustment(req crops.Requirements, snap *environment.Snapshot) PlantingAdjustment {
	var adj PlantingAdjustment

	moisture := snap.SoilMoisture.Percentage
	if moisture < req.SoilMoisture.Minimum {
		adj.DelayDays += 7
		adj.RiskFactors = append(adj.RiskFactors, "Low soil moisture")
		adj.Recommendations = append(adj.Recommendations, "Irrigate the field before planting")
	} else if moisture > req.SoilMoisture.Maximum {
		adj.DelayDays += 3
		adj.RiskFactors = append(adj.RiskFactors, "Excess soil moisture")
		adj.Recommendations = append(adj.Recommendations, "Allow the field to drain before planting")
	}

	temp := snap.Temperature.Current
	if temp < req.Temperature.Minimum {
		adj.DelayDays += 14
		adj.RiskFactors = append(adj.RiskFactors, "Temperature too low")
		adj.Recommendations = append(adj.Recommendations, "Wait for soil and air temperatures to rise")
	} else if temp > req.Temperature.Maximum {
		adj.DelayDays += 7
		adj.RiskFactors = append(adj.RiskFactors, "Temperature too high")
		adj.Recommendations = append(adj.Recommendations, "Delay planting until the heat breaks")
	}

	if snap.Precipitation.Last7Days > 50 {
		adj.DelayDays += 3
		adj.RiskFactors = append(adj.RiskFactors, "Heavy recent rainfall")
		adj.Recommendations = append(adj.Recommendations, "Check field drainage before working the soil")
	}

	return adj
}

// ResolvePlantingWindow picks the next valid planting interval for the
// hemisphere's season table and the environmentally adjusted start inside
// it. Seasons are scanned in table order; an already-active season is kept
// as long as it has not fully ended, otherwise the scan wraps to the first
// entry of next year.
func ResolvePlantingWindow(profile *crops.CropProfile, now time.Time, northern bool, snap *environment.Snapshot) (*PlantingWindow, error) {
	seasons := profile.PlantingSeasons.Northern
	hemisphere := "northern"
	if !northern {
		seasons = profile.PlantingSeasons.Southern
		hemisphere = "southern"
	}
	if len(seasons) == 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("%s has no %s hemisphere planting seasons", profile.Name, hemisphere),
		}
	}

	adj := buildPlantingAdjustment(profile.Requirements, snap)
	today := NewDate(now)

	var seasonStart, seasonEnd Date
	found := false
	for _, w := range seasons {
		start := monthStart(today.Year(), w.StartMonth)
		end := monthEnd(today.Year(), w.EndMonth)
		if !start.Before(today.Time) || (!today.Before(start.Time) && !today.After(end.Time)) {
			seasonStart, seasonEnd = start, end
			found = true
			break
		}
	}
	if !found {
		w := seasons[0]
		seasonStart = monthStart(today.Year()+1, w.StartMonth)
		seasonEnd = monthEnd(today.Year()+1, w.EndMonth)
	}

	adjustment := adj.DelayDays - adj.AdvanceDays
	optimalStart := seasonStart.AddDays(adjustment)
	if !optimalStart.After(today.Time) {
		optimalStart = today.AddDays(1)
	}
	optimalEnd := seasonEnd
	if optimalStart.After(optimalEnd.Time) {
		optimalStart = optimalEnd
	}

	return &PlantingWindow{
		Season:          seasonName(optimalStart.Month(), northern),
		EarliestStart:   seasonStart,
		LatestEnd:       seasonEnd,
		OptimalStart:    optimalStart,
		OptimalEnd:      optimalEnd,
		AdjustmentDays:  adjustment,
		RiskFactors:     adj.RiskFactors,
		Recommendations: adj.Recommendations,
		DaysFromNow:     today.DaysUntil(optimalStart),
	}, nil
}

func monthStart(year, month int) Date {
	return Date{time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)}
}

func monthEnd(year, month int) Date {
	// Day zero of the following month is the last day of this one.
	return Date{time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)}
}

// seasonName maps a month to its meteorological season, shifted by two
// quarters for the southern hemisphere.
func seasonName(month time.Month, northern bool) string {
	var quarter int
	switch {
	case month >= time.March && month <= time.May:
		quarter = 0
	case month >= time.June && month <= time.August:
		quarter = 1
	case month >= time.September && month <= time.November:
		quarter = 2
	default:
		quarter = 3
	}
	if !northern {
		quarter = (quarter + 2) % 4
	}
	return [...]string{"Spring", "Summer", "Fall", "Winter"}[quarter]
}
