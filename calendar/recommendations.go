package calendar

import (
	"fmt"
	"sort"

	"crop_calendar/crops"
	"crop_calendar/environment"
)

// GenerateRecommendations runs independent threshold checks against the
// snapshot and the resolved planting window. Every matching rule fires;
// the result is stable-sorted by priority so ties keep rule order.
func GenerateRecommendations(profile *crops.CropProfile, snap *environment.Snapshot, window *PlantingWindow) []Recommendation {
	var recs []Recommendation

	if window.DaysFromNow > 0 && window.DaysFromNow <= 7 {
		recs = append(recs, Recommendation{
			Priority:    PriorityHigh,
			Category:    "planting",
			Title:       "Prepare for planting",
			Description: fmt.Sprintf("The optimal planting window for %s opens in %d day(s).", profile.Name, window.DaysFromNow),
			Actions: []string{
				"Prepare the seedbed and finalize field layout",
				"Procure certified seed and basal fertilizer",
				"Check irrigation equipment and water availability",
				"Arrange labor or machinery for sowing day",
			},
		})
	}

	if snap.SoilMoisture.Percentage < 30 {
		recs = append(recs, Recommendation{
			Priority:    PriorityHigh,
			Category:    "irrigation",
			Title:       "Soil moisture critically low",
			Description: fmt.Sprintf("Soil moisture is at %.1f%%, well below the comfortable range.", snap.SoilMoisture.Percentage),
			Actions: []string{
				"Irrigate within the next 24 hours",
				"Apply mulch to slow further moisture loss",
			},
		})
	}

	if snap.Precipitation.Last7Days > 40 {
		recs = append(recs, Recommendation{
			Priority:    PriorityMedium,
			Category:    "drainage",
			Title:       "Waterlogging risk after heavy rain",
			Description: fmt.Sprintf("%.0f mm of rain fell in the last 7 days; standing water can damage roots.", snap.Precipitation.Last7Days),
			Actions: []string{
				"Clear field drains and outlets",
				"Postpone field operations until the soil firms up",
			},
		})
	}

	if snap.Temperature.Current < profile.Requirements.Temperature.Minimum {
		recs = append(recs, Recommendation{
			Priority:    PriorityHigh,
			Category:    "temperature",
			Title:       "Temperature below crop minimum",
			Description: fmt.Sprintf("Current temperature %.1fC is below the %.1fC minimum for %s.", snap.Temperature.Current, profile.Requirements.Temperature.Minimum, profile.Name),
			Actions: []string{
				"Delay planting until temperatures recover",
				"Consider row covers or tunnels for early establishment",
			},
		})
	}

	if snap.VegetationIndex.NDVI < 0.3 {
		recs = append(recs, Recommendation{
			Priority:    PriorityMedium,
			Category:    "soil",
			Title:       "Weak vegetation signal",
			Description: fmt.Sprintf("NDVI of %.2f suggests sparse or stressed ground cover.", snap.VegetationIndex.NDVI),
			Actions: []string{
				"Test soil for nutrient deficiencies",
				"Incorporate organic matter before the season starts",
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityWeight(recs[i].Priority) > priorityWeight(recs[j].Priority)
	})
	return recs
}
