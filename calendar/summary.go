package calendar

import (
	"crop_calendar/crops"
	"crop_calendar/environment"
)

// summarizeEnvironment scores the snapshot 0-100 on vegetation, soil and
// weather bands and averages them into an overall readiness score.
func summarizeEnvironment(profile *crops.CropProfile, snap *environment.Snapshot) EnvironmentalSummary {
	s := EnvironmentalSummary{
		VegetationScore: vegetationScore(snap.VegetationIndex.NDVI),
		SoilScore:       soilScore(snap.SoilMoisture.Percentage),
		WeatherScore:    weatherScore(profile.Requirements.Temperature, snap),
	}
	s.OverallScore = (s.VegetationScore + s.SoilScore + s.WeatherScore) / 3
	switch {
	case s.OverallScore >= 75:
		s.Status = "ready"
	case s.OverallScore >= 50:
		s.Status = "fair"
	default:
		s.Status = "poor"
	}
	return s
}

func vegetationScore(ndvi float64) int {
	switch {
	case ndvi > 0.6:
		return 90
	case ndvi > 0.4:
		return 75
	case ndvi > 0.2:
		return 55
	default:
		return 30
	}
}

func soilScore(moisture float64) int {
	switch {
	case moisture >= 40 && moisture <= 70:
		return 90
	case moisture >= 30 && moisture <= 80:
		return 70
	default:
		return 40
	}
}

func weatherScore(band crops.TemperatureBand, snap *environment.Snapshot) int {
	temp := snap.Temperature.Current
	rain7 := snap.Precipitation.Last7Days
	inBand := temp >= band.Minimum && temp <= band.Maximum

	switch {
	case inBand && rain7 >= 10 && rain7 <= 40:
		return 85
	case inBand:
		return 70
	case rain7 > 60:
		return 30
	default:
		return 45
	}
}
