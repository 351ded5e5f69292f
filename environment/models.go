package environment

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SoilMoisture struct {
	Percentage float64 `json:"percentage"` // 0-100
	Status     string  `json:"status"`
}

type Temperature struct {
	Current float64 `json:"current"` // in Celsius
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type VegetationIndex struct {
	NDVI float64 `json:"ndvi"` // -1..1
}

type Precipitation struct {
	Last7Days  float64 `json:"last7Days"`  // mm
	Last30Days float64 `json:"last30Days"` // mm
}

// Snapshot is one immutable bundle of current field conditions, consumed
// read-only by the calendar engine.
type Snapshot struct {
	SoilMoisture    SoilMoisture    `json:"soilMoisture"`
	Temperature     Temperature     `json:"temperature"`
	VegetationIndex VegetationIndex `json:"vegetationIndex"`
	Precipitation   Precipitation   `json:"precipitation"`
	Humidity        float64         `json:"humidity"`   // percentage
	WindSpeed       float64         `json:"windSpeed"`  // m/s
	CloudCover      float64         `json:"cloudCover"` // percentage
	Confidence      float64         `json:"confidence"` // 0..1
}

// MoistureStatus buckets a moisture percentage into the status labels the
// frontend expects.
func MoistureStatus(pct float64) string {
	switch {
	case pct < 20:
		return "very_low"
	case pct < 35:
		return "low"
	case pct <= 70:
		return "adequate"
	case pct <= 85:
		return "high"
	default:
		return "saturated"
	}
}
