package crops

type CropCategory string

const (
	Cereal    CropCategory = "Cereal"
	Legume    CropCategory = "Legume"
	Vegetable CropCategory = "Vegetable"
	Tuber     CropCategory = "Tuber"
	Oilseed   CropCategory = "Oilseed"
	Fiber     CropCategory = "Fiber"
)

type CropLifespan string

const (
	Annual    CropLifespan = "Annual"
	Biennial  CropLifespan = "Biennial"
	Perennial CropLifespan = "Perennial"
)

// SeasonWindow is one planting window in a hemisphere's season table.
// Table order is authoritative: the resolver scans entries in the order
// they are declared, it does not sort by month.
type SeasonWindow struct {
	StartMonth int `yaml:"startMonth" json:"startMonth"`
	EndMonth   int `yaml:"endMonth" json:"endMonth"`
}

type PlantingSeasons struct {
	Northern []SeasonWindow `yaml:"northern" json:"northern"`
	Southern []SeasonWindow `yaml:"southern" json:"southern"`
}

type GrowthStage struct {
	Name             string   `yaml:"name" json:"name"`
	DurationDays     int      `yaml:"durationDays" json:"durationDays"`
	Description      string   `yaml:"description" json:"description"`
	Activities       []string `yaml:"activities" json:"activities"`
	CareInstructions []string `yaml:"careInstructions" json:"careInstructions"`
	ExpectedSigns    []string `yaml:"expectedSigns" json:"expectedSigns"`
}

type MoistureBand struct {
	Minimum float64 `yaml:"minimum" json:"minimum"`
	Maximum float64 `yaml:"maximum" json:"maximum"`
}

type TemperatureBand struct {
	Minimum float64 `yaml:"minimum" json:"minimum"`
	Maximum float64 `yaml:"maximum" json:"maximum"`
	Optimal float64 `yaml:"optimal" json:"optimal"`
}

type Requirements struct {
	SoilMoisture MoistureBand    `yaml:"soilMoisture" json:"soilMoisture"`
	Temperature  TemperatureBand `yaml:"temperature" json:"temperature"`
}

type FertilizationEntry struct {
	DaysAfterPlanting int     `yaml:"daysAfterPlanting" json:"daysAfterPlanting"`
	Type              string  `yaml:"type" json:"type"`
	Nutrient          string  `yaml:"nutrient" json:"nutrient"`
	AmountPerAcre     float64 `yaml:"amountPerAcre" json:"amountPerAcre"`
	Unit              string  `yaml:"unit" json:"unit"`
	Method            string  `yaml:"method" json:"method"`
	Instructions      string  `yaml:"instructions" json:"instructions"`
}

type ExpectedYield struct {
	Amount float64 `yaml:"amount" json:"amount"`
	Unit   string  `yaml:"unit" json:"unit"`
}

// CropProfile is the read-only reference record for one supported crop.
// Stage durations are nominal calendar-table values; growth-rate scaling
// happens downstream in the calendar engine.
type CropProfile struct {
	Name                string               `yaml:"name" json:"name"`
	ScientificName      string               `yaml:"scientificName" json:"scientificName"`
	Category            CropCategory         `yaml:"category" json:"category"`
	Lifespan            CropLifespan         `yaml:"lifespan" json:"lifespan"`
	Description         string               `yaml:"description" json:"description"`
	Aliases             []string             `yaml:"aliases" json:"-"`
	GrowingPeriodDays   int                  `yaml:"growingPeriodDays" json:"growingPeriodDays"`
	GrowthStages        []GrowthStage        `yaml:"growthStages" json:"growthStages"`
	Requirements        Requirements         `yaml:"requirements" json:"requirements"`
	PlantingSeasons     PlantingSeasons      `yaml:"plantingSeasons" json:"plantingSeasons"`
	Fertilization       []FertilizationEntry `yaml:"fertilizationSchedule" json:"fertilizationSchedule"`
	WaterPerSqMeterWeek float64              `yaml:"waterPerSqMeterWeek" json:"waterPerSqMeterWeek"`
	ExpectedYield       ExpectedYield        `yaml:"expectedYield" json:"expectedYield"`
	HarvestingMethod    string               `yaml:"harvestingMethod" json:"harvestingMethod"`
	PostHarvestCare     string               `yaml:"postHarvestCare" json:"postHarvestCare"`
	StorageInstructions string               `yaml:"storageInstructions" json:"storageInstructions"`
	ProcessingDays      int                  `yaml:"processingDays" json:"processingDays"`
}

// CropSummary is the listing shape exposed to the API layer.
type CropSummary struct {
	Name              string       `json:"name"`
	ScientificName    string       `json:"scientificName"`
	Category          CropCategory `json:"category"`
	GrowingPeriodDays int          `json:"growingPeriodDays"`
}
