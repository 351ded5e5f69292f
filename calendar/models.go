// Package calendar generates crop calendars: planting windows, growth stage
// timelines, fertilization and irrigation schedules, harvest windows and
// prioritized recommendations, all derived from a crop profile and one
// environmental snapshot.
package calendar

import (
	"encoding/json"
	"time"

	"crop_calendar/crops"
	"crop_calendar/environment"
)

// Date is a calendar day. It marshals as YYYY-MM-DD and all arithmetic
// happens on UTC day boundaries.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the whole days from d to other (negative if other is
// in the past relative to d).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// PlantingAdjustment shifts the planting window based on how current
// conditions compare to the crop's requirement bands. Built once per
// request and consumed immediately by the window resolver.
type PlantingAdjustment struct {
	DelayDays       int
	AdvanceDays     int
	RiskFactors     []string
	Recommendations []string
}

type PlantingWindow struct {
	Season          string   `json:"season"`
	EarliestStart   Date     `json:"earliestStart"`
	LatestEnd       Date     `json:"latestEnd"`
	OptimalStart    Date     `json:"optimalStart"`
	OptimalEnd      Date     `json:"optimalEnd"`
	AdjustmentDays  int      `json:"adjustmentDays"`
	RiskFactors     []string `json:"riskFactors"`
	Recommendations []string `json:"recommendations"`
	DaysFromNow     int      `json:"daysFromNow"`
}

type GrowthStageInstance struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	StartDate        Date     `json:"startDate"`
	EndDate          Date     `json:"endDate"`
	DurationDays     int      `json:"durationDays"`
	Activities       []string `json:"activities"`
	CareInstructions []string `json:"careInstructions"`
	ExpectedSigns    []string `json:"expectedSigns"`
}

type FertilizationEvent struct {
	Date          Date    `json:"date"`
	Type          string  `json:"type"`
	Nutrient      string  `json:"nutrient"`
	AmountPerAcre float64 `json:"amountPerAcre"`
	TotalAmount   float64 `json:"totalAmount"`
	Unit          string  `json:"unit"`
	Method        string  `json:"method"`
	Instructions  string  `json:"instructions"`
	Stage         string  `json:"stage"`
}

type IrrigationEvent struct {
	Date            Date    `json:"date"`
	AmountLiters    float64 `json:"amountLiters"`
	DurationMinutes int     `json:"durationMinutes"`
	TimingAdvice    string  `json:"timingAdvice"`
	Stage           string  `json:"stage"`
}

type MaintenancePlan struct {
	Fertilization       []FertilizationEvent `json:"fertilization"`
	Irrigation          []IrrigationEvent    `json:"irrigation"`
	TotalFertilizerCost float64              `json:"totalFertilizerCost"`
	TotalWaterNeeded    float64              `json:"totalWaterNeeded"`
}

type YieldEstimate struct {
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	Confidence float64 `json:"confidence"`
}

type HarvestWindow struct {
	EarliestDate        Date          `json:"earliestDate"`
	OptimalDate         Date          `json:"optimalDate"`
	LatestDate          Date          `json:"latestDate"`
	EstimatedYield      YieldEstimate `json:"estimatedYield"`
	HarvestingMethod    string        `json:"harvestingMethod"`
	PostHarvestCare     string        `json:"postHarvestCare"`
	StorageInstructions string        `json:"storageInstructions"`
	MarketReadinessDate Date          `json:"marketReadinessDate"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func priorityWeight(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

type Recommendation struct {
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

type EnvironmentalSummary struct {
	VegetationScore int    `json:"vegetationScore"`
	SoilScore       int    `json:"soilScore"`
	WeatherScore    int    `json:"weatherScore"`
	OverallScore    int    `json:"overallScore"`
	Status          string `json:"status"`
}

type CropInfo struct {
	Name              string             `json:"name"`
	ScientificName    string             `json:"scientificName"`
	Category          crops.CropCategory `json:"category"`
	Description       string             `json:"description"`
	GrowingPeriodDays int                `json:"growingPeriodDays"`
}

// Advisory source markers on the result.
const (
	AdvisorySourceAI       = "ai-enhanced"
	AdvisorySourceFallback = "fallback"
)

// Result is the full crop calendar for one request. It is rebuilt from
// scratch on every call; nothing here is persisted.
type Result struct {
	Crop            CropInfo              `json:"crop"`
	Location        environment.Location  `json:"location"`
	AreaAcres       float64               `json:"areaAcres"`
	PlantingWindow  PlantingWindow        `json:"plantingWindow"`
	GrowthStages    []GrowthStageInstance `json:"growthStages"`
	Maintenance     MaintenancePlan       `json:"maintenance"`
	Harvest         HarvestWindow         `json:"harvest"`
	Recommendations []Recommendation      `json:"recommendations"`
	Environment     *environment.Snapshot `json:"environment"`
	Summary         EnvironmentalSummary  `json:"environmentalSummary"`
	AdvisorySource  string                `json:"advisorySource"`
	AIInsights      string                `json:"aiInsights,omitempty"`
	GeneratedAt     time.Time             `json:"generatedAt"`
}
