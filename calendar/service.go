package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"crop_calendar/advisory"
	"crop_calendar/crops"
	"crop_calendar/environment"
)

// CropRepository is the read-only reference data collaborator.
type CropRepository interface {
	FindByNameOrAlias(name string) (*crops.CropProfile, error)
	List() []crops.CropSummary
}

// Service assembles crop calendars. Each call is an independent pure
// computation over its own profile and snapshot; concurrent calls share
// nothing mutable. Only the optional advisory call does network I/O and it
// runs behind a timeout with full isolation from the rule-based result.
type Service struct {
	crops           CropRepository
	env             environment.Provider
	advisor         advisory.Generator // nil disables enrichment
	advisoryTimeout time.Duration
	now             func() time.Time
}

func NewService(repo CropRepository, env environment.Provider, advisor advisory.Generator) *Service {
	return &Service{
		crops:           repo,
		env:             env,
		advisor:         advisor,
		advisoryTimeout: 8 * time.Second,
		now:             time.Now,
	}
}

type GenerateRequest struct {
	Location environment.Location `json:"location"`
	AreaAcres float64             `json:"area"`
	CropType  string              `json:"cropType"`

	// Snapshot overrides the provider when the caller already holds
	// current conditions for the field.
	Snapshot *environment.Snapshot `json:"-"`
}

func (r GenerateRequest) validate() error {
	if r.CropType == "" {
		return errors.New("cropType is required")
	}
	if r.AreaAcres <= 0 {
		return errors.New("area must be greater than zero")
	}
	if r.Location.Latitude < -90 || r.Location.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", r.Location.Latitude)
	}
	if r.Location.Longitude < -180 || r.Location.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", r.Location.Longitude)
	}
	return nil
}

// Generate produces the full crop calendar for one request.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	profile, err := s.crops.FindByNameOrAlias(req.CropType)
	if err != nil {
		if errors.Is(err, crops.ErrCropNotFound) {
			return nil, &UnsupportedCropError{Crop: req.CropType}
		}
		return nil, err
	}

	snap := req.Snapshot
	if snap == nil {
		snap, err = s.env.Snapshot(ctx, req.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain environmental snapshot: %w", err)
		}
	}

	northern := req.Location.Latitude > 0
	window, err := ResolvePlantingWindow(profile, s.now(), northern, snap)
	if err != nil {
		return nil, err
	}

	multiplier := GrowthRateMultiplier(snap.Temperature.Current, profile.Requirements.Temperature)

	result := &Result{
		Crop: CropInfo{
			Name:              profile.Name,
			ScientificName:    profile.ScientificName,
			Category:          profile.Category,
			Description:       profile.Description,
			GrowingPeriodDays: profile.GrowingPeriodDays,
		},
		Location:        req.Location,
		AreaAcres:       req.AreaAcres,
		PlantingWindow:  *window,
		GrowthStages:    ProjectGrowthStages(profile.GrowthStages, window.OptimalStart, multiplier),
		Maintenance:     BuildMaintenancePlan(profile, window.OptimalStart, req.AreaAcres, snap),
		Harvest:         EstimateHarvestWindow(profile, window.OptimalStart, req.AreaAcres, snap, multiplier),
		Recommendations: GenerateRecommendations(profile, snap, window),
		Environment:     snap,
		Summary:         summarizeEnvironment(profile, snap),
		AdvisorySource:  AdvisorySourceFallback,
		GeneratedAt:     s.now().UTC(),
	}

	s.enrich(ctx, result, window)
	return result, nil
}

// enrich races the advisory collaborator against its timeout and attaches
// narrative text on success. Any error or expiry leaves the rule-based
// result untouched with the fallback marker.
func (s *Service) enrich(ctx context.Context, result *Result, window *PlantingWindow) {
	if s.advisor == nil {
		return
	}

	actx, cancel := context.WithTimeout(ctx, s.advisoryTimeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := s.advisor.GenerateInsights(actx, advisory.PromptContext{
			CropName:     result.Crop.Name,
			Season:       window.Season,
			OptimalStart: window.OptimalStart.Format("2006-01-02"),
			Latitude:     result.Location.Latitude,
			Longitude:    result.Location.Longitude,
			SoilMoisture: result.Environment.SoilMoisture.Percentage,
			TemperatureC: result.Environment.Temperature.Current,
			RiskFactors:  window.RiskFactors,
		})
		done <- outcome{text: text, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			degraded := &AdvisoryUnavailableError{Cause: o.err}
			log.Printf("[WARN] %v, returning rule-based calendar", degraded)
			return
		}
		result.AIInsights = o.text
		result.AdvisorySource = AdvisorySourceAI
	case <-actx.Done():
		degraded := &AdvisoryUnavailableError{Cause: actx.Err()}
		log.Printf("[WARN] %v, returning rule-based calendar", degraded)
	}
}

// ListSupportedCrops exposes the reference dataset summaries upward.
func (s *Service) ListSupportedCrops() []crops.CropSummary {
	return s.crops.List()
}
