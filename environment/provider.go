// Package environment supplies field condition snapshots to the calendar
// engine. The simulated provider stands in for a satellite/weather API and
// produces stable values for a given location and day.
package environment

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Provider interface {
	Snapshot(ctx context.Context, loc Location) (*Snapshot, error)
}

// SimulatedProvider derives a snapshot from the location and current date.
// Values are deterministic within a day so repeated calendar requests for
// the same field agree with each other.
type SimulatedProvider struct {
	cache *gocache.Cache
	now   func() time.Time
}

func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{
		cache: gocache.New(15*time.Minute, 30*time.Minute),
		now:   time.Now,
	}
}

func (p *SimulatedProvider) Snapshot(_ context.Context, loc Location) (*Snapshot, error) {
	key := fmt.Sprintf("%.2f:%.2f", loc.Latitude, loc.Longitude)
	if cached, found := p.cache.Get(key); found {
		return cached.(*Snapshot), nil
	}

	snap := p.simulate(loc)
	p.cache.Set(key, snap, gocache.DefaultExpiration)
	log.Printf("[DEBUG] Simulated snapshot for %s: moisture=%.1f%% temp=%.1fC ndvi=%.2f",
		key, snap.SoilMoisture.Percentage, snap.Temperature.Current, snap.VegetationIndex.NDVI)
	return snap, nil
}

func (p *SimulatedProvider) simulate(loc Location) *Snapshot {
	day := p.now().UTC().Format("2006-01-02")
	seed := hashSeed(fmt.Sprintf("%.2f:%.2f:%s", loc.Latitude, loc.Longitude, day))

	// Latitude drives the temperature baseline, the seed perturbs everything
	// else inside plausible agronomic ranges.
	absLat := math.Abs(loc.Latitude)
	baseTemp := 32 - absLat*0.45
	temp := baseTemp + spread(seed, 0, 8) - 4

	moisture := 30 + spread(seed, 1, 45)
	ndvi := 0.25 + spread(seed, 2, 0.5)
	rain7 := spread(seed, 3, 45)

	return &Snapshot{
		SoilMoisture: SoilMoisture{
			Percentage: round1(moisture),
			Status:     MoistureStatus(moisture),
		},
		Temperature: Temperature{
			Current: round1(temp),
			Min:     round1(temp - 4 - spread(seed, 4, 4)),
			Max:     round1(temp + 4 + spread(seed, 5, 4)),
		},
		VegetationIndex: VegetationIndex{NDVI: round2(ndvi)},
		Precipitation: Precipitation{
			Last7Days:  round1(rain7),
			Last30Days: round1(rain7*2.5 + spread(seed, 6, 40)),
		},
		Humidity:   round1(40 + spread(seed, 7, 45)),
		WindSpeed:  round1(1 + spread(seed, 8, 7)),
		CloudCover: round1(spread(seed, 9, 90)),
		Confidence: round2(0.75 + spread(seed, 10, 0.2)),
	}
}

func hashSeed(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}

// spread maps the nth byte-slice of the seed onto [0, width).
func spread(seed uint64, n uint, width float64) float64 {
	v := (seed >> (n * 6)) ^ (seed << (n % 5))
	return float64(v%1000) / 1000 * width
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
