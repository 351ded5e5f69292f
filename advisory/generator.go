// Package advisory wraps the external text-generation collaborator that
// enriches calendars with narrative insights. It is strictly optional:
// callers must treat failures as a signal to fall back, never as fatal.
package advisory

import (
	"context"
	"fmt"
	"strings"
)

// PromptContext is the compact, already-computed summary handed to the
// generator. The generator only produces narrative text from it; nothing
// it returns flows back into scheduling arithmetic.
type PromptContext struct {
	CropName     string
	Season       string
	OptimalStart string // YYYY-MM-DD
	Latitude     float64
	Longitude    float64
	SoilMoisture float64
	TemperatureC float64
	RiskFactors  []string
}

type Generator interface {
	GenerateInsights(ctx context.Context, pc PromptContext) (string, error)
}

func buildPrompt(pc PromptContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an agronomy advisor. A farmer near latitude %.2f, longitude %.2f ", pc.Latitude, pc.Longitude)
	fmt.Fprintf(&b, "plans to plant %s in %s, optimally starting %s. ", pc.CropName, pc.Season, pc.OptimalStart)
	fmt.Fprintf(&b, "Current soil moisture is %.0f%% and temperature %.1fC. ", pc.SoilMoisture, pc.TemperatureC)
	if len(pc.RiskFactors) > 0 {
		fmt.Fprintf(&b, "Known risks: %s. ", strings.Join(pc.RiskFactors, ", "))
	}
	b.WriteString("In at most 120 words, give practical field-level advice for the coming weeks. Plain text, no lists.")
	return b.String()
}
