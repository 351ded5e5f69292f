package crops

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/crops.yaml
var cropData []byte

var (
	ErrCropNotFound   = errors.New("crop not found")
	ErrInvalidProfile = errors.New("invalid crop profile")
)

// Repository holds the crop reference dataset, indexed by lowercased
// name and alias. The dataset is loaded once and never mutated.
type Repository struct {
	profiles []CropProfile
	index    map[string]*CropProfile
}

// NewRepository loads and validates the embedded crop dataset.
func NewRepository() (*Repository, error) {
	return newRepositoryFrom(cropData)
}

func newRepositoryFrom(data []byte) (*Repository, error) {
	var doc struct {
		Crops []CropProfile `yaml:"crops"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse crop dataset: %w", err)
	}
	if len(doc.Crops) == 0 {
		return nil, fmt.Errorf("%w: dataset contains no crops", ErrInvalidProfile)
	}

	r := &Repository{
		profiles: doc.Crops,
		index:    make(map[string]*CropProfile),
	}
	for i := range r.profiles {
		p := &r.profiles[i]
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		r.index[strings.ToLower(p.Name)] = p
		for _, alias := range p.Aliases {
			r.index[strings.ToLower(alias)] = p
		}
	}
	log.Printf("Loaded %d crop profiles", len(r.profiles))
	return r, nil
}

func validateProfile(p *CropProfile) error {
	if p.Name == "" {
		return fmt.Errorf("%w: profile without a name", ErrInvalidProfile)
	}
	if p.GrowingPeriodDays <= 0 {
		return fmt.Errorf("%w: %s has non-positive growing period", ErrInvalidProfile, p.Name)
	}
	if len(p.GrowthStages) == 0 {
		return fmt.Errorf("%w: %s has no growth stages", ErrInvalidProfile, p.Name)
	}
	for _, s := range p.GrowthStages {
		if s.DurationDays <= 0 {
			return fmt.Errorf("%w: %s stage %q has non-positive duration", ErrInvalidProfile, p.Name, s.Name)
		}
	}
	if len(p.PlantingSeasons.Northern) == 0 || len(p.PlantingSeasons.Southern) == 0 {
		return fmt.Errorf("%w: %s is missing a hemisphere season table", ErrInvalidProfile, p.Name)
	}
	for _, w := range append(append([]SeasonWindow{}, p.PlantingSeasons.Northern...), p.PlantingSeasons.Southern...) {
		if w.StartMonth < 1 || w.StartMonth > 12 || w.EndMonth < 1 || w.EndMonth > 12 {
			return fmt.Errorf("%w: %s has a season window outside months 1-12", ErrInvalidProfile, p.Name)
		}
	}
	return nil
}

// FindByNameOrAlias resolves a crop by case-insensitive name or alias.
func (r *Repository) FindByNameOrAlias(name string) (*CropProfile, error) {
	p, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCropNotFound, name)
	}
	return p, nil
}

// List returns summaries of every supported crop in dataset order.
func (r *Repository) List() []CropSummary {
	out := make([]CropSummary, 0, len(r.profiles))
	for i := range r.profiles {
		p := &r.profiles[i]
		out = append(out, CropSummary{
			Name:              p.Name,
			ScientificName:    p.ScientificName,
			Category:          p.Category,
			GrowingPeriodDays: p.GrowingPeriodDays,
		})
	}
	return out
}
