package crops

import (
	"errors"
	"testing"
)

// TestNewRepository verifies the embedded dataset loads and validates
func TestNewRepository(t *testing.T) {
	repo, err := NewRepository()
	if err != nil {
		t.Fatalf("Failed to load embedded dataset: %v", err)
	}

	list := repo.List()
	if len(list) == 0 {
		t.Fatal("Expected at least one crop in the dataset")
	}
	for _, s := range list {
		if s.Name == "" {
			t.Error("Crop summary missing name")
		}
		if s.GrowingPeriodDays <= 0 {
			t.Errorf("Crop %s has non-positive growing period", s.Name)
		}
	}
}

// TestFindByNameOrAlias verifies case-insensitive and alias lookups
func TestFindByNameOrAlias(t *testing.T) {
	repo, err := NewRepository()
	if err != nil {
		t.Fatalf("Failed to load embedded dataset: %v", err)
	}

	cases := []struct {
		query string
		want  string
	}{
		{"wheat", "Wheat"},
		{"WHEAT", "Wheat"},
		{"  Wheat  ", "Wheat"},
		{"corn", "Maize"},
		{"paddy", "Rice"},
		{"aloo", "Potato"},
	}

	for _, tc := range cases {
		p, err := repo.FindByNameOrAlias(tc.query)
		if err != nil {
			t.Errorf("Lookup %q failed: %v", tc.query, err)
			continue
		}
		if p.Name != tc.want {
			t.Errorf("Lookup %q: expected %s, got %s", tc.query, tc.want, p.Name)
		}
	}

	_, err = repo.FindByNameOrAlias("dragonfruit")
	if !errors.Is(err, ErrCropNotFound) {
		t.Errorf("Expected ErrCropNotFound for unknown crop, got %v", err)
	}
}

// TestStageDurationsMatchGrowingPeriod verifies stage durations sum to the
// nominal growing period for every crop in the dataset
func TestStageDurationsMatchGrowingPeriod(t *testing.T) {
	repo, err := NewRepository()
	if err != nil {
		t.Fatalf("Failed to load embedded dataset: %v", err)
	}

	for _, s := range repo.List() {
		p, err := repo.FindByNameOrAlias(s.Name)
		if err != nil {
			t.Fatalf("Lookup %s failed: %v", s.Name, err)
		}
		total := 0
		for _, stage := range p.GrowthStages {
			total += stage.DurationDays
		}
		if total != p.GrowingPeriodDays {
			t.Errorf("%s: stage durations sum to %d, growing period is %d",
				p.Name, total, p.GrowingPeriodDays)
		}
	}
}

// TestValidateProfileRejectsEmptySeasons verifies malformed reference data
// fails fast at load time
func TestValidateProfileRejectsEmptySeasons(t *testing.T) {
	data := []byte(`
crops:
  - name: Broken
    growingPeriodDays: 90
    growthStages:
      - {name: Only, durationDays: 90}
    plantingSeasons:
      northern: []
      southern: []
`)
	_, err := newRepositoryFrom(data)
	if !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile, got %v", err)
	}
}
