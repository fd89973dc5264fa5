package prediction

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/carelens-ai/platform/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// PrimarySignal is the designated stratification signal: the short-horizon
// hospitalization probability. All tier decisions key off this one value.
const PrimarySignal = "hospitalization_30d"

// TierBand maps a probability range to a tier and its care plan. Cutoff is
// the inclusive lower bound of the band.
type TierBand struct {
	Tier           int     `yaml:"tier" json:"tier"`
	Cutoff         float64 `yaml:"cutoff" json:"cutoff"`
	Label          string  `yaml:"label" json:"label"`
	Intervention   string  `yaml:"intervention" json:"intervention"`
	AnnualCost     float64 `yaml:"annual_cost" json:"annual_cost"`
	PreventionRate float64 `yaml:"prevention_rate" json:"prevention_rate"`
}

type BandConfig struct {
	// AvgPreventableCost is the average cost of one preventable
	// hospitalization, used for the savings estimate.
	AvgPreventableCost float64    `yaml:"avg_preventable_cost" json:"avg_preventable_cost"`
	Bands              []TierBand `yaml:"bands" json:"bands"`
}

// LoadBands reads tier bands from a YAML file, falling back to the built-in
// scheme when no path is configured.
func LoadBands(path string) (BandConfig, error) {
	if path == "" {
		return DefaultBands(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultBands(), err
	}
	var cfg BandConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return BandConfig{}, err
	}
	if err := validateBands(cfg); err != nil {
		return BandConfig{}, err
	}
	return cfg, nil
}

func validateBands(cfg BandConfig) error {
	if len(cfg.Bands) == 0 {
		return errors.New("no tier bands configured")
	}
	if cfg.AvgPreventableCost <= 0 {
		return errors.New("avg_preventable_cost must be positive")
	}
	hasFloor := false
	seen := make(map[float64]struct{}, len(cfg.Bands))
	for _, band := range cfg.Bands {
		if band.Cutoff < 0 || band.Cutoff > 1 {
			return fmt.Errorf("band %d cutoff %.4f outside [0,1]", band.Tier, band.Cutoff)
		}
		if _, dup := seen[band.Cutoff]; dup {
			return fmt.Errorf("duplicate cutoff %.4f", band.Cutoff)
		}
		seen[band.Cutoff] = struct{}{}
		if band.Cutoff == 0 {
			hasFloor = true
		}
	}
	if !hasFloor {
		return errors.New("tier bands must include a 0.0 cutoff so every probability maps to a band")
	}
	return nil
}

// DefaultBands is the canonical five-tier scheme: 1=Healthy through
// 5=Critical, ascending cutoffs with inclusive lower bounds.
func DefaultBands() BandConfig {
	return BandConfig{
		AvgPreventableCost: 12500,
		Bands: []TierBand{
			{Tier: 5, Cutoff: 0.85, Label: "Critical", Intervention: "Intensive Care Management", AnnualCost: 5000, PreventionRate: 0.40},
			{Tier: 4, Cutoff: 0.60, Label: "High Risk", Intervention: "Care Coordination Program", AnnualCost: 2500, PreventionRate: 0.30},
			{Tier: 3, Cutoff: 0.40, Label: "Medium Risk", Intervention: "Enhanced Monitoring", AnnualCost: 1200, PreventionRate: 0.20},
			{Tier: 2, Cutoff: 0.20, Label: "Low Risk", Intervention: "Preventive Care Outreach", AnnualCost: 400, PreventionRate: 0.10},
			{Tier: 1, Cutoff: 0.00, Label: "Healthy", Intervention: "Routine Annual Checkup", AnnualCost: 150, PreventionRate: 0.05},
		},
	}
}

// Stratify maps the primary probability to its tier band. Bands are evaluated
// from the highest cutoff down and the lower bound is inclusive, so a value
// sitting exactly on a boundary resolves to the higher tier. Tier, label,
// intervention and cost always come from the same band; the prevented
// hospitalization count and savings are expected values, not integers.
func Stratify(predictions PredictionResult, cfg BandConfig) models.RiskAssessment {
	primary := predictions[PrimarySignal]

	bands := make([]TierBand, len(cfg.Bands))
	copy(bands, cfg.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Cutoff > bands[j].Cutoff })

	band := bands[len(bands)-1]
	for _, candidate := range bands {
		if primary >= candidate.Cutoff {
			band = candidate
			break
		}
	}

	prevented := primary * band.PreventionRate
	return models.RiskAssessment{
		RiskTier:                  band.Tier,
		RiskTierLabel:             band.Label,
		CareIntervention:          band.Intervention,
		AnnualInterventionCost:    band.AnnualCost,
		CostSavings:               prevented * cfg.AvgPreventableCost,
		PreventedHospitalizations: prevented,
	}
}
