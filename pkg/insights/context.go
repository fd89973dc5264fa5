package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carelens-ai/platform/pkg/prediction"
)

// FormatPatientContext renders a stored analysis as the bulleted record the
// prompts embed. The assessment fields come first, then the normalized
// features in stable order.
func FormatPatientContext(record prediction.PatientAnalysisModel, displayName string) string {
	details := []string{"**Complete Patient Record:**"}

	add := func(key string, value interface{}) {
		details = append(details, fmt.Sprintf("- **%s:** %v", titleCase(key), value))
	}

	add("patient_id", record.PatientID)
	if displayName != "" {
		add("name", displayName)
	}
	add("risk_tier", record.RiskTier)
	add("risk_tier_label", record.RiskTierLabel)
	add("care_intervention", record.CareIntervention)
	add("risk_30d_hospitalization", record.Risk30dHospitalization)
	add("risk_60d_hospitalization", record.Risk60dHospitalization)
	add("risk_90d_hospitalization", record.Risk90dHospitalization)
	add("mortality_risk", record.MortalityRisk)
	add("annual_intervention_cost", record.AnnualInterventionCost)
	add("cost_savings", record.CostSavings)
	add("prevented_hospitalizations", record.PreventedHospitalizations)

	names := make([]string, 0, len(record.Features))
	for name := range record.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := record.Features[name]
		if value == nil {
			value = "N/A"
		}
		add(name, value)
	}

	return strings.Join(details, "\n")
}

func titleCase(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
