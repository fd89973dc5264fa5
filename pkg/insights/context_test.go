package insights

import (
	"strings"
	"testing"

	"github.com/carelens-ai/platform/pkg/prediction"
	"gorm.io/datatypes"
)

func TestFormatPatientContext(t *testing.T) {
	record := prediction.PatientAnalysisModel{
		PatientID:              "A100",
		RiskTier:               5,
		RiskTierLabel:          "Critical",
		CareIntervention:       "Intensive Care Management",
		Risk30dHospitalization: 0.92,
		Features: datatypes.JSONMap{
			"AGE":    float64(78),
			"SP_CHF": float64(1),
		},
	}

	got := FormatPatientContext(record, "Jane Doe")

	if !strings.HasPrefix(got, "**Complete Patient Record:**") {
		t.Fatalf("missing record header:\n%s", got)
	}
	for _, want := range []string{
		"- **Patient Id:** A100",
		"- **Name:** Jane Doe",
		"- **Risk Tier:** 5",
		"- **Risk Tier Label:** Critical",
		"- **Age:** 78",
		"- **Sp Chf:** 1",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing line %q in:\n%s", want, got)
		}
	}
}

func TestFormatPatientContextOmitsEmptyName(t *testing.T) {
	got := FormatPatientContext(prediction.PatientAnalysisModel{PatientID: "B200"}, "")
	if strings.Contains(got, "- **Name:**") {
		t.Fatalf("empty name should be omitted:\n%s", got)
	}
}

func TestFormatPatientContextFeatureOrderIsStable(t *testing.T) {
	record := prediction.PatientAnalysisModel{
		PatientID: "C300",
		Features: datatypes.JSONMap{
			"SP_CHF":      float64(1),
			"AGE":         float64(60),
			"MEDREIMB_IP": float64(1200),
		},
	}

	first := FormatPatientContext(record, "")
	for i := 0; i < 5; i++ {
		if FormatPatientContext(record, "") != first {
			t.Fatal("feature ordering not deterministic")
		}
	}

	if strings.Index(first, "**Age:**") > strings.Index(first, "**Sp Chf:**") {
		t.Fatalf("features not sorted:\n%s", first)
	}
}
