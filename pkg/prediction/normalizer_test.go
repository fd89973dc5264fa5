package prediction

import (
	"errors"
	"testing"
)

var testColumns = []string{
	"AGE",
	"BENE_SEX_IDENT_CD",
	"MEDREIMB_IP",
	"SP_CHF",
	"SP_DIABETES",
	"SP_COPD",
}

func TestNormalizeDefaultsMissingFeaturesToZero(t *testing.T) {
	raw := map[string]string{
		"DESYNPUF_ID": "00013D2EFD8E45D1",
		"name":        "Jane Doe",
	}

	intake, err := Normalize(raw, testColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, column := range testColumns {
		value, ok := intake.Features[column]
		if !ok {
			t.Fatalf("feature %s missing from vector", column)
		}
		if value != 0 {
			t.Fatalf("feature %s expected 0, got %v", column, value)
		}
	}
	if intake.PatientID != "00013D2EFD8E45D1" {
		t.Fatalf("patient id not passed through, got %q", intake.PatientID)
	}
	if intake.DisplayName != "Jane Doe" {
		t.Fatalf("display name not passed through, got %q", intake.DisplayName)
	}
}

func TestNormalizeIndicatorCoercion(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"1", 1},
		{"on", 1},
		{"true", 1},
		{"checked", 1},
		{"yes", 1},
		{"Y", 1},
		{"0", 0},
		{"off", 0},
		{"", 0},
		{"no", 0},
	}

	for _, tc := range cases {
		intake, err := Normalize(map[string]string{"SP_CHF": tc.raw}, testColumns)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.raw, err)
		}
		if got := intake.Features["SP_CHF"]; got != tc.want {
			t.Fatalf("indicator %q expected %v, got %v", tc.raw, tc.want, got)
		}
	}

	// Absent indicators default to 0, including ones outside the columns.
	intake, err := Normalize(map[string]string{}, testColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := intake.Features["SP_STRKETIA"]; got != 0 {
		t.Fatalf("absent indicator expected 0, got %v", got)
	}
}

func TestNormalizeCaseInsensitiveMatching(t *testing.T) {
	raw := map[string]string{
		"age":         "63",
		"sp_diabetes": "on",
		"desynpuf_id": "A100",
	}

	intake, err := Normalize(raw, testColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := intake.Features["AGE"]; got != 63 {
		t.Fatalf("expected AGE 63, got %v", got)
	}
	if got := intake.Features["SP_DIABETES"]; got != 1 {
		t.Fatalf("expected SP_DIABETES 1, got %v", got)
	}
	if intake.PatientID != "A100" {
		t.Fatalf("expected patient id A100, got %q", intake.PatientID)
	}
}

func TestNormalizeNumericCoercion(t *testing.T) {
	raw := map[string]string{
		"AGE":         "71",
		"MEDREIMB_IP": "1523.75",
	}

	intake, err := Normalize(raw, testColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := intake.Features["AGE"]; got != 71 {
		t.Fatalf("expected AGE 71, got %v", got)
	}
	if got := intake.Features["MEDREIMB_IP"]; got != 1523.75 {
		t.Fatalf("expected MEDREIMB_IP 1523.75, got %v", got)
	}
}

func TestNormalizeLabelPassThrough(t *testing.T) {
	raw := map[string]string{
		"risk_tier_label": "High Risk",
	}

	intake, err := Normalize(raw, testColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := intake.Labels["risk_tier_label"]; got != "High Risk" {
		t.Fatalf("expected label pass-through, got %q", got)
	}
	if _, ok := intake.Features["risk_tier_label"]; ok {
		t.Fatal("label field leaked into feature vector")
	}
}

func TestNormalizeSchemaErrorOnMalformedRequiredField(t *testing.T) {
	raw := map[string]string{
		"AGE": "sixty-three",
	}

	_, err := Normalize(raw, testColumns)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.Fields) != 1 || schemaErr.Fields[0] != "AGE" {
		t.Fatalf("expected AGE in schema error, got %v", schemaErr.Fields)
	}
}

func TestNormalizeToleratesMalformedOptionalField(t *testing.T) {
	raw := map[string]string{
		"AGE":      "55",
		"comments": "follow up next week",
	}

	intake, err := Normalize(raw, testColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := intake.Features["comments"]; ok {
		t.Fatal("malformed optional field should not enter the feature vector")
	}
}
