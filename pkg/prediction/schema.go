package prediction

// FeatureVector maps feature names to numeric values. Built fresh per request
// by Normalize and never mutated after handoff to Score.
type FeatureVector map[string]float64

// Intake is a normalized prediction request: identity fields split out as
// strings, everything else coerced into the feature vector.
type Intake struct {
	PatientID   string
	DisplayName string
	Labels      map[string]string
	Features    FeatureVector
}

const (
	fieldPatientID   = "DESYNPUF_ID"
	fieldDisplayName = "name"
)

// Identity and label fields pass through as strings and never enter the
// feature vector.
var identityFields = []string{
	fieldPatientID,
	fieldDisplayName,
	"risk_tier_label",
	"care_intervention",
}

// Checkbox condition and demographic indicator fields. Intake forms only
// submit checked boxes, so these default to 0 when absent and are always
// coerced to exactly 0 or 1.
var indicatorFields = []string{
	"SP_CHF",
	"SP_DIABETES",
	"SP_CHRNKIDN",
	"SP_CNCR",
	"SP_COPD",
	"SP_DEPRESSN",
	"SP_ISCHMCHT",
	"SP_STRKETIA",
	"SP_ALZHDMTA",
	"SP_OSTEOPRS",
	"SP_RA_OA",
	"BENE_ESRD_IND",
}
