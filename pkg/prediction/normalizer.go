package prediction

import (
	"sort"
	"strconv"
	"strings"
)

var truthyTokens = map[string]struct{}{
	"1":       {},
	"on":      {},
	"true":    {},
	"checked": {},
	"yes":     {},
	"y":       {},
}

// Normalize coerces raw form fields into an Intake matching the model schema.
// Field names are matched case-insensitively against the declared feature
// columns, identity fields and indicator fields. Identity fields pass through
// as strings; indicator fields become exactly 0 or 1; everything else is
// numeric-coerced. Feature columns absent from the input default to 0.
//
// Returns *SchemaError when a declared feature column is present but cannot
// be coerced to a number.
func Normalize(raw map[string]string, featureColumns []string) (Intake, error) {
	canonical := make(map[string]string, len(featureColumns)+len(identityFields)+len(indicatorFields))
	for _, name := range featureColumns {
		canonical[strings.ToLower(name)] = name
	}
	for _, name := range indicatorFields {
		canonical[strings.ToLower(name)] = name
	}
	for _, name := range identityFields {
		canonical[strings.ToLower(name)] = name
	}

	identity := make(map[string]struct{}, len(identityFields))
	for _, name := range identityFields {
		identity[name] = struct{}{}
	}
	indicators := make(map[string]struct{}, len(indicatorFields))
	for _, name := range indicatorFields {
		indicators[name] = struct{}{}
	}

	intake := Intake{
		Labels:   make(map[string]string),
		Features: make(FeatureVector, len(featureColumns)),
	}
	unconverted := make(map[string]string)

	for key, value := range raw {
		name, ok := canonical[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			// Unknown fields keep their submitted name; extraneous features
			// are dropped later by the scorer's projection.
			name = strings.TrimSpace(key)
		}

		if _, isIdentity := identity[name]; isIdentity {
			switch name {
			case fieldPatientID:
				intake.PatientID = strings.TrimSpace(value)
			case fieldDisplayName:
				intake.DisplayName = strings.TrimSpace(value)
			default:
				intake.Labels[name] = value
			}
			continue
		}

		if _, isIndicator := indicators[name]; isIndicator {
			intake.Features[name] = indicatorValue(value)
			continue
		}

		if number, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			intake.Features[name] = number
		} else {
			// Tolerate malformed optional fields; required ones surface below.
			unconverted[name] = value
		}
	}

	// Default-missing policy: intake forms only submit checked boxes, so any
	// declared feature not present becomes 0.
	for _, name := range featureColumns {
		if _, ok := intake.Features[name]; !ok {
			if _, bad := unconverted[name]; !bad {
				intake.Features[name] = 0
			}
		}
	}
	for _, name := range indicatorFields {
		if _, ok := intake.Features[name]; !ok {
			intake.Features[name] = 0
		}
	}

	var missing []string
	for _, name := range featureColumns {
		if _, bad := unconverted[name]; bad {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Intake{}, &SchemaError{Fields: missing}
	}

	return intake, nil
}

func indicatorValue(raw string) float64 {
	if _, ok := truthyTokens[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return 1
	}
	return 0
}
