package kpi

import "kpitrack/internal/domain/template"

// ValidateValues checks a submission against the template items and returns
// the scored value list. Values naming unknown items are dropped; every
// non-dynamic item must be present; bypassed values must carry a score and
// skip the evaluator; otherwise any caller-supplied score is ignored and the
// value's runtime type must honor the item's kpi type contract.
func ValidateValues(submitted []SubmittedValue, items []template.Item) ([]EntryValue, error) {
	byName := make(map[string]SubmittedValue, len(submitted))
	for _, sv := range submitted {
		byName[sv.Name] = sv
	}

	var missing []string
	for _, item := range items {
		if item.IsDynamic {
			continue
		}
		if _, ok := byName[item.Name]; !ok {
			missing = append(missing, item.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingValuesError{Names: missing}
	}

	out := make([]EntryValue, 0, len(submitted))
	for _, item := range items {
		sv, ok := byName[item.Name]
		if !ok {
			// Dynamic item the submitter did not supply.
			continue
		}

		if sv.IsByPassed {
			if sv.Score == nil {
				return nil, ErrMissingBypassScore
			}
			var value template.Value
			if sv.Value != nil {
				value = *sv.Value
			}
			out = append(out, EntryValue{
				Name:       sv.Name,
				Value:      value,
				Score:      *sv.Score,
				Comments:   sv.Comments,
				IsByPassed: true,
			})
			continue
		}

		var value template.Value
		if sv.Value != nil {
			value = *sv.Value
		}
		if err := checkValueKind(item, value); err != nil {
			return nil, err
		}
		out = append(out, EntryValue{
			Name:     sv.Name,
			Value:    value,
			Score:    EvaluateScore(value, item.KPIType, item.Rules, item.Name),
			Comments: sv.Comments,
		})
	}
	return out, nil
}

func checkValueKind(item template.Item, value template.Value) error {
	switch item.KPIType {
	case template.KPIQuantitative, template.KPIPercentage, template.KPIScore:
		if value.Kind != template.KindNumber {
			return &InvalidValueTypeError{Name: item.Name, Want: "a number", Got: kindLabel(value.Kind)}
		}
	case template.KPIBinary:
		if value.Kind != template.KindBool {
			return &InvalidValueTypeError{Name: item.Name, Want: "a boolean", Got: kindLabel(value.Kind)}
		}
	}
	return nil
}

func kindLabel(kind template.ValueKind) string {
	switch kind {
	case template.KindNumber:
		return "a number"
	case template.KindText:
		return "a string"
	case template.KindBool:
		return "a boolean"
	}
	return "nothing"
}

// TotalScore sums the scores of a validated value list.
func TotalScore(values []EntryValue) float64 {
	var total float64
	for _, v := range values {
		total += v.Score
	}
	return total
}
