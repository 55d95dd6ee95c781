package kpi

import (
	"log/slog"
	"sort"

	"kpitrack/internal/domain/template"
)

// EvaluateScore computes the score for one submitted value. It never fails:
// a value no rule accounts for scores 0. itemName is only used for
// diagnostics.
func EvaluateScore(value template.Value, kpiType template.KPIType, rules []template.ScoringRule, itemName string) float64 {
	switch kpiType {
	case template.KPIScore:
		// The submitted value is the score, no rule lookup.
		if value.Kind != template.KindNumber {
			slog.Warn("non-numeric value for score item", "item", itemName)
			return 0
		}
		return value.Number
	case template.KPIPercentage:
		return evaluatePercentage(value, rules)
	default:
		return evaluateOrdered(value, rules)
	}
}

// evaluatePercentage treats rules as descending thresholds: the first rule
// whose value is at most the submitted percentage wins.
func evaluatePercentage(value template.Value, rules []template.ScoringRule) float64 {
	if value.Kind != template.KindNumber {
		return 0
	}
	sorted := make([]template.ScoringRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value.Number > sorted[j].Value.Number
	})
	for _, rule := range sorted {
		if rule.Value.Kind == template.KindNumber && rule.Value.Number <= value.Number {
			return rule.Score
		}
	}
	return 0
}

// evaluateOrdered walks rules in declared order; first match wins.
func evaluateOrdered(value template.Value, rules []template.ScoringRule) float64 {
	for _, rule := range rules {
		switch rule.Kind {
		case template.RuleRange:
			if value.Kind == template.KindNumber && rule.Min <= value.Number && value.Number <= rule.Max {
				return rule.Score
			}
		case template.RuleMatch:
			if value.Equal(rule.Value) {
				return rule.Score
			}
		}
	}
	return 0
}
