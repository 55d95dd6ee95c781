package kpi

import (
	"testing"

	"kpitrack/internal/domain/template"
)

func percentageRules() []template.ScoringRule {
	return []template.ScoringRule{
		{Kind: template.RuleMatch, Value: template.NumberValue(90), Score: 5},
		{Kind: template.RuleMatch, Value: template.NumberValue(75), Score: 3},
	}
}

func TestEvaluateScorePercentageThresholds(t *testing.T) {
	cases := []struct {
		input float64
		want  float64
	}{
		{80, 3},
		{95, 5},
		{50, 0},
		{75, 3},
		{90, 5},
	}
	for _, tc := range cases {
		got := EvaluateScore(template.NumberValue(tc.input), template.KPIPercentage, percentageRules(), "delivery")
		if got != tc.want {
			t.Fatalf("input %v: expected %v, got %v", tc.input, tc.want, got)
		}
	}
}

func TestEvaluateScorePercentageIgnoresDeclaredOrder(t *testing.T) {
	// Rules declared ascending must still resolve as descending thresholds.
	rules := []template.ScoringRule{
		{Kind: template.RuleMatch, Value: template.NumberValue(75), Score: 3},
		{Kind: template.RuleMatch, Value: template.NumberValue(90), Score: 5},
	}
	if got := EvaluateScore(template.NumberValue(95), template.KPIPercentage, rules, "delivery"); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestEvaluateScoreVerbatim(t *testing.T) {
	// score type passes the value through and never consults rules.
	rules := []template.ScoringRule{{Kind: template.RuleRange, Min: 0, Max: 100, Score: 1}}
	if got := EvaluateScore(template.NumberValue(7.5), template.KPIScore, rules, "self-rating"); got != 7.5 {
		t.Fatalf("expected 7.5, got %v", got)
	}
}

func TestEvaluateScoreRangeFirstMatchWins(t *testing.T) {
	rules := []template.ScoringRule{
		{Kind: template.RuleRange, Min: 0, Max: 10, Score: 1},
		{Kind: template.RuleRange, Min: 5, Max: 20, Score: 2},
	}
	if got := EvaluateScore(template.NumberValue(7), template.KPIQuantitative, rules, "tickets"); got != 1 {
		t.Fatalf("expected first matching rule, got %v", got)
	}
	if got := EvaluateScore(template.NumberValue(15), template.KPIQuantitative, rules, "tickets"); got != 2 {
		t.Fatalf("expected second rule, got %v", got)
	}
}

func TestEvaluateScoreExactMatchIsTypeSensitive(t *testing.T) {
	rules := []template.ScoringRule{
		{Kind: template.RuleMatch, Value: template.BoolValue(true), Score: 4},
	}
	if got := EvaluateScore(template.BoolValue(true), template.KPIBinary, rules, "on-call"); got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
	if got := EvaluateScore(template.TextValue("true"), template.KPIQualitative, rules, "on-call"); got != 0 {
		t.Fatalf("string must not match boolean rule, got %v", got)
	}
}

func TestEvaluateScoreNoMatchScoresZero(t *testing.T) {
	rules := []template.ScoringRule{
		{Kind: template.RuleMatch, Value: template.TextValue("excellent"), Score: 5},
	}
	if got := EvaluateScore(template.TextValue("poor"), template.KPIQualitative, rules, "review"); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := EvaluateScore(template.NumberValue(3), template.KPIQuantitative, nil, "review"); got != 0 {
		t.Fatalf("expected 0 without rules, got %v", got)
	}
}
