package template

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValueRoundTripsAsBareScalar(t *testing.T) {
	cases := []struct {
		raw  string
		want Value
	}{
		{"42.5", NumberValue(42.5)},
		{`"excellent"`, TextValue("excellent")},
		{"true", BoolValue(true)},
	}
	for _, tc := range cases {
		var v Value
		if err := json.Unmarshal([]byte(tc.raw), &v); err != nil {
			t.Fatalf("unmarshal %s failed: %v", tc.raw, err)
		}
		if !v.Equal(tc.want) {
			t.Fatalf("unmarshal %s: got %+v want %+v", tc.raw, v, tc.want)
		}
		out, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(out) != tc.raw {
			t.Fatalf("marshal: got %s want %s", out, tc.raw)
		}
	}
}

func TestValueRejectsCompositeJSON(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Fatal("expected error for object value")
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &v); err == nil {
		t.Fatal("expected error for array value")
	}
}

func TestValueEqualIsTypeSensitive(t *testing.T) {
	if NumberValue(1).Equal(BoolValue(true)) {
		t.Fatal("number 1 must not equal bool true")
	}
	if TextValue("1").Equal(NumberValue(1)) {
		t.Fatal("text must not equal number")
	}
	if !NumberValue(3).Equal(NumberValue(3)) {
		t.Fatal("equal numbers must match")
	}
}

func TestScoringRuleKindInference(t *testing.T) {
	var ranged ScoringRule
	if err := json.Unmarshal([]byte(`{"min":0,"max":10,"score":5}`), &ranged); err != nil {
		t.Fatalf("unmarshal range rule failed: %v", err)
	}
	if ranged.Kind != RuleRange {
		t.Fatalf("expected inferred range kind, got %q", ranged.Kind)
	}

	var match ScoringRule
	if err := json.Unmarshal([]byte(`{"value":true,"score":2}`), &match); err != nil {
		t.Fatalf("unmarshal match rule failed: %v", err)
	}
	if match.Kind != RuleMatch {
		t.Fatalf("expected inferred match kind, got %q", match.Kind)
	}
	if !match.Value.Equal(BoolValue(true)) {
		t.Fatalf("expected bool value, got %+v", match.Value)
	}

	var tagged ScoringRule
	if err := json.Unmarshal([]byte(`{"kind":"match","value":3,"score":1}`), &tagged); err != nil {
		t.Fatalf("unmarshal tagged rule failed: %v", err)
	}
	if tagged.Kind != RuleMatch {
		t.Fatalf("explicit kind must win, got %q", tagged.Kind)
	}
}

func TestValidateTemplate(t *testing.T) {
	valid := Template{
		Name:      "Engineering weekly",
		Role:      "engineer",
		Frequency: FrequencyWeekly,
		Items: []Item{
			{Name: "tickets", KPIType: KPIQuantitative, MaxMarks: 5},
			{Name: "uptime", KPIType: KPIPercentage, MaxMarks: 5},
		},
	}
	if err := ValidateTemplate(valid); err != nil {
		t.Fatalf("expected valid template, got %v", err)
	}

	badFreq := valid
	badFreq.Frequency = "fortnightly"
	if err := ValidateTemplate(badFreq); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}

	badType := valid
	badType.Items = []Item{{Name: "tickets", KPIType: "ordinal"}}
	if err := ValidateTemplate(badType); !errors.Is(err, ErrInvalidKPIType) {
		t.Fatalf("expected ErrInvalidKPIType, got %v", err)
	}

	dup := valid
	dup.Items = []Item{
		{Name: "tickets", KPIType: KPIQuantitative},
		{Name: "tickets", KPIType: KPIScore},
	}
	if err := ValidateTemplate(dup); !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
}
