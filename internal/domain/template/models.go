package template

import (
	"encoding/json"
	"fmt"
	"time"
)

// Frequency controls how often one entry may be submitted against a template.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// KPIType describes what kind of value a template item expects and how its
// scoring rules are interpreted.
type KPIType string

const (
	KPIQuantitative KPIType = "quantitative"
	KPIPercentage   KPIType = "percentage"
	KPIBinary       KPIType = "binary"
	KPIQualitative  KPIType = "qualitative"
	KPIScore        KPIType = "score"
)

func (k KPIType) Valid() bool {
	switch k {
	case KPIQuantitative, KPIPercentage, KPIBinary, KPIQualitative, KPIScore:
		return true
	}
	return false
}

// ValueKind tags the runtime type of a submitted scalar.
type ValueKind string

const (
	KindNumber ValueKind = "number"
	KindText   ValueKind = "text"
	KindBool   ValueKind = "bool"
)

// Value is a scalar submitted against a template item. It is serialized as a
// bare JSON scalar; the kind is fixed once when the payload is decoded so
// downstream code never re-inspects raw JSON.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
	Bool   bool
}

func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func TextValue(s string) Value    { return Value{Kind: KindText, Text: s} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }

// Equal is type-sensitive: values of different kinds never match.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Number == o.Number
	case KindText:
		return v.Text == o.Text
	case KindBool:
		return v.Bool == o.Bool
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.Number)
	case KindText:
		return v.Text
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Number)
	case KindText:
		return json.Marshal(v.Text)
	case KindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case float64:
		*v = NumberValue(typed)
	case string:
		*v = TextValue(typed)
	case bool:
		*v = BoolValue(typed)
	default:
		return fmt.Errorf("value must be a number, string or boolean")
	}
	return nil
}

// RuleKind tags a scoring rule as a range rule or an exact-match rule.
type RuleKind string

const (
	RuleRange RuleKind = "range"
	RuleMatch RuleKind = "match"
)

// ScoringRule maps a submitted value onto a score. A range rule matches when
// min <= value <= max; a match rule matches on type-sensitive equality.
type ScoringRule struct {
	Kind  RuleKind `json:"kind"`
	Min   float64  `json:"min,omitempty"`
	Max   float64  `json:"max,omitempty"`
	Value Value    `json:"value,omitempty"`
	Score float64  `json:"score"`
}

func (r *ScoringRule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind  RuleKind         `json:"kind"`
		Min   *float64         `json:"min"`
		Max   *float64         `json:"max"`
		Value *json.RawMessage `json:"value"`
		Score float64          `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rule := ScoringRule{Kind: raw.Kind, Score: raw.Score}
	if raw.Min != nil {
		rule.Min = *raw.Min
	}
	if raw.Max != nil {
		rule.Max = *raw.Max
	}
	if raw.Value != nil {
		if err := rule.Value.UnmarshalJSON(*raw.Value); err != nil {
			return err
		}
	}
	// Older payloads omit the kind tag; infer it from which fields are set.
	if rule.Kind == "" {
		if raw.Min != nil || raw.Max != nil {
			rule.Kind = RuleRange
		} else {
			rule.Kind = RuleMatch
		}
	}
	*r = rule
	return nil
}

// Item is one scorable criterion within a template. Dynamic items are filled
// by an automated source later and need not be supplied by the submitter.
type Item struct {
	Name      string        `json:"name"`
	KPIType   KPIType       `json:"kpiType"`
	MaxMarks  float64       `json:"maxMarks"`
	IsDynamic bool          `json:"isDynamic,omitempty"`
	Rules     []ScoringRule `json:"scoringRules"`
}

// Template is a KPI template: the set of criteria one member role is scored
// against, at a fixed submission frequency. Read-only to the scoring engine.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Frequency Frequency `json:"frequency"`
	Items     []Item    `json:"items"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemByName returns the template item with the given name, or false.
func (t Template) ItemByName(name string) (Item, bool) {
	for _, item := range t.Items {
		if item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}
