package kpi

import (
	"time"

	"kpitrack/internal/domain/template"
)

// SubmittedValue is one value as supplied by the caller, before validation.
// Score is a pointer so the validator can tell "no score supplied" apart
// from an explicit zero; it is only honored when IsByPassed is set.
type SubmittedValue struct {
	Name       string          `json:"name"`
	Value      *template.Value `json:"value,omitempty"`
	Score      *float64        `json:"score,omitempty"`
	Comments   string          `json:"comments,omitempty"`
	IsByPassed bool            `json:"isByPassed,omitempty"`
}

// EntryValue is a validated value with its engine-computed (or bypassed)
// score.
type EntryValue struct {
	Name       string         `json:"name"`
	Value      template.Value `json:"value"`
	Score      float64        `json:"score"`
	Comments   string         `json:"comments,omitempty"`
	IsByPassed bool           `json:"isByPassed,omitempty"`
}

// Entry is one member's scored submission against a template for one period.
type Entry struct {
	ID            string       `json:"id"`
	KPITemplateID string       `json:"kpiTemplateId"`
	CreatedFor    string       `json:"createdFor"`
	CreatedBy     string       `json:"createdBy"`
	Values        []EntryValue `json:"values"`
	TotalScore    float64      `json:"totalScore"`
	Status        string       `json:"status"`
	PeriodKey     string       `json:"periodKey"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// EntryFilter is a conjunction over entry columns. Zero fields are skipped.
type EntryFilter struct {
	KPITemplateID string
	CreatedFor    string
	Status        string
	CreatedFrom   time.Time
	CreatedTo     time.Time
}

// RosterMember is one row fed into the ranking engine. TotalScore is nil for
// members with no entry this period.
type RosterMember struct {
	MemberID   string
	Name       string
	Email      string
	Department string
	Role       string
	TotalScore *float64
	Status     string
}

// Ranking is one member's position in a role or department report.
// Competition ranking: tied scores share a rank and the next distinct score
// resumes at its 1-based position, so rank gaps are possible.
type Ranking struct {
	MemberID   string  `json:"memberId"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Role       string  `json:"role"`
	TotalScore float64 `json:"totalScore"`
	Ranking    int     `json:"ranking"`
	HasEntry   bool    `json:"hasEntry"`
	Status     string  `json:"status,omitempty"`
}

// Stats summarizes one ranking pass. AverageScore and LowestScore consider
// entry-bearing members only.
type Stats struct {
	AverageScore       float64 `json:"averageScore"`
	HighestScore       float64 `json:"highestScore"`
	LowestScore        float64 `json:"lowestScore"`
	CompletionRate     int     `json:"completionRate"`
	TotalMembers       int     `json:"totalMembers"`
	MembersWithEntries int     `json:"membersWithEntries"`
}

// RoleReport is the ranked result for one role group within a department.
type RoleReport struct {
	Role     string    `json:"role"`
	Rankings []Ranking `json:"rankings"`
	Stats    Stats     `json:"stats"`
}

// DepartmentReport aggregates all role reports for one department/template
// pair. EntriesLocked records how many entries this generation actually
// transitioned to generated.
type DepartmentReport struct {
	Department    string       `json:"department"`
	KPITemplateID string       `json:"kpiTemplateId"`
	TemplateName  string       `json:"templateName"`
	Frequency     string       `json:"frequency"`
	GeneratedBy   string       `json:"generatedBy"`
	GeneratedAt   time.Time    `json:"generatedAt"`
	Roles         []RoleReport `json:"roles"`
	Stats         Stats        `json:"stats"`
	EntriesLocked int          `json:"entriesLocked"`
}
