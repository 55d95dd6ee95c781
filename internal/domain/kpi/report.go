package kpi

import (
	"context"
	"log/slog"

	"kpitrack/internal/domain/member"
)

// GenerateDepartmentReport ranks every role group of a department against
// the template and locks the included entries. Generation is deliberately
// not idempotent: a second run only sees entries not yet generated, so
// previously reported members come back with hasEntry=false.
func (s *Service) GenerateDepartmentReport(ctx context.Context, department, templateID, generatedBy string) (*DepartmentReport, error) {
	report, lockIDs, err := s.buildDepartmentReport(ctx, department, templateID, generatedBy)
	if err != nil {
		return nil, err
	}

	if len(lockIDs) > 0 {
		locked, err := s.Store.MarkGenerated(ctx, lockIDs)
		if err != nil {
			return nil, err
		}
		if locked != len(lockIDs) {
			// Rankings reflect pre-lock state; report the mismatch instead
			// of aborting.
			slog.Warn("report generation locked fewer entries than selected",
				"department", department, "template", templateID,
				"selected", len(lockIDs), "locked", locked)
		}
		report.EntriesLocked = locked
	}
	return report, nil
}

// PreviewDepartmentReport runs the same ranking pass without the status
// transition, so previewing never consumes the one-shot generation.
func (s *Service) PreviewDepartmentReport(ctx context.Context, department, templateID, generatedBy string) (*DepartmentReport, error) {
	report, _, err := s.buildDepartmentReport(ctx, department, templateID, generatedBy)
	return report, err
}

func (s *Service) buildDepartmentReport(ctx context.Context, department, templateID, generatedBy string) (*DepartmentReport, []string, error) {
	tmpl, err := s.loadTemplate(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}

	roster, err := s.Members.ListByDepartment(ctx, department)
	if err != nil {
		return nil, nil, err
	}

	memberIDs := make([]string, 0, len(roster))
	for _, m := range roster {
		memberIDs = append(memberIDs, m.UserID)
	}

	var entries []Entry
	if len(memberIDs) > 0 {
		entries, err = s.Store.ListForReport(ctx, templateID, memberIDs)
		if err != nil {
			return nil, nil, err
		}
	}
	entryFor := make(map[string]Entry, len(entries))
	for _, e := range entries {
		entryFor[e.CreatedFor] = e
	}

	// Group by role, preserving first-seen role order from the roster.
	var roleOrder []string
	byRole := make(map[string][]member.Member)
	for _, m := range roster {
		if _, ok := byRole[m.Role]; !ok {
			roleOrder = append(roleOrder, m.Role)
		}
		byRole[m.Role] = append(byRole[m.Role], m)
	}

	report := &DepartmentReport{
		Department:    department,
		KPITemplateID: templateID,
		TemplateName:  tmpl.Name,
		Frequency:     string(tmpl.Frequency),
		GeneratedBy:   generatedBy,
		GeneratedAt:   s.now(),
	}

	var lockIDs []string
	for _, role := range roleOrder {
		rows := rosterRows(byRole[role], entryFor)
		rankings, stats := Rank(rows)
		report.Roles = append(report.Roles, RoleReport{Role: role, Rankings: rankings, Stats: stats})

		for _, m := range byRole[role] {
			if e, ok := entryFor[m.UserID]; ok {
				lockIDs = append(lockIDs, e.ID)
			}
		}
	}

	// Department-wide statistics over the union of all role groups.
	_, report.Stats = Rank(rosterRows(roster, entryFor))

	return report, lockIDs, nil
}

func rosterRows(members []member.Member, entryFor map[string]Entry) []RosterMember {
	rows := make([]RosterMember, 0, len(members))
	for _, m := range members {
		row := RosterMember{
			MemberID:   m.UserID,
			Name:       m.Name,
			Email:      m.Email,
			Department: m.DepartmentSlug,
			Role:       m.Role,
		}
		if e, ok := entryFor[m.UserID]; ok {
			score := e.TotalScore
			row.TotalScore = &score
			row.Status = e.Status
		}
		rows = append(rows, row)
	}
	return rows
}
