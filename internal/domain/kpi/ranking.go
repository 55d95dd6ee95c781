package kpi

import (
	"math"
	"sort"
)

// Rank annotates a roster with competition rankings and summary statistics.
// Members without an entry rank with score 0 and hasEntry=false. Ties share
// a rank; the next distinct score takes its 1-based sorted position, so
// rank sequences like 1,1,3 are expected.
func Rank(roster []RosterMember) ([]Ranking, Stats) {
	rankings := make([]Ranking, 0, len(roster))
	for _, m := range roster {
		r := Ranking{
			MemberID:   m.MemberID,
			Name:       m.Name,
			Email:      m.Email,
			Department: m.Department,
			Role:       m.Role,
			Status:     m.Status,
		}
		if m.TotalScore != nil {
			r.TotalScore = *m.TotalScore
			r.HasEntry = true
		}
		rankings = append(rankings, r)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalScore > rankings[j].TotalScore
	})

	for i := range rankings {
		if i > 0 && rankings[i].TotalScore == rankings[i-1].TotalScore {
			rankings[i].Ranking = rankings[i-1].Ranking
			continue
		}
		rankings[i].Ranking = i + 1
	}

	return rankings, buildStats(rankings)
}

func buildStats(rankings []Ranking) Stats {
	stats := Stats{TotalMembers: len(rankings)}
	if len(rankings) == 0 {
		return stats
	}

	var sum float64
	for _, r := range rankings {
		if !r.HasEntry {
			continue
		}
		stats.MembersWithEntries++
		sum += r.TotalScore
		stats.LowestScore = r.TotalScore
	}
	stats.HighestScore = rankings[0].TotalScore
	if stats.MembersWithEntries > 0 {
		stats.AverageScore = math.Round(sum/float64(stats.MembersWithEntries)*100) / 100
	}
	stats.CompletionRate = int(math.Round(100 * float64(stats.MembersWithEntries) / float64(stats.TotalMembers)))
	return stats
}
