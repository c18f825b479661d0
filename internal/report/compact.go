package report

import "github.com/AngelCh415/weekly-pulse/internal/models"

// The summary generator runs under a token budget, so the payload it sees is
// bounded: recent weeks only and a capped anomaly list with per-rule counts.
const (
	maxWeekHistoryForSummary = 3
	maxAnomaliesForSummary   = 12
)

type Compact struct {
	Meta               Meta             `json:"meta"`
	LatestWeekSnapshot Snapshot         `json:"latest_week_snapshot"`
	RecentWeeks        RecentWeeks      `json:"recent_weeks"`
	Anomalies          []models.Anomaly `json:"anomalies"`
	AnomaliesSummary   AnomaliesSummary `json:"anomalies_summary"`
}

type RecentWeeks struct {
	Sales      []models.SalesWeek      `json:"sales_weekly"`
	Marketing  []models.MarketingWeek  `json:"marketing_weekly"`
	Efficiency []models.EfficiencyWeek `json:"efficiency_weekly"`
}

type AnomaliesSummary struct {
	CountTotal    int            `json:"count_total"`
	CountIncluded int            `json:"count_included"`
	RuleCounts    map[string]int `json:"rule_counts"`
}

func (r Report) Compact() Compact {
	anomalies := r.Anomalies
	if len(anomalies) > maxAnomaliesForSummary {
		anomalies = anomalies[:maxAnomaliesForSummary]
	}
	ruleCounts := make(map[string]int)
	for _, a := range r.Anomalies {
		ruleCounts[a.RuleID]++
	}
	return Compact{
		Meta:               r.Meta,
		LatestWeekSnapshot: r.LatestWeekSnapshot,
		RecentWeeks: RecentWeeks{
			Sales:      tail(r.SalesWeekly, maxWeekHistoryForSummary),
			Marketing:  tail(r.MarketingWeekly, maxWeekHistoryForSummary),
			Efficiency: tail(r.EfficiencyWeekly, maxWeekHistoryForSummary),
		},
		Anomalies: anomalies,
		AnomaliesSummary: AnomaliesSummary{
			CountTotal:    len(r.Anomalies),
			CountIncluded: len(anomalies),
			RuleCounts:    ruleCounts,
		},
	}
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
