package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/weekly-pulse/internal/models"
)

func byRule(anomalies []models.Anomaly, ruleID string) []models.Anomaly {
	var out []models.Anomaly
	for _, a := range anomalies {
		if a.RuleID == ruleID {
			out = append(out, a)
		}
	}
	return out
}

var (
	weekA = time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	weekB = time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
)

func TestRevenueWowRuleFires(t *testing.T) {
	orders := []models.CleanOrder{
		order("1", weekA, "direct", 2171.14, "new"),
		order("2", weekB, "direct", 1728.05, "new"),
	}
	w := ComputeWeekly(orders, nil)
	anomalies := DetectAnomalies(w)

	hits := byRule(anomalies, "revenue_wow_10pct")
	require.Len(t, hits, 1)
	a := hits[0]
	assert.Equal(t, "2026-02-09", a.WeekStart)
	assert.Equal(t, models.ScopeGlobal, a.Scope)
	assert.InDelta(t, -0.2041, a.Delta, 1e-4)
	assert.Contains(t, a.Explanation, "1728.05")
	assert.Contains(t, a.Explanation, "2171.14")
}

func TestRevenueWowRuleQuietBelowThreshold(t *testing.T) {
	orders := []models.CleanOrder{
		order("1", weekA, "direct", 1000, "new"),
		order("2", weekB, "direct", 1050, "new"),
	}
	anomalies := DetectAnomalies(ComputeWeekly(orders, nil))
	assert.Empty(t, byRule(anomalies, "revenue_wow_10pct"))
}

func TestChannelRevenueDropToZeroFires(t *testing.T) {
	orders := []models.CleanOrder{
		order("1", weekA, "email", 45.00, "new"),
		order("2", weekA, "direct", 1000, "new"),
		order("3", weekB, "direct", 1000, "new"),
	}
	anomalies := DetectAnomalies(ComputeWeekly(orders, nil))

	hits := byRule(anomalies, "channel_revenue_wow_15pct")
	require.Len(t, hits, 1)
	a := hits[0]
	assert.Equal(t, "email", a.Entity)
	assert.Equal(t, models.ScopeChannel, a.Scope)
	assert.InDelta(t, -1.0, a.Delta, 1e-9, "drop to zero reads as 100% down")
	assert.Contains(t, a.Explanation, "0.00")
	assert.Contains(t, a.Explanation, "45.00")
}

func TestChannelAppearingFromZeroIsSkipped(t *testing.T) {
	// email has no previous-week revenue, so the comparison is undefined
	orders := []models.CleanOrder{
		order("1", weekA, "direct", 1000, "new"),
		order("2", weekB, "direct", 1000, "new"),
		order("3", weekB, "email", 500, "new"),
	}
	anomalies := DetectAnomalies(ComputeWeekly(orders, nil))
	for _, a := range byRule(anomalies, "channel_revenue_wow_15pct") {
		assert.NotEqual(t, "email", a.Entity)
	}
}

func TestSpendWowRuleFires(t *testing.T) {
	ads := []models.CleanAd{
		ad(weekA, "search", 100, 1000, 50, 5),
		ad(weekB, "search", 130, 1000, 50, 5),
	}
	anomalies := DetectAnomalies(ComputeWeekly(nil, ads))
	hits := byRule(anomalies, "spend_wow_15pct")
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.3, hits[0].Delta, 1e-4)
	assert.Contains(t, hits[0].Explanation, "130.00")
	assert.Contains(t, hits[0].Explanation, "100.00")
}

func TestROASDropRuleFiresOnDecreaseOnly(t *testing.T) {
	orders := []models.CleanOrder{
		order("1", weekA, "search", 200, "new"),
		order("2", weekB, "search", 150, "new"),
	}
	ads := []models.CleanAd{
		ad(weekA, "search", 100, 1000, 50, 5),
		ad(weekB, "search", 100, 1000, 50, 5),
	}
	anomalies := DetectAnomalies(ComputeWeekly(orders, ads))
	hits := byRule(anomalies, "roas_wow_drop_20pct")
	require.Len(t, hits, 1)
	assert.Equal(t, "search", hits[0].Entity)
	assert.InDelta(t, -0.25, hits[0].Delta, 1e-4)
	assert.Contains(t, hits[0].Explanation, "1.50x")
	assert.Contains(t, hits[0].Explanation, "2.00x")

	// mirrored increase never flags
	up := DetectAnomalies(ComputeWeekly([]models.CleanOrder{
		order("1", weekA, "search", 150, "new"),
		order("2", weekB, "search", 200, "new"),
	}, ads))
	assert.Empty(t, byRule(up, "roas_wow_drop_20pct"))
}

func TestROASRuleSkipsChannelWithoutSpend(t *testing.T) {
	orders := []models.CleanOrder{
		order("1", weekA, "email", 200, "new"),
		order("2", weekB, "email", 50, "new"),
	}
	ads := []models.CleanAd{ad(weekB, "email", 100, 1000, 50, 5)} // no spend in week A
	anomalies := DetectAnomalies(ComputeWeekly(orders, ads))
	assert.Empty(t, byRule(anomalies, "roas_wow_drop_20pct"), "missing previous ROAS means no comparison")
}

func TestReturningSharePPRule(t *testing.T) {
	orders := []models.CleanOrder{
		order("1", weekA, "direct", 70, "new"),
		order("2", weekA, "direct", 30, "returning"),
		order("3", weekB, "direct", 60, "new"),
		order("4", weekB, "direct", 40, "returning"),
	}
	anomalies := DetectAnomalies(ComputeWeekly(orders, nil))
	hits := byRule(anomalies, "returning_share_pp_8pt")
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.10, hits[0].Delta, 1e-4)
	assert.Contains(t, hits[0].Explanation, "40.0%")
	assert.Contains(t, hits[0].Explanation, "30.0%")
}

func TestFirstWeekNeverFlags(t *testing.T) {
	orders := []models.CleanOrder{order("1", weekA, "direct", 5000, "new")}
	assert.Empty(t, DetectAnomalies(ComputeWeekly(orders, nil)))
}

func TestAnomalyCountIsAdditiveAcrossRules(t *testing.T) {
	// week B: revenue -50% (global + channel) and spend +50%, three instances
	orders := []models.CleanOrder{
		order("1", weekA, "direct", 1000, "new"),
		order("2", weekB, "direct", 500, "new"),
	}
	ads := []models.CleanAd{
		ad(weekA, "search", 100, 1000, 50, 5),
		ad(weekB, "search", 150, 1000, 50, 5),
	}
	anomalies := DetectAnomalies(ComputeWeekly(orders, ads))
	assert.Len(t, byRule(anomalies, "revenue_wow_10pct"), 1)
	assert.Len(t, byRule(anomalies, "channel_revenue_wow_15pct"), 1)
	assert.Len(t, byRule(anomalies, "spend_wow_15pct"), 1)
	assert.Len(t, anomalies, 3, "no dedup or merge across rules")
}
