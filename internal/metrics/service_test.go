package metrics

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/weekly-pulse/internal/models"
	"github.com/AngelCh415/weekly-pulse/internal/report"
	"github.com/AngelCh415/weekly-pulse/internal/store"
)

func serviceWithReport(t *testing.T) *Service {
	t.Helper()
	orders := []models.CleanOrder{
		order("1", day(2026, 2, 2), "google_ads", 100, "new"),
		order("2", day(2026, 2, 9), "email", 50, "returning"),
	}
	w := ComputeWeekly(orders, nil)
	rep := report.Build(w, DetectAnomalies(w), len(orders), 0, "run-1", time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore()
	st.SetReport(rep)
	return NewService(st)
}

func TestWeeksRangeFilter(t *testing.T) {
	svc := serviceWithReport(t)

	all := svc.Weeks(url.Values{})
	require.Len(t, all, 2)

	second := svc.Weeks(url.Values{"from": {"2026-02-09"}})
	require.Len(t, second, 1)
	assert.Equal(t, "2026-02-09", second[0]["week_start"])
}

func TestWeeksChannelFilter(t *testing.T) {
	svc := serviceWithReport(t)

	rows := svc.Weeks(url.Values{"channel": {"google_ads"}})
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-02-02", rows[0]["week_start"])

	rows = svc.Weeks(url.Values{"channel": {"Email"}})
	require.Len(t, rows, 1, "channel match is case-insensitive")
	assert.Equal(t, "2026-02-09", rows[0]["week_start"])

	rows = svc.Weeks(url.Values{"channel": {"google_ads,email"}})
	assert.Len(t, rows, 2, "a week matches when any listed channel is active in it")

	rows = svc.Weeks(url.Values{"channel": {"tiktok"}})
	assert.Empty(t, rows)
}

func TestAnomaliesFilters(t *testing.T) {
	svc := serviceWithReport(t)

	all := svc.Anomalies(url.Values{})
	byRule := svc.Anomalies(url.Values{"rule_id": {"revenue_wow_10pct"}})
	require.NotEmpty(t, byRule, "a 50% revenue drop trips the global revenue rule")
	for _, a := range byRule {
		assert.Equal(t, "revenue_wow_10pct", a.RuleID)
	}
	assert.LessOrEqual(t, len(byRule), len(all))
}
