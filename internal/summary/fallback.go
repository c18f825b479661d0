package summary

import (
	"fmt"
	"strings"

	"github.com/AngelCh415/weekly-pulse/internal/report"
)

func fmtCurrency(v float64) string { return fmt.Sprintf("$%.2f", v) }
func fmtPct(v float64) string      { return fmt.Sprintf("%.1f%%", v*100) }
func fmtRatio(v float64) string    { return fmt.Sprintf("%.2fx", v) }

func fmtCurrencyPtr(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmtCurrency(*v)
}

// Fallback renders a deterministic executive summary from the payload alone.
// Used whenever the LLM is unconfigured or fails; same section layout as the
// generated report so downstream consumers never notice the difference.
func Fallback(r report.Report) string {
	latest := r.LatestWeekSnapshot

	title := fmt.Sprintf("# Weekly Performance Report (%s to %s)",
		orNA(r.Meta.WeekRange.Start), orNA(r.Meta.WeekRange.End))

	highlights := []string{
		fmt.Sprintf("- Revenue: %s across %d orders (AOV %s)",
			fmtCurrency(latest.Revenue), latest.Orders, fmtCurrency(latest.AOV)),
		fmt.Sprintf("- Spend: %s; MER: %s", fmtCurrency(latest.Spend), fmtRatio(latest.MER)),
		fmt.Sprintf("- Funnel: CTR %s, CVR %s, CAC proxy %s",
			fmtPct(latest.CTR), fmtPct(latest.CVR), fmtCurrencyPtr(latest.CACProxy)),
		fmt.Sprintf("- Returning revenue share: %s", fmtPct(latest.ReturningRevenueShare)),
		fmt.Sprintf("- Rule-based anomalies flagged: %d", len(r.Anomalies)),
	}

	var channelLines []string
	for _, tc := range latest.TopChannelsByRevenue {
		roas := "N/A"
		if tc.ROAS != nil {
			roas = fmtRatio(*tc.ROAS)
		}
		channelLines = append(channelLines,
			fmt.Sprintf("- %s: revenue %s; ROAS %s", tc.Channel, fmtCurrency(tc.Revenue), roas))
	}
	if len(channelLines) == 0 {
		channelLines = []string{"- No channel revenue data available for the latest week."}
	}

	var anomalyLines []string
	for i, a := range r.Anomalies {
		if i == 8 {
			break
		}
		anomalyLines = append(anomalyLines, fmt.Sprintf("- [%s] %s", a.RuleID, a.Explanation))
	}
	if len(anomalyLines) == 0 {
		anomalyLines = []string{"- No anomaly rules triggered this week."}
	}

	actions := []string{
		"- Validate tracking consistency for channels with the largest WoW swings in revenue or ROAS.",
		"- Review campaign-level spend and conversion quality for paid channels with rising CAC proxy.",
		"- Confirm returning customer promotions, CRM sends, and site changes if returning revenue share shifted materially.",
	}

	return strings.Join([]string{
		title,
		"## Highlights\n" + strings.Join(highlights, "\n"),
		"## Channel Performance\n" + strings.Join(channelLines, "\n"),
		"## Anomalies\n" + strings.Join(anomalyLines, "\n"),
		"## What To Check Next\n" + strings.Join(actions, "\n"),
		"> Note: generated via deterministic fallback summary because the LLM was unavailable during this run.",
	}, "\n\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
