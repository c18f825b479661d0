package report

import (
	"strings"

	"github.com/AngelCh415/weekly-pulse/internal/models"
)

var baseColumns = []string{
	"week_start",
	"revenue", "orders", "aov", "returning_revenue_share",
	"revenue_wow", "orders_wow", "aov_wow", "returning_share_wow",
	"spend", "ctr", "cvr", "cpc", "cac_proxy",
	"spend_wow", "ctr_wow", "cvr_wow", "cac_proxy_wow",
	"mer", "mer_wow",
	"anomaly_count", "anomaly_rules",
}

// Channels lists the canonical channels present in this report's data, in
// canonical order. The flat projection carries a column triple per channel.
func (r Report) Channels() []string {
	present := make(map[string]struct{})
	for _, s := range r.SalesWeekly {
		for c := range s.RevenueByChannel {
			present[c] = struct{}{}
		}
	}
	var out []string
	for _, c := range models.CanonicalChannels {
		if _, ok := present[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// FlatHeader is the ordered column list of the one-row-per-week projection.
func (r Report) FlatHeader() []string {
	header := append([]string(nil), baseColumns...)
	for _, c := range r.Channels() {
		header = append(header, "revenue_"+c, "spend_"+c, "roas_"+c)
	}
	return header
}

// FlatRows flattens the payload into one row per week, keyed by the columns
// of FlatHeader. Undefined values (first-week WoW, N/A CAC, absent ROAS) are
// nil so the CSV writer can leave them empty.
func (r Report) FlatRows() []map[string]any {
	rulesByWeek := make(map[string][]string)
	for _, a := range r.Anomalies {
		rulesByWeek[a.WeekStart] = append(rulesByWeek[a.WeekStart], a.RuleID)
	}

	rows := make([]map[string]any, 0, len(r.SalesWeekly))
	for i := range r.SalesWeekly {
		s, m, e := r.SalesWeekly[i], r.MarketingWeekly[i], r.EfficiencyWeekly[i]
		rules := rulesByWeek[s.WeekStart]
		row := map[string]any{
			"week_start":              s.WeekStart,
			"revenue":                 s.Revenue,
			"orders":                  s.Orders,
			"aov":                     s.AOV,
			"returning_revenue_share": s.ReturningRevenueShare,
			"revenue_wow":             s.WoW.Revenue,
			"orders_wow":              s.WoW.Orders,
			"aov_wow":                 s.WoW.AOV,
			"returning_share_wow":     s.WoW.ReturningShare,
			"spend":                   m.Spend,
			"ctr":                     m.CTR,
			"cvr":                     m.CVR,
			"cpc":                     m.CPC,
			"cac_proxy":               m.CACProxy,
			"spend_wow":               m.WoW.Spend,
			"ctr_wow":                 m.WoW.CTR,
			"cvr_wow":                 m.WoW.CVR,
			"cac_proxy_wow":           m.WoW.CACProxy,
			"mer":                     e.MER,
			"mer_wow":                 e.WoW.MER,
			"anomaly_count":           len(rules),
			"anomaly_rules":           strings.Join(rules, ";"),
		}
		for _, c := range r.Channels() {
			row["revenue_"+c] = s.RevenueByChannel[c]
			row["spend_"+c] = m.SpendByChannel[c]
			if v, ok := e.ROASByChannel[c]; ok {
				row["roas_"+c] = v
			} else {
				row["roas_"+c] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}
