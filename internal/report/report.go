package report

import (
	"sort"
	"time"

	"github.com/AngelCh415/weekly-pulse/internal/models"
)

// Report is the full metrics payload handed to the summary and delivery
// stages. Computed once per pipeline run; immutable afterwards.
type Report struct {
	Meta               Meta                    `json:"meta"`
	SalesWeekly        []models.SalesWeek      `json:"sales_weekly"`
	MarketingWeekly    []models.MarketingWeek  `json:"marketing_weekly"`
	EfficiencyWeekly   []models.EfficiencyWeek `json:"efficiency_weekly"`
	LatestWeekSnapshot Snapshot                `json:"latest_week_snapshot"`
	Anomalies          []models.Anomaly        `json:"anomalies"`
}

type Meta struct {
	RunID           string    `json:"run_id"`
	RunDate         string    `json:"run_date"`
	OrdersRowsClean int       `json:"orders_rows_clean"`
	AdsRowsClean    int       `json:"ads_rows_clean"`
	WeekRange       WeekRange `json:"week_range"`
	WeekStarts      []string  `json:"week_starts"`
}

type WeekRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Weeks int    `json:"weeks"`
}

// Snapshot condenses the most recent week for the summary generator.
type Snapshot struct {
	WeekStart             string       `json:"week_start"`
	Revenue               float64      `json:"revenue"`
	Orders                int          `json:"orders"`
	AOV                   float64      `json:"aov"`
	ReturningRevenueShare float64      `json:"returning_revenue_share"`
	Spend                 float64      `json:"spend"`
	CTR                   float64      `json:"ctr"`
	CVR                   float64      `json:"cvr"`
	CPC                   float64      `json:"cpc"`
	CACProxy              *float64     `json:"cac_proxy"`
	MER                   float64      `json:"mer"`
	TopChannelsByRevenue  []TopChannel `json:"top_channels_by_revenue"`
}

type TopChannel struct {
	Channel string   `json:"channel"`
	Revenue float64  `json:"revenue"`
	ROAS    *float64 `json:"roas,omitempty"`
}

// Build assembles the payload from one run's weekly series and anomalies.
func Build(w models.Weekly, anomalies []models.Anomaly, ordersClean, adsClean int, runID string, runDate time.Time) Report {
	r := Report{
		Meta: Meta{
			RunID:           runID,
			RunDate:         runDate.Format("2006-01-02"),
			OrdersRowsClean: ordersClean,
			AdsRowsClean:    adsClean,
			WeekRange:       WeekRange{Weeks: len(w.WeekStarts)},
			WeekStarts:      w.WeekStarts,
		},
		SalesWeekly:      w.Sales,
		MarketingWeekly:  w.Marketing,
		EfficiencyWeekly: w.Efficiency,
		Anomalies:        anomalies,
	}
	if len(w.WeekStarts) > 0 {
		r.Meta.WeekRange.Start = w.WeekStarts[0]
		r.Meta.WeekRange.End = w.WeekStarts[len(w.WeekStarts)-1]
		r.LatestWeekSnapshot = snapshot(w)
	}
	return r
}

func snapshot(w models.Weekly) Snapshot {
	n := len(w.WeekStarts)
	sales, mk, eff := w.Sales[n-1], w.Marketing[n-1], w.Efficiency[n-1]
	return Snapshot{
		WeekStart:             sales.WeekStart,
		Revenue:               sales.Revenue,
		Orders:                sales.Orders,
		AOV:                   sales.AOV,
		ReturningRevenueShare: sales.ReturningRevenueShare,
		Spend:                 mk.Spend,
		CTR:                   mk.CTR,
		CVR:                   mk.CVR,
		CPC:                   mk.CPC,
		CACProxy:              mk.CACProxy,
		MER:                   eff.MER,
		TopChannelsByRevenue:  topChannels(sales.RevenueByChannel, eff.ROASByChannel, 3),
	}
}

func topChannels(revenue map[string]float64, roas map[string]float64, limit int) []TopChannel {
	channels := make([]string, 0, len(revenue))
	for c := range revenue {
		channels = append(channels, c)
	}
	sort.Slice(channels, func(i, j int) bool {
		if revenue[channels[i]] != revenue[channels[j]] {
			return revenue[channels[i]] > revenue[channels[j]]
		}
		return channels[i] < channels[j]
	})
	if len(channels) > limit {
		channels = channels[:limit]
	}
	out := make([]TopChannel, 0, len(channels))
	for _, c := range channels {
		tc := TopChannel{Channel: c, Revenue: revenue[c]}
		if v, ok := roas[c]; ok {
			tc.ROAS = &v
		}
		out = append(out, tc)
	}
	return out
}
