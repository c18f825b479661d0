package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/AngelCh415/weekly-pulse/internal/models"
)

// WeekStart returns the Monday of the ISO week containing t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// ComputeWeekly buckets clean records into Monday-start weeks and computes
// the sales/marketing/efficiency KPI series plus WoW deltas. Deterministic
// for identical inputs; empty inputs yield an empty series.
func ComputeWeekly(orders []models.CleanOrder, ads []models.CleanAd) models.Weekly {
	weekSet := make(map[time.Time]struct{})
	for _, o := range orders {
		weekSet[WeekStart(o.OrderDate)] = struct{}{}
	}
	for _, a := range ads {
		weekSet[WeekStart(a.Date)] = struct{}{}
	}
	if len(weekSet) == 0 {
		return models.Weekly{}
	}

	var first, last time.Time
	for w := range weekSet {
		if first.IsZero() || w.Before(first) {
			first = w
		}
		if last.IsZero() || w.After(last) {
			last = w
		}
	}

	channels := observedChannels(orders, ads)

	var w models.Weekly
	for wk := first; !wk.After(last); wk = wk.AddDate(0, 0, 7) {
		ws := wk.Format("2006-01-02")
		w.WeekStarts = append(w.WeekStarts, ws)

		sales := salesForWeek(ws, wk, orders, channels)
		mk := marketingForWeek(ws, wk, ads, channels)
		eff := efficiencyForWeek(ws, sales, mk)

		w.Sales = append(w.Sales, sales)
		w.Marketing = append(w.Marketing, mk)
		w.Efficiency = append(w.Efficiency, eff)
	}

	applyWoW(&w)
	return w
}

func observedChannels(orders []models.CleanOrder, ads []models.CleanAd) []string {
	seen := make(map[string]struct{})
	for _, o := range orders {
		seen[o.Channel] = struct{}{}
	}
	for _, a := range ads {
		seen[a.Channel] = struct{}{}
	}
	// canonical order, restricted to channels that appear in the data
	var out []string
	for _, c := range models.CanonicalChannels {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func zeroChannelMap(channels []string) map[string]float64 {
	m := make(map[string]float64, len(channels))
	for _, c := range channels {
		m[c] = 0
	}
	return m
}

func salesForWeek(ws string, wk time.Time, orders []models.CleanOrder, channels []string) models.SalesWeek {
	s := models.SalesWeek{
		WeekStart:             ws,
		RevenueByCustomerType: map[string]float64{"new": 0, "returning": 0, "unknown": 0},
		RevenueByChannel:      zeroChannelMap(channels),
	}
	for _, o := range orders {
		if !WeekStart(o.OrderDate).Equal(wk) {
			continue
		}
		s.Revenue += o.Revenue
		s.Orders++
		s.RevenueByCustomerType[o.CustomerType] += o.Revenue
		s.RevenueByChannel[o.Channel] += o.Revenue
	}
	s.Revenue = round2(s.Revenue)
	s.AOV = round2(safeDiv(s.Revenue, float64(s.Orders)))
	for k, v := range s.RevenueByCustomerType {
		s.RevenueByCustomerType[k] = round2(v)
	}
	for k, v := range s.RevenueByChannel {
		s.RevenueByChannel[k] = round2(v)
	}
	s.ReturningRevenueShare = round4(safeDiv(s.RevenueByCustomerType["returning"], s.Revenue))
	return s
}

func marketingForWeek(ws string, wk time.Time, ads []models.CleanAd, channels []string) models.MarketingWeek {
	m := models.MarketingWeek{
		WeekStart:      ws,
		SpendByChannel: zeroChannelMap(channels),
	}
	var impressions, clicks, conversions float64
	for _, a := range ads {
		if !WeekStart(a.Date).Equal(wk) {
			continue
		}
		m.Spend += a.Spend
		impressions += a.Impressions
		clicks += a.Clicks
		conversions += a.Conversions
		m.SpendByChannel[a.Channel] += a.Spend
	}
	m.Spend = round2(m.Spend)
	m.Impressions = int(impressions)
	m.Clicks = int(clicks)
	m.Conversions = int(conversions)
	for k, v := range m.SpendByChannel {
		m.SpendByChannel[k] = round2(v)
	}
	m.CTR = round4(safeDiv(clicks, impressions))
	m.CVR = round4(safeDiv(conversions, clicks))
	m.CPC = round4(safeDiv(m.Spend, clicks))
	if conversions > 0 {
		m.CACProxy = ptr(round4(m.Spend / conversions))
	}
	return m
}

func efficiencyForWeek(ws string, sales models.SalesWeek, mk models.MarketingWeek) models.EfficiencyWeek {
	e := models.EfficiencyWeek{
		WeekStart:     ws,
		MER:           round4(safeDiv(sales.Revenue, mk.Spend)),
		ROASByChannel: make(map[string]float64),
	}
	// ROAS only exists where the channel actually spent; no entry otherwise
	for c, spend := range mk.SpendByChannel {
		if spend > 0 {
			e.ROASByChannel[c] = round4(sales.RevenueByChannel[c] / spend)
		}
	}
	return e
}

func applyWoW(w *models.Weekly) {
	for i := 1; i < len(w.WeekStarts); i++ {
		prevS, curS := w.Sales[i-1], &w.Sales[i]
		curS.WoW = models.SalesWoW{
			Revenue:          wowChange(curS.Revenue, prevS.Revenue),
			Orders:           wowChange(float64(curS.Orders), float64(prevS.Orders)),
			AOV:              wowChange(curS.AOV, prevS.AOV),
			ReturningShare:   wowChange(curS.ReturningRevenueShare, prevS.ReturningRevenueShare),
			ReturningSharePP: ptr(round4(curS.ReturningRevenueShare - prevS.ReturningRevenueShare)),
			RevenueByChannel: make(map[string]*float64, len(curS.RevenueByChannel)),
		}
		for c := range curS.RevenueByChannel {
			curS.WoW.RevenueByChannel[c] = wowChange(curS.RevenueByChannel[c], prevS.RevenueByChannel[c])
		}

		prevM, curM := w.Marketing[i-1], &w.Marketing[i]
		curM.WoW = models.MarketingWoW{
			Spend:    wowChange(curM.Spend, prevM.Spend),
			CTR:      wowChange(curM.CTR, prevM.CTR),
			CVR:      wowChange(curM.CVR, prevM.CVR),
			CPC:      wowChange(curM.CPC, prevM.CPC),
			CACProxy: wowChangePtr(curM.CACProxy, prevM.CACProxy),
		}

		prevE, curE := w.Efficiency[i-1], &w.Efficiency[i]
		curE.WoW = models.EfficiencyWoW{
			MER:           wowChange(curE.MER, prevE.MER),
			ROASByChannel: make(map[string]*float64),
		}
		// a channel missing ROAS on either side has no defined comparison
		for c, cur := range curE.ROASByChannel {
			if prev, ok := prevE.ROASByChannel[c]; ok {
				curE.WoW.ROASByChannel[c] = wowChange(cur, prev)
			}
		}
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// wowChange is nil when the previous value is zero: the relative change is
// undefined, never infinite or NaN.
func wowChange(cur, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	return ptr(round4((cur - prev) / prev))
}

func wowChangePtr(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	return wowChange(*cur, *prev)
}

func ptr(f float64) *float64 { return &f }

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round4(f float64) float64 { return math.Round(f*10000) / 10000 }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
