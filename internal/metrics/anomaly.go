package metrics

import (
	"fmt"

	"github.com/AngelCh415/weekly-pulse/internal/models"
	"github.com/AngelCh415/weekly-pulse/internal/utils"
)

// Thresholds of the fixed anomaly rule set.
const (
	revenueWowThreshold        = 0.10
	channelRevenueWowThreshold = 0.15
	spendWowThreshold          = 0.15
	roasDropThreshold          = 0.20
	returningSharePPThreshold  = 0.08
)

// weekPair gives one rule everything it can look at: the previous and
// current week across all three series.
type weekPair struct {
	prevSales, curSales models.SalesWeek
	prevMk, curMk       models.MarketingWeek
	prevEff, curEff     models.EfficiencyWeek
}

// globalRule and channelRule are independent pure predicates: zero or one
// anomaly per (week) or (week, channel). Adding a rule is an addition to a
// list, not a change to a branching function.
type globalRule func(p weekPair) *models.Anomaly

type channelRule func(p weekPair, channel string) *models.Anomaly

var globalRules = []globalRule{ruleRevenueWow, ruleSpendWow, ruleReturningSharePP}

var channelRules = []channelRule{ruleChannelRevenueWow, ruleROASDrop}

// DetectAnomalies evaluates every rule against every week pair (second week
// onward) and every channel. All rules run; nothing short-circuits, so one
// week can trigger zero to many anomalies.
func DetectAnomalies(w models.Weekly) []models.Anomaly {
	anomalies := []models.Anomaly{}
	for i := 1; i < len(w.WeekStarts); i++ {
		p := weekPair{
			prevSales: w.Sales[i-1], curSales: w.Sales[i],
			prevMk: w.Marketing[i-1], curMk: w.Marketing[i],
			prevEff: w.Efficiency[i-1], curEff: w.Efficiency[i],
		}
		for _, rule := range globalRules {
			if a := rule(p); a != nil {
				anomalies = append(anomalies, *a)
			}
		}
		for _, c := range sortedKeys(p.curSales.RevenueByChannel) {
			for _, rule := range channelRules {
				if a := rule(p, c); a != nil {
					anomalies = append(anomalies, *a)
				}
			}
		}
	}
	for _, a := range anomalies {
		utils.AnomaliesFlagged.WithLabelValues(a.RuleID).Inc()
	}
	return anomalies
}

func ruleRevenueWow(p weekPair) *models.Anomaly {
	delta := p.curSales.WoW.Revenue
	if delta == nil || abs(*delta) < revenueWowThreshold {
		return nil
	}
	return &models.Anomaly{
		RuleID:    "revenue_wow_10pct",
		WeekStart: p.curSales.WeekStart,
		Scope:     models.ScopeGlobal,
		Current:   p.curSales.Revenue,
		Previous:  p.prevSales.Revenue,
		Delta:     *delta,
		Explanation: fmt.Sprintf("Revenue changed %+.1f%% WoW (%.2f vs %.2f)",
			*delta*100, p.curSales.Revenue, p.prevSales.Revenue),
	}
}

func ruleSpendWow(p weekPair) *models.Anomaly {
	delta := p.curMk.WoW.Spend
	if delta == nil || abs(*delta) < spendWowThreshold {
		return nil
	}
	return &models.Anomaly{
		RuleID:    "spend_wow_15pct",
		WeekStart: p.curMk.WeekStart,
		Scope:     models.ScopeGlobal,
		Current:   p.curMk.Spend,
		Previous:  p.prevMk.Spend,
		Delta:     *delta,
		Explanation: fmt.Sprintf("Spend changed %+.1f%% WoW (%.2f vs %.2f)",
			*delta*100, p.curMk.Spend, p.prevMk.Spend),
	}
}

// Percentage-point move of returning revenue share, not a ratio.
func ruleReturningSharePP(p weekPair) *models.Anomaly {
	pp := p.curSales.WoW.ReturningSharePP
	if pp == nil || abs(*pp) < returningSharePPThreshold {
		return nil
	}
	return &models.Anomaly{
		RuleID:    "returning_share_pp_8pt",
		WeekStart: p.curSales.WeekStart,
		Scope:     models.ScopeGlobal,
		Current:   p.curSales.ReturningRevenueShare,
		Previous:  p.prevSales.ReturningRevenueShare,
		Delta:     *pp,
		Explanation: fmt.Sprintf("Returning revenue share moved %+.1f points (%.1f%% vs %.1f%%)",
			*pp*100, p.curSales.ReturningRevenueShare*100, p.prevSales.ReturningRevenueShare*100),
	}
}

// A channel whose previous revenue is zero has no defined comparison and is
// skipped; a channel dropping from a nonzero value to zero fires at -100%.
func ruleChannelRevenueWow(p weekPair, channel string) *models.Anomaly {
	delta := p.curSales.WoW.RevenueByChannel[channel]
	if delta == nil || abs(*delta) < channelRevenueWowThreshold {
		return nil
	}
	cur := p.curSales.RevenueByChannel[channel]
	prev := p.prevSales.RevenueByChannel[channel]
	return &models.Anomaly{
		RuleID:    "channel_revenue_wow_15pct",
		WeekStart: p.curSales.WeekStart,
		Scope:     models.ScopeChannel,
		Entity:    channel,
		Current:   cur,
		Previous:  prev,
		Delta:     *delta,
		Explanation: fmt.Sprintf("%s revenue changed %+.1f%% WoW (%.2f vs %.2f)",
			channel, *delta*100, cur, prev),
	}
}

// Only decreases flag; a channel without a ROAS entry on either side is
// skipped.
func ruleROASDrop(p weekPair, channel string) *models.Anomaly {
	delta, ok := p.curEff.WoW.ROASByChannel[channel]
	if !ok || delta == nil || *delta > -roasDropThreshold {
		return nil
	}
	cur := p.curEff.ROASByChannel[channel]
	prev := p.prevEff.ROASByChannel[channel]
	return &models.Anomaly{
		RuleID:    "roas_wow_drop_20pct",
		WeekStart: p.curEff.WeekStart,
		Scope:     models.ScopeChannel,
		Entity:    channel,
		Current:   cur,
		Previous:  prev,
		Delta:     *delta,
		Explanation: fmt.Sprintf("%s ROAS dropped %.1f%% WoW (%.2fx vs %.2fx)",
			channel, abs(*delta)*100, cur, prev),
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
