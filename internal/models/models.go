package models

import "time"

// RawRecord is one row of an ingested feed before any cleaning: field name
// to whatever value the source carried (string, number, blank).
type RawRecord map[string]any

// CanonicalChannels is the closed channel set every raw token maps into.
var CanonicalChannels = []string{"paid_social", "search", "email", "organic", "direct", "unknown"}

type CleanOrder struct {
	OrderID      string
	OrderDate    time.Time // date only, midnight UTC
	Channel      string
	Revenue      float64
	CustomerType string // new | returning | unknown
	Country      string
}

type CleanAd struct {
	Date        time.Time
	Channel     string
	Campaign    string
	Spend       float64
	Impressions float64
	Clicks      float64
	Conversions float64
}

// SalesWeek aggregates orders over one Monday-start week.
type SalesWeek struct {
	WeekStart             string             `json:"week_start"`
	Revenue               float64            `json:"revenue"`
	Orders                int                `json:"orders"`
	AOV                   float64            `json:"aov"`
	RevenueByCustomerType map[string]float64 `json:"revenue_split_by_customer_type"`
	ReturningRevenueShare float64            `json:"returning_revenue_share"`
	RevenueByChannel      map[string]float64 `json:"revenue_by_channel"`
	WoW                   SalesWoW           `json:"wow"`
}

// SalesWoW holds week-over-week deltas; nil means the comparison is
// undefined (first week, or previous value was zero).
type SalesWoW struct {
	Revenue          *float64            `json:"revenue"`
	Orders           *float64            `json:"orders"`
	AOV              *float64            `json:"aov"`
	ReturningShare   *float64            `json:"returning_revenue_share"`
	ReturningSharePP *float64            `json:"returning_revenue_share_pp"`
	RevenueByChannel map[string]*float64 `json:"revenue_by_channel"`
}

type MarketingWeek struct {
	WeekStart      string             `json:"week_start"`
	Spend          float64            `json:"spend"`
	Impressions    int                `json:"impressions"`
	Clicks         int                `json:"clicks"`
	Conversions    int                `json:"conversions"`
	CTR            float64            `json:"ctr"`
	CVR            float64            `json:"cvr"`
	CPC            float64            `json:"cpc"`
	CACProxy       *float64           `json:"cac_proxy"` // nil when conversions = 0
	SpendByChannel map[string]float64 `json:"spend_by_channel"`
	WoW            MarketingWoW       `json:"wow"`
}

type MarketingWoW struct {
	Spend    *float64 `json:"spend"`
	CTR      *float64 `json:"ctr"`
	CVR      *float64 `json:"cvr"`
	CPC      *float64 `json:"cpc"`
	CACProxy *float64 `json:"cac_proxy"`
}

// EfficiencyWeek carries blended and per-channel efficiency. ROASByChannel
// only contains channels whose spend was > 0 that week; absence means the
// ratio is not defined, not that it is zero.
type EfficiencyWeek struct {
	WeekStart     string             `json:"week_start"`
	MER           float64            `json:"mer"`
	ROASByChannel map[string]float64 `json:"roas_by_channel"`
	WoW           EfficiencyWoW      `json:"wow"`
}

type EfficiencyWoW struct {
	MER           *float64            `json:"mer"`
	ROASByChannel map[string]*float64 `json:"roas_by_channel"`
}

// Weekly is the full weekly series computed from one run's clean records.
// Weeks with no activity that fall between the first and last observed week
// are materialized with zero/not-applicable KPIs so the WoW chain stays
// contiguous.
type Weekly struct {
	WeekStarts []string
	Sales      []SalesWeek
	Marketing  []MarketingWeek
	Efficiency []EfficiencyWeek
}

// Anomaly is one triggered rule instance. Explanation embeds the raw
// before/after values so the trigger can be verified without recomputing.
type Anomaly struct {
	RuleID      string  `json:"rule_id"`
	WeekStart   string  `json:"week_start"`
	Scope       string  `json:"scope"` // global | channel
	Entity      string  `json:"entity,omitempty"`
	Current     float64 `json:"current"`
	Previous    float64 `json:"previous"`
	Delta       float64 `json:"delta"`
	Explanation string  `json:"explanation"`
}

const (
	ScopeGlobal  = "global"
	ScopeChannel = "channel"
)
