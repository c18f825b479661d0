package normalize

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/AngelCh415/weekly-pulse/internal/models"
	"github.com/AngelCh415/weekly-pulse/internal/utils"
)

// Normalizer turns raw feed rows into clean, typed, deduplicated records.
// Pure in-memory transformation; the only side effect is warn logging for
// rows it drops or defaults.
type Normalizer struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Normalizer {
	return &Normalizer{log: log}
}

func field(row models.RawRecord, name string) string {
	return strings.TrimSpace(cast.ToString(row[name]))
}

// Orders cleans the orders feed: rows without a parseable date are dropped,
// duplicated order ids keep the last row seen (later rows are corrections),
// output is sorted by order date.
func (n *Normalizer) Orders(rows []models.RawRecord) []models.CleanOrder {
	n.log.Info("cleaning orders", slog.Int("raw_rows", len(rows)))

	out := make([]models.CleanOrder, 0, len(rows))
	byID := make(map[string]int) // order_id -> index in out
	droppedDates := 0
	dupes := 0

	for i, row := range rows {
		date, ok := Date(field(row, "order_date"))
		if !ok {
			droppedDates++
			utils.RowsDropped.WithLabelValues("orders").Inc()
			n.log.Warn("dropping order with invalid date",
				slog.Int("row", i), slog.String("order_id", field(row, "order_id")))
			continue
		}
		o := models.CleanOrder{
			OrderID:      field(row, "order_id"),
			OrderDate:    date,
			Channel:      Channel(field(row, "channel")),
			Revenue:      maxf(Money(field(row, "revenue"))),
			CustomerType: CustomerType(field(row, "customer_type")),
			Country:      coalesce(field(row, "country"), "unknown"),
		}
		if j, seen := byID[o.OrderID]; seen {
			out[j] = o
			dupes++
			continue
		}
		byID[o.OrderID] = len(out)
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })

	if droppedDates > 0 {
		n.log.Warn("dropped orders with invalid/missing order_date", slog.Int("count", droppedDates))
	}
	if dupes > 0 {
		n.log.Warn("replaced duplicate order rows by order_id, kept last", slog.Int("count", dupes))
	}
	n.log.Info("cleaned orders", slog.Int("rows", len(out)))
	return out
}

// Ads cleans the ads feed. An empty input is an ordinary empty dataset, not
// an error. Unparseable numerics default to 0; count fields are rounded to
// whole numbers.
func (n *Normalizer) Ads(rows []models.RawRecord) []models.CleanAd {
	n.log.Info("cleaning ads", slog.Int("raw_rows", len(rows)))

	out := make([]models.CleanAd, 0, len(rows))
	droppedDates := 0

	for i, row := range rows {
		date, ok := Date(field(row, "date"))
		if !ok {
			droppedDates++
			utils.RowsDropped.WithLabelValues("ads").Inc()
			n.log.Warn("dropping ads row with invalid date",
				slog.Int("row", i), slog.String("campaign", field(row, "campaign")))
			continue
		}
		out = append(out, models.CleanAd{
			Date:        date,
			Channel:     Channel(field(row, "channel")),
			Campaign:    coalesce(field(row, "campaign"), "unknown"),
			Spend:       maxf(Money(field(row, "spend"))),
			Impressions: math.Round(maxf(Number(field(row, "impressions")))),
			Clicks:      math.Round(maxf(Number(field(row, "clicks")))),
			Conversions: math.Round(maxf(Number(field(row, "conversions")))),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	if droppedDates > 0 {
		n.log.Warn("dropped ads rows with invalid/missing date", slog.Int("count", droppedDates))
	}
	n.log.Info("cleaned ads", slog.Int("rows", len(out)))
	return out
}

func coalesce(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
