package metrics

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/weekly-pulse/internal/models"
	"github.com/AngelCh415/weekly-pulse/internal/report"
	"github.com/AngelCh415/weekly-pulse/internal/store"
)

// Service answers report queries over the latest stored run.
type Service struct{ st *store.MemoryStore }

func NewService(st *store.MemoryStore) *Service { return &Service{st: st} }

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func csvSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

func (s *Service) Latest() (report.Report, bool) {
	return s.st.Report()
}

// Weeks returns the flat one-row-per-week projection, filterable by
// week_start range and channel activity, and paginated. The channel
// parameter takes a comma-separated list; a week matches when any listed
// channel has revenue or spend in it.
func (s *Service) Weeks(v url.Values) []map[string]any {
	rep, ok := s.st.Report()
	if !ok {
		return []map[string]any{}
	}
	from := strings.TrimSpace(v.Get("from"))
	to := strings.TrimSpace(v.Get("to"))
	chSet := csvSet(v.Get("channel"))
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)

	rows := rep.FlatRows()
	filtered := rows[:0:0]
	for _, row := range rows {
		ws, _ := row["week_start"].(string)
		if from != "" && ws < from {
			continue
		}
		if to != "" && ws > to {
			continue
		}
		if len(chSet) > 0 && !weekHasChannel(row, chSet) {
			continue
		}
		filtered = append(filtered, row)
	}
	limit, offset = clampLimitOffset(limit, offset, len(filtered))
	return paginate(filtered, limit, offset)
}

// Anomalies returns the anomaly list, filterable by rule id, week and
// channel entity.
func (s *Service) Anomalies(v url.Values) []models.Anomaly {
	rep, ok := s.st.Report()
	if !ok {
		return []models.Anomaly{}
	}
	ruleID := norm(v.Get("rule_id"))
	week := strings.TrimSpace(v.Get("week"))
	channel := norm(v.Get("channel"))

	out := []models.Anomaly{}
	for _, a := range rep.Anomalies {
		if ruleID != "" && norm(a.RuleID) != ruleID {
			continue
		}
		if week != "" && a.WeekStart != week {
			continue
		}
		if channel != "" && norm(a.Entity) != channel {
			continue
		}
		out = append(out, a)
	}
	return out
}

func weekHasChannel(row map[string]any, chSet map[string]struct{}) bool {
	for c := range chSet {
		if v, ok := row["revenue_"+c].(float64); ok && v > 0 {
			return true
		}
		if v, ok := row["spend_"+c].(float64); ok && v > 0 {
			return true
		}
	}
	return false
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}
