// Package deliver writes the run artifacts: dated and latest markdown
// reports, the metrics JSON, and the flattened weekly CSVs.
package deliver

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/weekly-pulse/internal/report"
)

type Artifacts struct {
	WeeklyReport string `json:"weekly_report"`
	LatestReport string `json:"latest_report"`
	MetricsJSON  string `json:"metrics_json"`
	WeeklyCSV    string `json:"weekly_csv"`
	LatestCSV    string `json:"latest_csv"`
}

func WriteReports(dir string, reportMD string, r report.Report, runDate time.Time, log *slog.Logger) (Artifacts, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("create reports dir: %w", err)
	}

	dateStr := runDate.Format("2006-01-02")
	a := Artifacts{
		WeeklyReport: filepath.Join(dir, "weekly_report_"+dateStr+".md"),
		LatestReport: filepath.Join(dir, "latest.md"),
		MetricsJSON:  filepath.Join(dir, "metrics_"+dateStr+".json"),
		WeeklyCSV:    filepath.Join(dir, "weekly_report_"+dateStr+".csv"),
		LatestCSV:    filepath.Join(dir, "latest.csv"),
	}

	md := strings.TrimSpace(reportMD) + "\n"
	if err := os.WriteFile(a.WeeklyReport, []byte(md), 0o644); err != nil {
		return Artifacts{}, fmt.Errorf("write weekly report: %w", err)
	}
	if err := os.WriteFile(a.LatestReport, []byte(md), 0o644); err != nil {
		return Artifacts{}, fmt.Errorf("write latest report: %w", err)
	}

	js, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return Artifacts{}, fmt.Errorf("marshal metrics json: %w", err)
	}
	if err := os.WriteFile(a.MetricsJSON, js, 0o644); err != nil {
		return Artifacts{}, fmt.Errorf("write metrics json: %w", err)
	}

	header := r.FlatHeader()
	rows := r.FlatRows()
	for _, path := range []string{a.WeeklyCSV, a.LatestCSV} {
		if err := writeCSV(path, header, rows); err != nil {
			return Artifacts{}, err
		}
	}

	log.Info("wrote report artifacts", slog.String("dir", dir), slog.Int("weeks", len(rows)))
	return a, nil
}

func writeCSV(path string, header []string, rows []map[string]any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if len(rows) == 0 {
		return nil
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = cell(row[col])
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// cell renders a flat-row value for CSV; undefined values become empty cells.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
