package deliver

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/weekly-pulse/internal/metrics"
	"github.com/AngelCh415/weekly-pulse/internal/models"
	"github.com/AngelCh415/weekly-pulse/internal/report"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testReport() report.Report {
	weekA := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	orders := []models.CleanOrder{
		{OrderID: "1", OrderDate: weekA, Channel: "direct", Revenue: 100, CustomerType: "new"},
		{OrderID: "2", OrderDate: weekA.AddDate(0, 0, 7), Channel: "direct", Revenue: 150, CustomerType: "new"},
	}
	w := metrics.ComputeWeekly(orders, nil)
	return report.Build(w, metrics.DetectAnomalies(w), 2, 0, "run-1", weekA)
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	runDate := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

	a, err := WriteReports(dir, "# Report\n\nbody\n", testReport(), runDate, testLogger())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "weekly_report_2026-02-20.md"), a.WeeklyReport)
	assert.Equal(t, filepath.Join(dir, "latest.md"), a.LatestReport)
	assert.Equal(t, filepath.Join(dir, "metrics_2026-02-20.json"), a.MetricsJSON)

	md, err := os.ReadFile(a.LatestReport)
	require.NoError(t, err)
	assert.Equal(t, "# Report\n\nbody\n", string(md))

	js, err := os.ReadFile(a.MetricsJSON)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal(js, &rep))
	assert.Equal(t, "run-1", rep.Meta.RunID)
	assert.Len(t, rep.SalesWeekly, 2)
}

func TestWriteReportsCSVShape(t *testing.T) {
	dir := t.TempDir()
	rep := testReport()
	a, err := WriteReports(dir, "md", rep, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), testLogger())
	require.NoError(t, err)

	f, err := os.Open(a.LatestCSV)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two weeks")
	assert.Equal(t, rep.FlatHeader(), records[0])

	header := records[0]
	row := records[1]
	byCol := make(map[string]string, len(header))
	for i, col := range header {
		byCol[col] = row[i]
	}
	assert.Equal(t, "2026-02-02", byCol["week_start"])
	assert.Equal(t, "100", byCol["revenue"])
	assert.Equal(t, "", byCol["revenue_wow"], "undefined WoW stays an empty cell")
	assert.Equal(t, "", byCol["roas_direct"], "no spend leaves ROAS empty")
	assert.True(t, strings.HasSuffix(a.WeeklyCSV, "weekly_report_2026-02-20.csv"))
}

func TestWriteReportsEmptyPayload(t *testing.T) {
	dir := t.TempDir()
	a, err := WriteReports(dir, "empty", report.Report{}, time.Now().UTC(), testLogger())
	require.NoError(t, err)

	info, err := os.Stat(a.LatestCSV)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size(), "no weeks means an empty csv artifact")
}
