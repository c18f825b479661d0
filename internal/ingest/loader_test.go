package ingest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/weekly-pulse/internal/config"
)

const ordersCSV = "order_id,order_date,channel,revenue,customer_type\nA-1,2026-02-02,fb,100.00,new\nA-2,2026-02-03,email,50.00,returning\n"

const adsCSV = "date,channel,campaign,spend,impressions,clicks,conversions\n2026-02-02,google ads,brand,100.00,1000,50,5\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOrdersFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv", ordersCSV)

	l := NewLoader(NewHTTPClient(time.Second), testLogger(), config.Config{OrdersPath: path})
	rows, err := l.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0]["order_id"])
	assert.Equal(t, "100.00", rows[0]["revenue"])
}

func TestOrdersMissingFileIsHardFailure(t *testing.T) {
	l := NewLoader(NewHTTPClient(time.Second), testLogger(), config.Config{OrdersPath: "/nope/orders.csv"})
	_, err := l.Orders(context.Background())
	assert.Error(t, err)
}

func TestAdsFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(adsCSV))
	}))
	defer srv.Close()

	l := NewLoader(NewHTTPClient(time.Second), testLogger(), config.Config{AdsURL: srv.URL})
	rows := l.Ads(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "google ads", rows[0]["channel"])
}

func TestAdsURLFailureFallsBackToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := writeFile(t, dir, "ads.csv", adsCSV)

	l := NewLoader(NewHTTPClient(time.Second), testLogger(), config.Config{AdsURL: srv.URL, AdsFallbackPath: path})
	rows := l.Ads(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "brand", rows[0]["campaign"])
}

func TestAdsExhaustedChainYieldsEmptyDataset(t *testing.T) {
	l := NewLoader(NewHTTPClient(time.Second), testLogger(), config.Config{AdsFallbackPath: "/nope/ads.csv"})
	rows := l.Ads(context.Background())
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestReadCSVToleratesRaggedRows(t *testing.T) {
	rows, err := readCSV(strings.NewReader("a,b,c\n1,2\n4,5,6,7\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["a"])
	_, hasC := rows[0]["c"]
	assert.False(t, hasC)
	assert.Equal(t, "6", rows[1]["c"])
}
